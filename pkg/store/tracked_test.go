package store

import "testing"

type profile struct {
	Bio   string
	Links map[string]string
}

type accountState struct {
	Profile profile
	Visits  int
}

func accountFields() []FieldDef[accountState] {
	return []FieldDef[accountState]{
		Field("profile",
			func(s accountState) profile { return s.Profile },
			func(s accountState, v profile) accountState { s.Profile = v; return s }),
		Field("visits",
			func(s accountState) int { return s.Visits },
			func(s accountState, v int) accountState { s.Visits = v; return s }),
	}
}

func newAccountAPI(t *testing.T) *API[accountState] {
	t.Helper()
	api, err := New("account", accountState{
		Profile: profile{Bio: "hello", Links: map[string]string{"web": "example.com"}},
	}, accountFields())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return api
}

func TestTracked_RebuildsOnlyForReadPath(t *testing.T) {
	api := newAccountAPI(t)
	ctx := &fakeContext{}

	view := api.UseTracked["profile"](ctx)
	if got := view.Get("Bio"); got != "hello" {
		t.Fatalf("Get(Bio) = %v, want 'hello'", got)
	}

	// Change a nested property that was never read.
	api.SetState(func(s accountState) accountState {
		s.Profile.Links = map[string]string{"web": "changed.example.com"}
		return s
	})
	if ctx.rebuilds != 0 {
		t.Fatalf("unread nested change caused %d rebuilds, want 0", ctx.rebuilds)
	}

	// Change the property that was read.
	api.SetState(func(s accountState) accountState {
		s.Profile.Bio = "updated"
		return s
	})
	if ctx.rebuilds != 1 {
		t.Errorf("read-path change caused %d rebuilds, want 1", ctx.rebuilds)
	}
}

func TestTracked_NoReadsMeansNoRebuilds(t *testing.T) {
	api := newAccountAPI(t)
	ctx := &fakeContext{}

	api.UseTracked["profile"](ctx)

	api.SetState(func(s accountState) accountState {
		s.Profile.Bio = "updated"
		return s
	})

	if ctx.rebuilds != 0 {
		t.Errorf("view with no reads rebuilt %d times, want 0", ctx.rebuilds)
	}
}

func TestTracked_PathsResetAfterRebuild(t *testing.T) {
	api := newAccountAPI(t)
	ctx := &fakeContext{}

	view := api.UseTracked["profile"](ctx)
	view.Get("Bio")

	api.SetState(func(s accountState) accountState {
		s.Profile.Bio = "second"
		return s
	})
	if ctx.rebuilds != 1 {
		t.Fatalf("expected 1 rebuild, got %d", ctx.rebuilds)
	}

	// The consumer did not re-read Bio after the rebuild, so further Bio
	// changes must not trigger anything.
	api.SetState(func(s accountState) accountState {
		s.Profile.Bio = "third"
		return s
	})
	if ctx.rebuilds != 1 {
		t.Errorf("stale path triggered a rebuild, got %d total", ctx.rebuilds)
	}
}

func TestTracked_ValueRecordsRootDependency(t *testing.T) {
	api := newAccountAPI(t)
	ctx := &fakeContext{}

	view := api.UseTracked["visits"](ctx)
	if got := view.Value(); got != 0 {
		t.Fatalf("Value() = %v, want 0", got)
	}

	api.Set["visits"](1)

	if ctx.rebuilds != 1 {
		t.Errorf("root dependency change caused %d rebuilds, want 1", ctx.rebuilds)
	}
}

func TestTracked_MapPath(t *testing.T) {
	api := newAccountAPI(t)
	ctx := &fakeContext{}

	view := api.UseTracked["profile"](ctx)
	if got := view.Get("Links", "web"); got != "example.com" {
		t.Fatalf("Get(Links, web) = %v, want 'example.com'", got)
	}

	api.SetState(func(s accountState) accountState {
		s.Profile.Links = map[string]string{"web": "new.example.com"}
		return s
	})

	if ctx.rebuilds != 1 {
		t.Errorf("map entry change caused %d rebuilds, want 1", ctx.rebuilds)
	}
}

func TestUseTrackedStore_WholeState(t *testing.T) {
	api := newAccountAPI(t)
	ctx := &fakeContext{}

	view := api.UseTrackedStore(ctx)
	view.Get("Visits")

	api.SetState(func(s accountState) accountState {
		s.Profile.Bio = "updated"
		return s
	})
	if ctx.rebuilds != 0 {
		t.Fatalf("unread field change caused %d rebuilds, want 0", ctx.rebuilds)
	}

	api.Set["visits"](5)
	if ctx.rebuilds != 1 {
		t.Errorf("read field change caused %d rebuilds, want 1", ctx.rebuilds)
	}
}

func TestResolvePath(t *testing.T) {
	type inner struct{ Value int }
	type outer struct {
		In    inner
		Ptr   *inner
		Items map[string]int
	}

	v := outer{
		In:    inner{Value: 1},
		Ptr:   &inner{Value: 2},
		Items: map[string]int{"a": 3},
	}

	cases := []struct {
		name string
		path []string
		want any
	}{
		{"empty path", nil, v},
		{"struct field", []string{"In", "Value"}, 1},
		{"through pointer", []string{"Ptr", "Value"}, 2},
		{"map key", []string{"Items", "a"}, 3},
		{"missing map key", []string{"Items", "zz"}, nil},
		{"missing field", []string{"Nope"}, nil},
		{"path into scalar", []string{"In", "Value", "deeper"}, nil},
	}
	for _, tc := range cases {
		got := resolvePath(v, tc.path)
		if tc.name == "empty path" {
			if got.(outer).In.Value != 1 {
				t.Errorf("%s: unexpected result %v", tc.name, got)
			}
			continue
		}
		if got != tc.want {
			t.Errorf("%s: resolvePath = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestResolvePath_NilPointer(t *testing.T) {
	type outer struct{ Ptr *profile }

	if got := resolvePath(outer{}, []string{"Ptr", "Bio"}); got != nil {
		t.Errorf("nil pointer path should resolve to nil, got %v", got)
	}
}
