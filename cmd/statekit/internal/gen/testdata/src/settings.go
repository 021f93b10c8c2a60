package app

// Settings is the persisted UI state.
type Settings struct {
	Theme    string `json:"theme"`
	FontSize int    `json:"fontSize"`
	Secret   string `statekit:"-"`
	URL      string
	dirty    bool
}
