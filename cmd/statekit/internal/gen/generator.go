// Package gen turns a state struct into statekit field declarations and a
// typed store wrapper.
//
// Given a struct type, it emits a <Type>Fields function returning the field
// set for store.New, plus a <Type>Store wrapper whose Get/Set/Use/UseTracked
// methods are typed per field. The output lives next to the source struct,
// so field keys can never drift from the struct definition.
package gen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/printer"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"unicode"

	"golang.org/x/mod/modfile"
)

const storeImport = "github.com/go-drift/statekit/pkg/store"

// DefaultSuffix is appended to the source basename when no output path is
// given: state.go becomes state_statekit.go.
const DefaultSuffix = "_statekit.go"

// Options configures one generation run.
type Options struct {
	// Src is the Go file containing the state struct.
	Src string
	// Type is the struct type name to generate accessors for.
	Type string
	// Out overrides the output path. Defaults to Src with Suffix applied.
	Out string
	// Module overrides the module path recorded in the header comment.
	// When empty it is resolved from the nearest go.mod, and omitted if
	// none is found.
	Module string
	// Suffix overrides DefaultSuffix.
	Suffix string
}

// field is one store-visible struct field.
type field struct {
	GoName string // struct field name
	Key    string // accessor key, lowerCamel or tag override
	Type   string // type expression as written in the source
}

// Generate renders accessors for opts and writes them to the output path.
func Generate(opts Options) (string, error) {
	path, src, err := Render(opts)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return "", fmt.Errorf("gen: write %s: %w", path, err)
	}
	return path, nil
}

// Render produces the generated source without writing it.
func Render(opts Options) (string, []byte, error) {
	if opts.Src == "" {
		return "", nil, fmt.Errorf("gen: source file is required")
	}
	if opts.Type == "" {
		return "", nil, fmt.Errorf("gen: type name is required")
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, opts.Src, nil, parser.ParseComments)
	if err != nil {
		return "", nil, fmt.Errorf("gen: parse %s: %w", opts.Src, err)
	}

	structType, err := findStruct(file, opts.Type)
	if err != nil {
		return "", nil, err
	}

	fields, err := collectFields(fset, structType)
	if err != nil {
		return "", nil, fmt.Errorf("gen: type %s: %w", opts.Type, err)
	}
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("gen: type %s has no exported fields", opts.Type)
	}

	source := sourceRef(opts)
	src, err := render(file.Name.Name, opts.Type, source, fields)
	if err != nil {
		return "", nil, err
	}

	out := opts.Out
	if out == "" {
		suffix := opts.Suffix
		if suffix == "" {
			suffix = DefaultSuffix
		}
		out = strings.TrimSuffix(opts.Src, ".go") + suffix
	}
	return out, src, nil
}

func findStruct(file *ast.File, name string) (*ast.StructType, error) {
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok || ts.Name.Name != name {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				return nil, fmt.Errorf("gen: type %s is not a struct", name)
			}
			return st, nil
		}
	}
	return nil, fmt.Errorf("gen: type %s not found", name)
}

func collectFields(fset *token.FileSet, st *ast.StructType) ([]field, error) {
	var fields []field
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			// Embedded fields have no accessor key of their own.
			continue
		}

		key := ""
		if f.Tag != nil {
			tag := reflect.StructTag(strings.Trim(f.Tag.Value, "`"))
			key = tag.Get("statekit")
		}
		if key == "-" {
			continue
		}

		var typ bytes.Buffer
		if err := printer.Fprint(&typ, fset, f.Type); err != nil {
			return nil, err
		}

		for _, name := range f.Names {
			if !ast.IsExported(name.Name) {
				continue
			}
			k := key
			if k == "" {
				k = accessorKey(name.Name)
			}
			fields = append(fields, field{
				GoName: name.Name,
				Key:    k,
				Type:   typ.String(),
			})
		}
	}
	return fields, nil
}

// accessorKey lowercases the leading initialism of an exported name:
// Name -> name, URL -> url, URLPath -> urlPath.
func accessorKey(name string) string {
	runes := []rune(name)
	upper := 0
	for upper < len(runes) && unicode.IsUpper(runes[upper]) {
		upper++
	}
	switch {
	case upper == 0:
		return name
	case upper == len(runes):
		return strings.ToLower(name)
	case upper == 1:
		runes[0] = unicode.ToLower(runes[0])
	default:
		// Keep the last upper rune, it starts the next word.
		for i := 0; i < upper-1; i++ {
			runes[i] = unicode.ToLower(runes[i])
		}
	}
	return string(runes)
}

// sourceRef builds the header reference for the generated file. With a module
// path available it is module-relative, otherwise just the basename.
func sourceRef(opts Options) string {
	module := opts.Module
	if module == "" {
		module = moduleFor(opts.Src)
	}
	if module == "" {
		return filepath.Base(opts.Src)
	}

	root := projectRoot(opts.Src)
	if root == "" {
		return module + "/" + filepath.Base(opts.Src)
	}
	abs, err := filepath.Abs(opts.Src)
	if err != nil {
		return module + "/" + filepath.Base(opts.Src)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return module + "/" + filepath.Base(opts.Src)
	}
	return module + "/" + filepath.ToSlash(rel)
}

// projectRoot walks up from the source file to the directory holding go.mod.
func projectRoot(src string) string {
	dir, err := filepath.Abs(filepath.Dir(src))
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func moduleFor(src string) string {
	root := projectRoot(src)
	if root == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return ""
	}
	return modfile.ModulePath(data)
}

func render(pkg, typ, source string, fields []field) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by statekit gen. DO NOT EDIT.\n")
	if source != "" {
		fmt.Fprintf(&b, "// Source: %s (type %s)\n", source, typ)
	}
	fmt.Fprintf(&b, "\npackage %s\n\n", pkg)
	fmt.Fprintf(&b, "import (\n\t%q\n)\n\n", storeImport)

	fmt.Fprintf(&b, "// %sFields declares the store field set for %s.\n", typ, typ)
	fmt.Fprintf(&b, "func %sFields() []store.FieldDef[%s] {\n", typ, typ)
	fmt.Fprintf(&b, "\treturn []store.FieldDef[%s]{\n", typ)
	for _, f := range fields {
		fmt.Fprintf(&b, "\t\tstore.Field(%q,\n", f.Key)
		fmt.Fprintf(&b, "\t\t\tfunc(s %s) %s { return s.%s },\n", typ, f.Type, f.GoName)
		fmt.Fprintf(&b, "\t\t\tfunc(s %s, v %s) %s { s.%s = v; return s }),\n", typ, f.Type, typ, f.GoName)
	}
	fmt.Fprintf(&b, "\t}\n}\n\n")

	fmt.Fprintf(&b, "// %sStore wraps a composite API for %s with typed accessors.\n", typ, typ)
	fmt.Fprintf(&b, "type %sStore struct {\n\t*store.API[%s]\n}\n\n", typ, typ)

	fmt.Fprintf(&b, "// New%sStore builds a named store over the declared field set.\n", typ)
	fmt.Fprintf(&b, "func New%sStore(name string, initial %s, opts ...store.Option[%s]) (*%sStore, error) {\n",
		typ, typ, typ, typ)
	fmt.Fprintf(&b, "\tapi, err := store.New(name, initial, %sFields(), opts...)\n", typ)
	fmt.Fprintf(&b, "\tif err != nil {\n\t\treturn nil, err\n\t}\n")
	fmt.Fprintf(&b, "\treturn &%sStore{API: api}, nil\n}\n", typ)

	for _, f := range fields {
		fmt.Fprintf(&b, "\n// Get%s returns the current value of %q.\n", f.GoName, f.Key)
		fmt.Fprintf(&b, "func (s *%sStore) Get%s() %s {\n", typ, f.GoName, f.Type)
		fmt.Fprintf(&b, "\treturn s.API.Get[%q]().(%s)\n}\n", f.Key, f.Type)

		fmt.Fprintf(&b, "\n// Set%s updates %q.\n", f.GoName, f.Key)
		fmt.Fprintf(&b, "func (s *%sStore) Set%s(v %s) {\n", typ, f.GoName, f.Type)
		fmt.Fprintf(&b, "\ts.API.Set[%q](v)\n}\n", f.Key)

		fmt.Fprintf(&b, "\n// Use%s subscribes r to %q and returns a typed read function.\n", f.GoName, f.Key)
		fmt.Fprintf(&b, "func (s *%sStore) Use%s(r store.Rebuilder, opts ...store.HookOption) func() %s {\n",
			typ, f.GoName, f.Type)
		fmt.Fprintf(&b, "\tread := s.API.Use[%q](r, opts...)\n", f.Key)
		fmt.Fprintf(&b, "\treturn func() %s { return read().(%s) }\n}\n", f.Type, f.Type)

		fmt.Fprintf(&b, "\n// UseTracked%s returns a read-tracking view rooted at %q.\n", f.GoName, f.Key)
		fmt.Fprintf(&b, "func (s *%sStore) UseTracked%s(r store.Rebuilder) *store.Tracked {\n", typ, f.GoName)
		fmt.Fprintf(&b, "\treturn s.API.UseTracked[%q](r)\n}\n", f.Key)
	}

	src, err := format.Source(b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gen: format output: %w", err)
	}
	return src, nil
}
