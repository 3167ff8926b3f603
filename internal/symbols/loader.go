package symbols

import (
	"fmt"
	goast "go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// LoadGoModule parses every package of the Go module rooted at root and
// registers one module symbol per package directory, keyed by import path.
// Test files, testdata, vendor, hidden and underscore-prefixed directories,
// and nested modules are skipped.
func LoadGoModule(root string) (*MapRegistry, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve module root").
			WithContext("path", root).Build()
	}

	modulePath, err := readModulePath(absRoot)
	if err != nil {
		return nil, err
	}

	dirs, err := packageDirs(absRoot)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk module").
			WithContext("path", absRoot).Build()
	}

	reg := NewMapRegistry()
	fset := token.NewFileSet()
	for _, dir := range dirs {
		rel, err := filepath.Rel(absRoot, dir)
		if err != nil {
			return nil, err
		}
		importPath := modulePath
		if rel != "." {
			importPath = path.Join(modulePath, filepath.ToSlash(rel))
		}

		mod, err := loadPackage(fset, importPath, dir)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategorySource, "failed to parse package").
				WithContext("module", importPath).Build()
		}
		if mod == nil {
			continue
		}
		reg.Register(importPath, mod)
	}

	slog.Debug("Loaded Go module symbols", logfields.Module(modulePath), logfields.Count(len(reg.Modules())))
	return reg, nil
}

func readModulePath(root string) (string, error) {
	gomod := filepath.Join(root, "go.mod")
	data, err := os.ReadFile(gomod)
	if err != nil {
		return "", errors.WrapError(err, errors.CategorySource, "no go.mod at module root").
			WithContext("path", gomod).Build()
	}
	modulePath := modfile.ModulePath(data)
	if modulePath == "" {
		return "", errors.SourceError("go.mod has no module directive").
			WithContext("path", gomod).Build()
	}
	return modulePath, nil
}

// packageDirs lists directories holding at least one non-test Go file.
func packageDirs(root string) ([]string, error) {
	seen := map[string]bool{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == root {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata" || name == "vendor" {
				return filepath.SkipDir
			}
			if _, err := os.Stat(filepath.Join(p, "go.mod")); err == nil {
				return filepath.SkipDir
			}
			return nil
		}
		if isSourceFile(d.Name()) {
			seen[filepath.Dir(p)] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs, nil
}

func isSourceFile(name string) bool {
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") &&
		!strings.HasPrefix(name, ".") && !strings.HasPrefix(name, "_")
}

// pendingWrap is a value whose initializer wraps a package-level function
// that may be declared in a later file.
type pendingWrap struct {
	value      *Symbol
	candidates []string
}

type packageLoader struct {
	fset    *token.FileSet
	module  *Symbol
	funcs   map[string]*Symbol
	types   map[string]*Symbol
	methods map[string][]*Symbol
	wraps   []pendingWrap
}

func loadPackage(fset *token.FileSet, importPath, dir string) (*Symbol, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && isSourceFile(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, nil
	}

	pl := &packageLoader{
		fset:    fset,
		funcs:   map[string]*Symbol{},
		types:   map[string]*Symbol{},
		methods: map[string][]*Symbol{},
	}

	var parsed []*goast.File
	pkgName := ""
	docFile := ""
	for _, f := range files {
		file, err := parser.ParseFile(fset, f, nil, parser.ParseComments|parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		if pkgName == "" {
			pkgName = file.Name.Name
		}
		if file.Name.Name != pkgName {
			slog.Debug("Skipping file from a different package", logfields.Path(f), logfields.Module(importPath))
			continue
		}
		if file.Doc != nil && (docFile == "" || filepath.Base(f) == "doc.go") {
			docFile = f
		}
		parsed = append(parsed, file)
	}
	if docFile == "" {
		docFile = files[0]
	}

	pl.module = NewModule(importPath, docFile)
	for _, file := range parsed {
		pl.collect(file, pl.fset.File(file.Pos()).Name())
	}
	pl.link()
	return pl.module, nil
}

func (pl *packageLoader) lines(from, to goast.Node) (int, int) {
	return pl.fset.Position(from.Pos()).Line, pl.fset.Position(to.End()).Line
}

func (pl *packageLoader) collect(file *goast.File, filename string) {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *goast.FuncDecl:
			pl.collectFunc(d, filename)
		case *goast.GenDecl:
			pl.collectGen(d, filename)
		}
	}
}

func (pl *packageLoader) collectFunc(d *goast.FuncDecl, filename string) {
	start, end := pl.lines(d, d)
	if d.Recv == nil || len(d.Recv.List) == 0 {
		fn := NewSymbol(d.Name.Name, KindFunc, filename, start, end)
		if _, dup := pl.funcs[fn.name]; !dup {
			pl.funcs[fn.name] = fn
		}
		pl.module.AddAttr(fn)
		return
	}
	recv := receiverType(d.Recv.List[0].Type)
	if recv == "" {
		return
	}
	pl.methods[recv] = append(pl.methods[recv], NewSymbol(d.Name.Name, KindMethod, filename, start, end))
}

func (pl *packageLoader) collectGen(d *goast.GenDecl, filename string) {
	// An unparenthesized declaration spans from its keyword.
	single := !d.Lparen.IsValid()

	for _, spec := range d.Specs {
		var from goast.Node = spec
		if single {
			from = d
		}
		switch s := spec.(type) {
		case *goast.TypeSpec:
			start, end := pl.lines(from, s)
			typ := NewSymbol(s.Name.Name, KindType, filename, start, end)
			pl.typeMembers(typ, s.Type, filename)
			if _, dup := pl.types[typ.name]; !dup {
				pl.types[typ.name] = typ
			}
			pl.module.AddAttr(typ)
		case *goast.ValueSpec:
			start, end := pl.lines(from, s)
			for i, name := range s.Names {
				if name.Name == "_" {
					continue
				}
				var init goast.Expr
				if i < len(s.Values) {
					init = s.Values[i]
				}
				pl.module.AddAttr(pl.value(name.Name, init, filename, start, end))
			}
		}
	}
}

func (pl *packageLoader) typeMembers(typ *Symbol, expr goast.Expr, filename string) {
	switch t := expr.(type) {
	case *goast.StructType:
		for _, field := range t.Fields.List {
			start, end := pl.lines(field, field)
			for _, name := range field.Names {
				typ.AddAttr(NewSymbol(name.Name, KindField, filename, start, end))
			}
			if len(field.Names) == 0 {
				if embedded := receiverType(field.Type); embedded != "" {
					typ.AddAttr(NewSymbol(embedded, KindField, filename, start, end))
				}
			}
		}
	case *goast.InterfaceType:
		for _, m := range t.Methods.List {
			start, end := pl.lines(m, m)
			for _, name := range m.Names {
				typ.AddAttr(NewSymbol(name.Name, KindMethod, filename, start, end))
			}
		}
	}
}

// value builds a var or const symbol. A value initialized by a call that
// takes a function literal or a package-level function becomes wrapped.
func (pl *packageLoader) value(name string, init goast.Expr, filename string, start, end int) *Symbol {
	call, ok := init.(*goast.CallExpr)
	if !ok {
		return NewSymbol(name, KindValue, filename, start, end)
	}
	var idents []string
	for _, arg := range call.Args {
		switch a := arg.(type) {
		case *goast.FuncLit:
			fStart, fEnd := pl.lines(a, a)
			inner := NewSymbol(name+".func", KindFunc, filename, fStart, fEnd)
			return NewWrapped(name, filename, start, end, inner)
		case *goast.Ident:
			idents = append(idents, a.Name)
		}
	}
	sym := NewSymbol(name, KindValue, filename, start, end)
	if len(idents) > 0 {
		pl.wraps = append(pl.wraps, pendingWrap{value: sym, candidates: idents})
	}
	return sym
}

// link attaches methods to their types and resolves wrapped values once
// every file has been seen.
func (pl *packageLoader) link() {
	for recv, methods := range pl.methods {
		typ, ok := pl.types[recv]
		if !ok {
			continue
		}
		for _, m := range methods {
			typ.AddAttr(m)
		}
	}
	for _, w := range pl.wraps {
		for _, name := range w.candidates {
			if fn, ok := pl.funcs[name]; ok {
				w.value.kind = KindWrapped
				w.value.delegate = fn
				break
			}
		}
	}
}

// receiverType extracts the base type name from a receiver or embedded
// field expression: T, *T, T[K], pkg.T.
func receiverType(expr goast.Expr) string {
	switch t := expr.(type) {
	case *goast.Ident:
		return t.Name
	case *goast.StarExpr:
		return receiverType(t.X)
	case *goast.IndexExpr:
		return receiverType(t.X)
	case *goast.IndexListExpr:
		return receiverType(t.X)
	case *goast.SelectorExpr:
		return t.Sel.Name
	case *goast.ParenExpr:
		return receiverType(t.X)
	default:
		return ""
	}
}
