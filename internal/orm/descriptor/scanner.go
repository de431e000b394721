package descriptor

import (
	"go/ast"
	"go/types"
	"reflect"
	"sort"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

// TagKey is the struct tag key read by the scanner.
const TagKey = "ogm"

// Scanner turns Go packages into class descriptors.
//
// Exported struct types become classes. The first embedded struct is the
// superclass. Struct tags under TagKey become member annotations and
// "//ogm:" directives in doc comments become class or method annotations.
// Named interface types become interface descriptors and named basic types
// with declared constants become enums.
type Scanner struct {
	logger *zap.Logger
	dir    string
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithScanLogger sets the scanner's logger.
func WithScanLogger(l *zap.Logger) ScannerOption {
	return func(s *Scanner) { s.logger = l }
}

// WithDir sets the directory packages are resolved from.
func WithDir(dir string) ScannerOption {
	return func(s *Scanner) { s.dir = dir }
}

// NewScanner creates a Scanner.
func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan loads the packages matching patterns with a default Scanner.
func Scan(patterns ...string) ([]*Class, error) {
	return NewScanner().Scan(patterns...)
}

// Scan loads the packages matching patterns and returns their descriptors.
func (s *Scanner) Scan(patterns ...string) ([]*Class, error) {
	cfg := &packages.Config{Mode: LoadMode, Dir: s.dir}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Wrap(errors.Join(errs...), "package errors")
	}

	w := &walk{
		classes:    make(map[string]*Class),
		interfaces: make(map[string]*types.Interface),
		named:      make(map[string]*types.Named),
	}
	for _, pkg := range pkgs {
		s.logger.Debug("scanning package", zap.String("package", pkg.PkgPath))
		w.processPackage(pkg)
	}
	w.linkInterfaces()

	out := make([]*Class, 0, len(w.order))
	for _, name := range w.order {
		out = append(out, w.classes[name])
	}
	s.logger.Info("scanned domain packages",
		zap.Int("packages", len(pkgs)),
		zap.Int("classes", len(out)))
	return out, nil
}

type walk struct {
	classes    map[string]*Class
	order      []string
	interfaces map[string]*types.Interface
	named      map[string]*types.Named
}

func (w *walk) add(c *Class) {
	if _, ok := w.classes[c.Name]; ok {
		return
	}
	w.classes[c.Name] = c
	w.order = append(w.order, c.Name)
}

func (w *walk) processPackage(pkg *packages.Package) {
	docs := collectDocs(pkg)

	scope := pkg.Types.Scope()
	enumValues := make(map[*types.TypeName][]*types.Const)
	for _, name := range scope.Names() {
		if c, ok := scope.Lookup(name).(*types.Const); ok && c.Exported() {
			if named, ok := c.Type().(*types.Named); ok {
				enumValues[named.Obj()] = append(enumValues[named.Obj()], c)
			}
		}
	}

	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}
		named, ok := typeName.Type().(*types.Named)
		if !ok {
			continue
		}

		fqn := qualifiedName(typeName)
		c := &Class{Name: fqn, Annotations: docs[typeName]}

		switch u := named.Underlying().(type) {
		case *types.Interface:
			c.IsInterface = true
			if u.NumMethods() > 0 {
				w.interfaces[fqn] = u
			}
		case *types.Struct:
			w.named[fqn] = named
			w.structMembers(c, u)
			w.methodMembers(c, named, docs)
		case *types.Basic:
			consts := enumValues[typeName]
			if len(consts) == 0 || u.Info()&types.IsInteger == 0 {
				continue
			}
			sort.Slice(consts, func(i, j int) bool { return consts[i].Pos() < consts[j].Pos() })
			c.IsEnum = true
			for _, k := range consts {
				c.EnumValues = append(c.EnumValues, k.Name())
			}
		default:
			continue
		}
		w.add(c)
	}
}

func (w *walk) structMembers(c *Class, st *types.Struct) {
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		tag := reflectTag(st.Tag(i))

		if f.Embedded() {
			if n, ok := f.Type().(*types.Named); ok {
				if _, isStruct := n.Underlying().(*types.Struct); isStruct && IsRoot(c.Superclass) {
					c.Superclass = qualifiedName(n.Obj())
					continue
				}
			}
		}
		if !f.Exported() {
			continue
		}

		c.Fields = append(c.Fields, Member{
			Name:          f.Name(),
			Signature:     types.TypeString(f.Type(), nil),
			TypeParameter: typeParameter(f.Type()),
			Annotations:   ParseTag(tag),
		})
	}
}

func (w *walk) methodMembers(c *Class, named *types.Named, docs map[types.Object][]Annotation) {
	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		if !m.Exported() {
			continue
		}
		sig, ok := m.Type().(*types.Signature)
		if !ok {
			continue
		}

		var t types.Type
		switch {
		case sig.Params().Len() == 1 && sig.Results().Len() == 0:
			t = sig.Params().At(0).Type()
		case sig.Params().Len() == 0 && sig.Results().Len() == 1:
			t = sig.Results().At(0).Type()
		default:
			continue
		}

		c.Methods = append(c.Methods, Member{
			Name:          m.Name(),
			Signature:     types.TypeString(t, nil),
			TypeParameter: typeParameter(t),
			Annotations:   docs[m],
		})
	}
}

// linkInterfaces records, for every struct class, the scanned interfaces
// its pointer type implements.
func (w *walk) linkInterfaces() {
	names := make([]string, 0, len(w.interfaces))
	for name := range w.interfaces {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, fqn := range w.order {
		named, ok := w.named[fqn]
		if !ok {
			continue
		}
		ptr := types.NewPointer(named)
		for _, iface := range names {
			if types.Implements(ptr, w.interfaces[iface]) {
				w.classes[fqn].Interfaces = append(w.classes[fqn].Interfaces, iface)
			}
		}
	}
}

// collectDocs gathers ogm directives from type and method doc comments.
func collectDocs(pkg *packages.Package) map[types.Object][]Annotation {
	docs := make(map[types.Object][]Annotation)
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				for _, spec := range d.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					doc := ts.Doc
					if doc == nil && len(d.Specs) == 1 {
						doc = d.Doc
					}
					if obj := pkg.TypesInfo.Defs[ts.Name]; obj != nil {
						docs[obj] = append(docs[obj], directives(doc)...)
					}
				}
			case *ast.FuncDecl:
				if d.Recv == nil {
					continue
				}
				if obj := pkg.TypesInfo.Defs[d.Name]; obj != nil {
					docs[obj] = append(docs[obj], directives(d.Doc)...)
				}
			}
		}
	}
	return docs
}

func directives(doc *ast.CommentGroup) []Annotation {
	if doc == nil {
		return nil
	}
	var out []Annotation
	for _, c := range doc.List {
		if a, ok := ParseDirective(c.Text); ok {
			out = append(out, a)
		}
	}
	return out
}

func reflectTag(raw string) string {
	return reflect.StructTag(raw).Get(TagKey)
}

func qualifiedName(obj *types.TypeName) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

// typeParameter returns the element type of a container type, or "".
func typeParameter(t types.Type) string {
	switch u := t.Underlying().(type) {
	case *types.Slice:
		return types.TypeString(u.Elem(), nil)
	case *types.Array:
		return types.TypeString(u.Elem(), nil)
	case *types.Map:
		// map[K]struct{} is a set of K.
		if st, ok := u.Elem().Underlying().(*types.Struct); ok && st.NumFields() == 0 {
			return types.TypeString(u.Key(), nil)
		}
		return types.TypeString(u.Elem(), nil)
	case *types.Pointer:
		if _, ok := u.Elem().Underlying().(*types.Slice); ok {
			return typeParameter(u.Elem())
		}
	}
	return ""
}
