package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/vi/trait-enumizer/internal/annotations"
	"github.com/vi/trait-enumizer/internal/errors"
	"github.com/vi/trait-enumizer/internal/models"
)

// Parser implements the InterfaceAnalyzer interface
type Parser struct {
	fileSet          *token.FileSet
	defaultReturnVal string
}

// NewParser creates a new interface analyzer
func NewParser() *Parser {
	return &Parser{fileSet: token.NewFileSet()}
}

// FileSet returns the file set positions refer to
func (p *Parser) FileSet() *token.FileSet {
	return p.fileSet
}

// SetDefaultReturnVal sets the channel class used when a method returns a
// value and the directive names none.
func (p *Parser) SetDefaultReturnVal(class string) {
	p.defaultReturnVal = class
}

// ParseSource parses source code from a string for testing purposes
func (p *Parser) ParseSource(filename, source string) (*PackageResult, error) {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, errors.Wrap(errors.SyntaxErrorCode, "failed to parse source", err)
	}

	result, err := p.AnalyzeFiles([]*ast.File{file})
	if err != nil {
		return nil, err
	}
	result.Dir = filepath.Dir(filename)
	return result, nil
}

// ParseDirectory parses the non-test, non-generated Go files of one package
func (p *Parser) ParseDirectory(path string) (*PackageResult, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.FileSystem("read", path, err)
	}

	var files []*ast.File
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}

		file, err := parser.ParseFile(p.fileSet, filepath.Join(path, name), nil, parser.ParseComments)
		if err != nil {
			return nil, errors.Wrapf(errors.SyntaxErrorCode, err, "failed to parse %s", name)
		}
		if ast.IsGenerated(file) {
			continue
		}
		files = append(files, file)
	}

	if len(files) == 0 {
		return &PackageResult{Dir: path}, nil
	}

	result, err := p.AnalyzeFiles(files)
	if err != nil {
		return nil, err
	}
	result.Dir = path
	return result, nil
}

// AnalyzeFiles extracts every annotated type of a package
func (p *Parser) AnalyzeFiles(files []*ast.File) (*PackageResult, error) {
	result := &PackageResult{}
	if len(files) == 0 {
		return result, nil
	}

	result.Name = files[0].Name.Name
	for _, file := range files {
		if file.Name.Name != result.Name {
			return nil, errors.Newf(errors.DefinitionErrorCode, "multiple packages found: %s and %s", result.Name, file.Name.Name)
		}
	}

	if err := p.checkFunctionDirectives(files); err != nil {
		return nil, err
	}

	for _, file := range files {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}

				iface, err := p.analyzeType(file, files, ts, doc)
				if err != nil {
					return nil, err
				}
				if iface != nil {
					result.Interfaces = append(result.Interfaces, iface)
				}
			}
		}
	}

	return result, nil
}

// analyzeType returns nil when the type carries no generate directive
func (p *Parser) analyzeType(file *ast.File, files []*ast.File, ts *ast.TypeSpec, doc *ast.CommentGroup) (*models.Interface, error) {
	directives, err := annotations.Extract(p.fileSet, doc)
	if err != nil {
		return nil, err
	}

	text, first, ok := annotations.GenerateText(directives)
	if !ok {
		return nil, nil
	}
	for _, d := range directives {
		if d.Type != annotations.GenerateDirective {
			return nil, p.definitionError(d.Pos, "%s%s belongs on a method, not on type %s", annotations.Prefix, d.Type, ts.Name.Name)
		}
	}

	cfg, err := annotations.ParseConfig(text, first.ConfigLocation())
	if err != nil {
		return nil, err
	}

	pos := p.fileSet.Position(ts.Pos())
	iface := &models.Interface{
		Name:     ts.Name.Name,
		Package:  file.Name.Name,
		File:     pos.Filename,
		Imports:  fileImports(file),
		Config:   cfg,
		Inherent: cfg.InherentImpl,
		Pos:      pos,
	}

	if ts.TypeParams != nil && len(ts.TypeParams.List) > 0 {
		return nil, p.definitionError(pos, "%s: generic types are not supported", ts.Name.Name)
	}

	it, isInterface := ts.Type.(*ast.InterfaceType)
	switch {
	case isInterface && cfg.InherentImpl:
		return nil, p.definitionError(pos, "%s: inherent_impl needs a concrete type, found an interface", ts.Name.Name)
	case isInterface:
		err = p.collectInterfaceMethods(iface, file, it)
	case cfg.InherentImpl:
		err = p.collectInherentMethods(iface, files, ts.Name.Name)
	default:
		return nil, p.definitionError(pos, "%s is not an interface", ts.Name.Name).
			WithSuggestion("add inherent_impl to enumize the methods of a concrete type")
	}
	if err != nil {
		return nil, err
	}

	if err := p.checkVariantNames(iface); err != nil {
		return nil, err
	}
	return iface, nil
}

func (p *Parser) collectInterfaceMethods(iface *models.Interface, file *ast.File, it *ast.InterfaceType) error {
	for _, field := range it.Methods.List {
		pos := p.fileSet.Position(field.Pos())
		ft, ok := field.Type.(*ast.FuncType)
		if len(field.Names) == 0 || !ok {
			return p.definitionError(pos, "%s: embedded interfaces and type constraints are not supported, list the methods explicitly", iface.Name)
		}

		m, err := p.analyzeMethod(iface, file, field.Names[0].Name, ft, field.Doc, models.BySharedRef)
		if err != nil {
			return err
		}
		iface.Methods = append(iface.Methods, m)
	}
	return nil
}

// collectInherentMethods gathers the exported methods declared on typeName,
// ordered by file and position.
func (p *Parser) collectInherentMethods(iface *models.Interface, files []*ast.File, typeName string) error {
	type located struct {
		file *ast.File
		fn   *ast.FuncDecl
	}
	var found []located

	for _, file := range files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
				continue
			}
			if name, _, generic := receiverType(fn.Recv.List[0].Type); name == typeName {
				if generic {
					return p.definitionError(p.fileSet.Position(fn.Pos()), "%s: methods of generic types are not supported", typeName)
				}
				if fn.Name.IsExported() {
					found = append(found, located{file, fn})
					continue
				}
				directives, err := annotations.Extract(p.fileSet, fn.Doc)
				if err != nil {
					return err
				}
				if len(directives) > 0 {
					return p.definitionError(directives[0].Pos, "%s.%s is unexported and not enumized, enumizer directives only apply to exported methods", typeName, fn.Name.Name).
						WithSuggestion("export the method or remove the directive")
				}
			}
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return p.fileSet.Position(found[i].fn.Pos()).Filename < p.fileSet.Position(found[j].fn.Pos()).Filename
	})

	for _, l := range found {
		_, pointer, _ := receiverType(l.fn.Recv.List[0].Type)
		def := models.BySharedRef
		if pointer {
			def = models.ByUniqueRef
		}

		m, err := p.analyzeMethod(iface, l.file, l.fn.Name.Name, l.fn.Type, l.fn.Doc, def)
		if err != nil {
			return err
		}
		iface.Methods = append(iface.Methods, m)
	}

	if len(iface.Methods) == 0 {
		return p.definitionError(iface.Pos, "%s has no exported methods", typeName)
	}
	return nil
}

func receiverType(expr ast.Expr) (name string, pointer bool, generic bool) {
	if star, ok := expr.(*ast.StarExpr); ok {
		pointer = true
		expr = star.X
	}
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name, pointer, false
	case *ast.IndexExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return id.Name, pointer, true
		}
	case *ast.IndexListExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return id.Name, pointer, true
		}
	}
	return "", pointer, false
}

func (p *Parser) analyzeMethod(iface *models.Interface, file *ast.File, name string, ft *ast.FuncType, doc *ast.CommentGroup, def models.ReceiverConvention) (*models.Method, error) {
	pos := p.fileSet.Position(ft.Pos())
	m := &models.Method{Name: name, Receiver: def, Pos: pos}

	if ft.TypeParams != nil && len(ft.TypeParams.List) > 0 {
		return nil, p.definitionError(pos, "%s.%s: generic methods are not supported", iface.Name, name)
	}

	if err := p.analyzeParams(iface, file, m, ft.Params); err != nil {
		return nil, err
	}
	if err := p.analyzeResults(iface, m, ft.Results); err != nil {
		return nil, err
	}

	directives, err := annotations.Extract(p.fileSet, doc)
	if err != nil {
		return nil, err
	}
	if err := p.applyMethodDirectives(iface, m, directives); err != nil {
		return nil, err
	}

	if m.HasReturn() {
		for _, a := range m.Args {
			if a.FieldName() == models.ReplyField {
				return nil, p.definitionError(pos, "%s.%s: argument %s collides with the reply field %s", iface.Name, name, a.Name, models.ReplyField).
					WithSuggestion("rename the argument")
			}
		}
	}

	seen := make(map[string]string, len(m.Args))
	for _, a := range m.Args {
		if other, dup := seen[a.FieldName()]; dup {
			return nil, p.definitionError(pos, "%s.%s: arguments %s and %s both become field %s", iface.Name, name, other, a.Name, a.FieldName())
		}
		seen[a.FieldName()] = a.Name
	}

	return m, nil
}

func (p *Parser) analyzeParams(iface *models.Interface, file *ast.File, m *models.Method, params *ast.FieldList) error {
	if params == nil {
		return nil
	}

	for i, field := range params.List {
		if _, variadic := field.Type.(*ast.Ellipsis); variadic {
			return p.definitionError(m.Pos, "%s.%s: variadic parameters are not supported", iface.Name, m.Name)
		}
		if len(field.Names) == 0 {
			return p.definitionError(m.Pos, "%s.%s: parameters must be named", iface.Name, m.Name)
		}

		for j, ident := range field.Names {
			if ident.Name == "_" {
				return p.definitionError(m.Pos, "%s.%s: parameter %d must bind a name, not _", iface.Name, m.Name, j+1)
			}

			if i == 0 && j == 0 && isContext(file, field.Type) {
				m.Context = true
				m.ContextName = ident.Name
				continue
			}

			m.Args = append(m.Args, models.Argument{
				Name:     ident.Name,
				Type:     field.Type,
				TypeText: types.ExprString(field.Type),
			})
		}
	}
	return nil
}

func (p *Parser) analyzeResults(iface *models.Interface, m *models.Method, results *ast.FieldList) error {
	if results == nil || results.NumFields() == 0 {
		return nil
	}
	if results.NumFields() > 1 {
		return p.definitionError(m.Pos, "%s.%s: methods may return at most one value", iface.Name, m.Name).
			WithSuggestion("return a struct holding the values")
	}

	cfg := iface.Config
	if !cfg.HasReturnClass() {
		if p.defaultReturnVal == "" {
			return p.definitionError(m.Pos, "%s.%s returns a value but no return value channel class is configured", iface.Name, m.Name).
				WithSuggestion("add returnval=stdchan to the generate directive")
		}
		cfg.ReturnVal = p.defaultReturnVal
	}

	m.Return = results.List[0].Type
	m.ReturnText = types.ExprString(m.Return)
	return nil
}

func (p *Parser) applyMethodDirectives(iface *models.Interface, m *models.Method, directives []annotations.Directive) error {
	receiverSet := false
	for _, d := range directives {
		switch d.Type {
		case annotations.GenerateDirective:
			return p.definitionError(d.Pos, "%sgenerate belongs on a type, not on method %s", annotations.Prefix, m.Name)
		case annotations.ReceiverDirective:
			if receiverSet {
				return p.definitionError(d.Pos, "%s.%s: duplicate receiver directive", iface.Name, m.Name)
			}
			conv, err := models.ParseConvention(d.Args)
			if err != nil {
				return p.definitionError(d.Pos, "%s.%s: %v", iface.Name, m.Name, err)
			}
			m.Receiver = conv
			receiverSet = true
		case annotations.EnumAttrDirective:
			m.EnumAttrs = append(m.EnumAttrs, d.Args)
		case annotations.ReturnAttrDirective:
			if !m.HasReturn() {
				return p.definitionError(d.Pos, "%s.%s: return_attr used on a method without a return value", iface.Name, m.Name)
			}
			m.ReturnAttrs = append(m.ReturnAttrs, d.Args)
		case annotations.ArgAttrDirective:
			name, tag := d.ArgAndFragment()
			arg := findArg(m, name)
			if arg == nil {
				return p.definitionError(d.Pos, "%s.%s has no argument %s", iface.Name, m.Name, name)
			}
			arg.Attrs = append(arg.Attrs, tag)
		case annotations.ToOwnedDirective:
			arg := findArg(m, d.Args)
			if arg == nil {
				return p.definitionError(d.Pos, "%s.%s has no argument %s", iface.Name, m.Name, d.Args)
			}
			if !Ownable(arg.Type) {
				return p.definitionError(d.Pos, "%s.%s: to_owned argument %s must be a pointer, slice or map, found %s", iface.Name, m.Name, arg.Name, arg.TypeText)
			}
			arg.ToOwned = true
		}
	}
	return nil
}

// Ownable reports whether an argument type supports ownership conversion
func Ownable(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return true
	case *ast.ArrayType:
		return t.Len == nil
	case *ast.MapType:
		return true
	}
	return false
}

func findArg(m *models.Method, name string) *models.Argument {
	for i := range m.Args {
		if m.Args[i].Name == name {
			return &m.Args[i]
		}
	}
	return nil
}

// checkVariantNames rejects methods whose variants or resultified names collide
func (p *Parser) checkVariantNames(iface *models.Interface) error {
	seen := make(map[string]*models.Method, len(iface.Methods))
	for _, m := range iface.Methods {
		if other, dup := seen[m.VariantName()]; dup {
			return p.definitionError(m.Pos, "%s: methods %s and %s both become variant %s", iface.Name, other.Name, m.Name, m.VariantName()).
				WithSuggestion("rename one of the methods")
		}
		seen[m.VariantName()] = m
	}

	for _, m := range iface.Methods {
		if other, clash := iface.Method(m.TryName()); clash {
			return p.definitionError(other.Pos, "%s: method %s clashes with the resultified form of %s", iface.Name, other.Name, m.Name)
		}
	}
	return nil
}

// checkFunctionDirectives rejects method directives on plain functions
func (p *Parser) checkFunctionDirectives(files []*ast.File) error {
	for _, file := range files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv != nil {
				continue
			}
			directives, err := annotations.Extract(p.fileSet, fn.Doc)
			if err != nil {
				return err
			}
			if len(directives) > 0 {
				return p.definitionError(directives[0].Pos, "function %s has no receiver, enumizer directives only apply to methods", fn.Name.Name)
			}
		}
	}
	return nil
}

func isContext(file *ast.File, expr ast.Expr) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Context" {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok {
		return false
	}
	for _, imp := range file.Imports {
		path, _ := strconv.Unquote(imp.Path.Value)
		if path != "context" {
			continue
		}
		if imp.Name == nil {
			return pkg.Name == "context"
		}
		return imp.Name.Name == pkg.Name
	}
	return false
}

func fileImports(file *ast.File) []models.Import {
	imports := make([]models.Import, 0, len(file.Imports))
	for _, imp := range file.Imports {
		path, _ := strconv.Unquote(imp.Path.Value)
		i := models.Import{Path: path}
		if imp.Name != nil {
			i.Name = imp.Name.Name
		}
		imports = append(imports, i)
	}
	return imports
}

func (p *Parser) definitionError(pos token.Position, format string, args ...interface{}) *errors.BaseError {
	return errors.Definition(pos, format, args...)
}

// Describe renders the analyzed model for the inspect command
func Describe(iface *models.Interface) string {
	var b strings.Builder
	kind := "interface"
	if iface.Inherent {
		kind = "inherent type"
	}
	fmt.Fprintf(&b, "%s %s (%s)\n", kind, iface.Name, iface.Pos)
	for _, m := range iface.Methods {
		fmt.Fprintf(&b, "  %s [%s]", m.Name, m.Receiver)
		if m.Context {
			b.WriteString(" ctx")
		}
		b.WriteString(" (")
		for i, a := range m.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s %s", a.Name, a.TypeText)
			if a.ToOwned {
				b.WriteString(" owned")
			}
		}
		b.WriteString(")")
		if m.HasReturn() {
			fmt.Fprintf(&b, " -> %s", m.ReturnText)
		}
		b.WriteString("\n")
	}
	return b.String()
}
