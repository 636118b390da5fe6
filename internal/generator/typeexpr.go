package generator

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/types"
	"path"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/vi/trait-enumizer/internal/models"
)

// typeResolver turns type expressions of the annotated file into jen code,
// qualifying package selectors with their import paths.
type typeResolver struct {
	imports map[string]string // package name in the source file -> import path
}

func newTypeResolver(imports []models.Import) (*typeResolver, error) {
	r := &typeResolver{imports: make(map[string]string, len(imports))}
	for _, imp := range imports {
		switch imp.Name {
		case "_":
			continue
		case ".":
			return nil, fmt.Errorf("dot import of %s is not supported in files with enumizer directives", imp.Path)
		case "":
			r.imports[defaultPackageName(imp.Path)] = imp.Path
		default:
			r.imports[imp.Name] = imp.Path
		}
	}
	return r, nil
}

// withPackage makes a class package resolvable for extra type expressions
func (r *typeResolver) withPackage(name, path string) *typeResolver {
	out := &typeResolver{imports: make(map[string]string, len(r.imports)+1)}
	for k, v := range r.imports {
		out.imports[k] = v
	}
	if _, taken := out.imports[name]; !taken {
		out.imports[name] = path
	}
	return out
}

// parse converts a type written as text, such as an extra_arg_type value
func (r *typeResolver) parse(text string) (jen.Code, error) {
	expr, err := goparser.ParseExpr(text)
	if err != nil {
		return nil, fmt.Errorf("invalid type %q: %w", text, err)
	}
	return r.convert(expr)
}

func (r *typeResolver) convert(expr ast.Expr) (jen.Code, error) {
	switch t := expr.(type) {
	case *ast.Ident:
		return jen.Id(t.Name), nil

	case *ast.SelectorExpr:
		pkg, ok := t.X.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("unsupported type %s", types.ExprString(expr))
		}
		path, ok := r.imports[pkg.Name]
		if !ok {
			return nil, fmt.Errorf("type %s refers to package %s which is not imported under that name, import it with an explicit name", types.ExprString(expr), pkg.Name)
		}
		return jen.Qual(path, t.Sel.Name), nil

	case *ast.StarExpr:
		inner, err := r.convert(t.X)
		if err != nil {
			return nil, err
		}
		return jen.Op("*").Add(inner), nil

	case *ast.ParenExpr:
		inner, err := r.convert(t.X)
		if err != nil {
			return nil, err
		}
		return jen.Parens(inner), nil

	case *ast.ArrayType:
		elem, err := r.convert(t.Elt)
		if err != nil {
			return nil, err
		}
		if t.Len == nil {
			return jen.Index().Add(elem), nil
		}
		n, err := r.arrayLen(t.Len)
		if err != nil {
			return nil, err
		}
		return jen.Index(n).Add(elem), nil

	case *ast.MapType:
		key, err := r.convert(t.Key)
		if err != nil {
			return nil, err
		}
		value, err := r.convert(t.Value)
		if err != nil {
			return nil, err
		}
		return jen.Map(key).Add(value), nil

	case *ast.ChanType:
		value, err := r.convert(t.Value)
		if err != nil {
			return nil, err
		}
		switch t.Dir {
		case ast.SEND:
			return jen.Chan().Op("<-").Add(value), nil
		case ast.RECV:
			return jen.Op("<-").Chan().Add(value), nil
		default:
			return jen.Chan().Add(value), nil
		}

	case *ast.FuncType:
		params, err := r.fieldList(t.Params)
		if err != nil {
			return nil, err
		}
		results, err := r.fieldList(t.Results)
		if err != nil {
			return nil, err
		}
		code := jen.Func().Params(params...)
		switch {
		case len(results) == 1 && (t.Results.List[0].Names == nil):
			code.Add(results[0])
		case len(results) > 0:
			code.Params(results...)
		}
		return code, nil

	case *ast.Ellipsis:
		elem, err := r.convert(t.Elt)
		if err != nil {
			return nil, err
		}
		return jen.Op("...").Add(elem), nil

	case *ast.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			return jen.Interface(), nil
		}
		return nil, fmt.Errorf("inline interface types are not supported, declare a named interface")

	case *ast.StructType:
		if t.Fields == nil || len(t.Fields.List) == 0 {
			return jen.Struct(), nil
		}
		fields, err := r.fieldList(t.Fields)
		if err != nil {
			return nil, err
		}
		return jen.Struct(fields...), nil

	case *ast.IndexExpr:
		base, err := r.convert(t.X)
		if err != nil {
			return nil, err
		}
		arg, err := r.convert(t.Index)
		if err != nil {
			return nil, err
		}
		return jen.Add(base).Types(arg), nil

	case *ast.IndexListExpr:
		base, err := r.convert(t.X)
		if err != nil {
			return nil, err
		}
		args := make([]jen.Code, 0, len(t.Indices))
		for _, idx := range t.Indices {
			arg, err := r.convert(idx)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return jen.Add(base).Types(args...), nil
	}

	return nil, fmt.Errorf("unsupported type %s", types.ExprString(expr))
}

func (r *typeResolver) fieldList(list *ast.FieldList) ([]jen.Code, error) {
	if list == nil {
		return nil, nil
	}

	var out []jen.Code
	for _, field := range list.List {
		typ, err := r.convert(field.Type)
		if err != nil {
			return nil, err
		}
		if len(field.Names) == 0 {
			out = append(out, typ)
			continue
		}
		for _, name := range field.Names {
			code := jen.Id(name.Name).Add(typ)
			if field.Tag != nil {
				tags, err := structTag(field.Tag.Value)
				if err != nil {
					return nil, err
				}
				if len(tags) > 0 {
					code.Tag(tags)
				}
			}
			out = append(out, code)
		}
	}
	return out, nil
}

// arrayLen converts a constant expression, qualifying package selectors
func (r *typeResolver) arrayLen(expr ast.Expr) (jen.Code, error) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		return jen.Id(e.Value), nil
	case *ast.Ident, *ast.SelectorExpr:
		return r.convert(e)
	case *ast.ParenExpr:
		inner, err := r.arrayLen(e.X)
		if err != nil {
			return nil, err
		}
		return jen.Parens(inner), nil
	case *ast.BinaryExpr:
		x, err := r.arrayLen(e.X)
		if err != nil {
			return nil, err
		}
		y, err := r.arrayLen(e.Y)
		if err != nil {
			return nil, err
		}
		return jen.Add(x).Op(e.Op.String()).Add(y), nil
	}
	return nil, fmt.Errorf("unsupported array length %s", types.ExprString(expr))
}

// structTag parses a literal tag of an inline struct field
func structTag(lit string) (map[string]string, error) {
	raw, err := strconv.Unquote(lit)
	if err != nil {
		return nil, fmt.Errorf("malformed struct tag %s: %w", lit, err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	return parseTags([]string{raw})
}

// defaultPackageName guesses the package name of an import path the way
// goimports does: the last element without a major version suffix, a go-
// prefix or anything after a dot or dash.
func defaultPackageName(importPath string) string {
	base := path.Base(importPath)
	if isMajorVersion(base) {
		if dir := path.Dir(importPath); dir != "." {
			base = path.Base(dir)
		}
	}
	base = strings.TrimPrefix(base, "go-")
	if i := strings.IndexAny(base, ".-"); i > 0 {
		base = base[:i]
	}
	return base
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
