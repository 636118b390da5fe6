package generator

import (
	"fmt"
	"go/ast"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/vi/trait-enumizer/internal/models"
	"github.com/vi/trait-enumizer/internal/utils"
)

const runtimePath = "github.com/vi/trait-enumizer/pkg/enumizer"

// unit holds everything the emitters need for one interface. Type
// expressions are converted up front so emitters cannot fail.
type unit struct {
	iface *models.Interface
	cfg   *models.Configuration
	class *models.ChannelClass // nil when no method returns a value

	declared map[*models.Method][]jen.Code // argument types as written
	stored   map[*models.Method][]jen.Code // argument types held by the variant
	returns  map[*models.Method]jen.Code
	argTags  map[*models.Method][]map[string]string
	retTags  map[*models.Method]map[string]string

	callExtra  map[string]jen.Code // call fn name -> extra argument type
	proxyExtra map[string]jen.Code // proxy name -> extra field type
}

func newUnit(iface *models.Interface, class *models.ChannelClass) (*unit, error) {
	resolver, err := newTypeResolver(iface.Imports)
	if err != nil {
		return nil, err
	}

	u := &unit{
		iface:      iface,
		cfg:        iface.Config,
		class:      class,
		declared:   make(map[*models.Method][]jen.Code),
		stored:     make(map[*models.Method][]jen.Code),
		returns:    make(map[*models.Method]jen.Code),
		argTags:    make(map[*models.Method][]map[string]string),
		retTags:    make(map[*models.Method]map[string]string),
		callExtra:  make(map[string]jen.Code),
		proxyExtra: make(map[string]jen.Code),
	}

	for _, m := range iface.Methods {
		for _, a := range m.Args {
			typ, err := resolver.convert(a.Type)
			if err != nil {
				return nil, fmt.Errorf("%s argument %s: %w", m.Name, a.Name, err)
			}
			u.declared[m] = append(u.declared[m], typ)

			owned := typ
			if star, ok := a.Type.(*ast.StarExpr); ok && a.ToOwned {
				if owned, err = resolver.convert(star.X); err != nil {
					return nil, fmt.Errorf("%s argument %s: %w", m.Name, a.Name, err)
				}
			}
			u.stored[m] = append(u.stored[m], owned)

			tags, err := parseTags(a.Attrs)
			if err != nil {
				return nil, fmt.Errorf("%s argument %s: %w", m.Name, a.Name, err)
			}
			u.argTags[m] = append(u.argTags[m], tags)
		}

		if m.HasReturn() {
			typ, err := resolver.convert(m.Return)
			if err != nil {
				return nil, fmt.Errorf("%s return value: %w", m.Name, err)
			}
			u.returns[m] = typ

			if u.retTags[m], err = parseTags(m.ReturnAttrs); err != nil {
				return nil, fmt.Errorf("%s return value: %w", m.Name, err)
			}
		}
	}

	extras := resolver
	if class != nil {
		extras = resolver.withPackage(class.Package, class.ImportPath)
	}
	for _, req := range u.cfg.CallFns {
		if req.ExtraArgType == "" {
			continue
		}
		if u.callExtra[req.Name], err = extras.parse(req.ExtraArgType); err != nil {
			return nil, fmt.Errorf("%s extra_arg_type: %w", req.Name, err)
		}
	}
	for _, req := range u.cfg.Proxies {
		if req.ExtraFieldType == "" {
			continue
		}
		if u.proxyExtra[req.Name], err = extras.parse(req.ExtraFieldType); err != nil {
			return nil, fmt.Errorf("%s extra_field_type: %w", req.Name, err)
		}
	}

	return u, nil
}

func (u *unit) enum() string {
	return u.cfg.EnumName
}

func (u *unit) variant(m *models.Method) string {
	return u.cfg.EnumName + m.VariantName()
}

func (u *unit) marker() string {
	return "is" + utils.UpperFirst(u.cfg.EnumName)
}

// declaredType returns a fresh statement so stored code is never appended to
func (u *unit) declaredType(m *models.Method, i int) *jen.Statement {
	return jen.Add(u.declared[m][i])
}

func (u *unit) storedType(m *models.Method, i int) *jen.Statement {
	return jen.Add(u.stored[m][i])
}

func (u *unit) returnType(m *models.Method) *jen.Statement {
	return jen.Add(u.returns[m])
}

func (u *unit) classQual(name string) *jen.Statement {
	return jen.Qual(u.class.ImportPath, name)
}

func (u *unit) reply(m *models.Method) *jen.Statement {
	return jen.Qual(runtimePath, "Reply").Types(u.returnType(m))
}

// implType is the type dispatchers receive the implementation as
func (u *unit) implType(conv models.ReceiverConvention) *jen.Statement {
	if u.iface.Inherent && conv != models.ByValue {
		return jen.Op("*").Id(u.iface.Name)
	}
	return jen.Id(u.iface.Name)
}

func isPointer(a models.Argument) bool {
	_, ok := a.Type.(*ast.StarExpr)
	return ok
}

// ownedValue converts an argument into the form the variant stores
func ownedValue(a models.Argument) *jen.Statement {
	if !a.ToOwned {
		return jen.Id(a.Name)
	}
	switch a.Type.(type) {
	case *ast.StarExpr:
		return jen.Op("*").Id(a.Name)
	case *ast.MapType:
		return jen.Qual("maps", "Clone").Call(jen.Id(a.Name))
	default:
		return jen.Qual("slices", "Clone").Call(jen.Id(a.Name))
	}
}

// constructorName follows the visibility of the constructed type
func constructorName(typeName string) string {
	if utils.IsExported(typeName) {
		return "New" + typeName
	}
	return "new" + utils.UpperFirst(typeName)
}

// infallibleName is the wrapper type of the infallible adapter
func infallibleName(resultified string) string {
	return resultified + "Infallible"
}

// scope hands out local names that do not shadow method arguments
type scope map[string]bool

func newScope(m *models.Method) scope {
	s := scope{}
	for _, a := range m.Args {
		s[a.Name] = true
	}
	if m.Context {
		s[m.ContextName] = true
	}
	return s
}

func (s scope) fresh(base string) string {
	name := base
	for i := 1; s[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	s[name] = true
	return name
}

// parseTags merges struct tag fragments such as `json:"x" yaml:"y"`
func parseTags(fragments []string) (map[string]string, error) {
	if len(fragments) == 0 {
		return nil, nil
	}

	tags := make(map[string]string)
	for _, frag := range fragments {
		rest := strings.TrimSpace(frag)
		for rest != "" {
			key, value, ok := strings.Cut(rest, ":")
			if !ok || key == "" || strings.ContainsAny(key, " \t\"`") || !strings.HasPrefix(value, `"`) {
				return nil, fmt.Errorf("malformed struct tag fragment %q, expected key:\"value\"", frag)
			}

			end := 1
			for end < len(value) && value[end] != '"' {
				if value[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(value) {
				return nil, fmt.Errorf("unterminated value in struct tag fragment %q", frag)
			}

			v, err := strconv.Unquote(value[:end+1])
			if err != nil {
				return nil, fmt.Errorf("malformed struct tag fragment %q: %w", frag, err)
			}
			if _, dup := tags[key]; dup {
				return nil, fmt.Errorf("duplicate struct tag key %s", key)
			}
			tags[key] = v
			rest = strings.TrimSpace(value[end+1:])
		}
	}
	return tags, nil
}
