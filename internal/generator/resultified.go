package generator

import (
	"github.com/dave/jennifer/jen"

	"github.com/vi/trait-enumizer/internal/models"
)

// tryContext returns the name of the context parameter of a Try method, or
// an empty string when the method takes none.
func tryContext(m *models.Method, async bool, s scope) string {
	switch {
	case m.Context:
		return m.ContextName
	case async:
		return s.fresh("ctx")
	default:
		return ""
	}
}

func (u *unit) tryParams(m *models.Method, ctx string) []jen.Code {
	params := make([]jen.Code, 0, len(m.Args)+1)
	if ctx != "" {
		params = append(params, jen.Id(ctx).Qual("context", "Context"))
	}
	for i, a := range m.Args {
		params = append(params, jen.Id(a.Name).Add(u.declaredType(m, i)))
	}
	return params
}

func (u *unit) tryResults(m *models.Method) *jen.Statement {
	if m.HasReturn() {
		return jen.Parens(jen.List(u.reply(m), jen.Error()))
	}
	return jen.Error()
}

// emitResultified writes the interface whose methods report delivery failures
func (u *unit) emitResultified(f *jen.File, req models.ProxyRequest) {
	methods := make([]jen.Code, 0, len(u.iface.Methods))
	for _, m := range u.iface.Methods {
		ctx := tryContext(m, req.Async, newScope(m))
		methods = append(methods, jen.Id(m.TryName()).Params(u.tryParams(m, ctx)...).Add(u.tryResults(m)))
	}

	f.Commentf("%s mirrors %s with methods that report delivery failures.", req.ResultifiedName, u.iface.Name)
	f.Type().Id(req.ResultifiedName).Interface(methods...)
	f.Line()
}
