package generator

import (
	"github.com/dave/jennifer/jen"

	"github.com/vi/trait-enumizer/internal/convention"
	"github.com/vi/trait-enumizer/internal/models"
)

// originalSignature rebuilds a method as declared in the interface
func (u *unit) originalSignature(m *models.Method) (params []jen.Code, result *jen.Statement) {
	if m.Context {
		params = append(params, jen.Id(m.ContextName).Qual("context", "Context"))
	}
	for i, a := range m.Args {
		params = append(params, jen.Id(a.Name).Add(u.declaredType(m, i)))
	}
	if m.HasReturn() {
		result = u.returnType(m)
	} else {
		result = jen.Null()
	}
	return params, result
}

// tryArgs forwards the original parameters to the Try method
func tryArgs(m *models.Method, async bool) []jen.Code {
	args := make([]jen.Code, 0, len(m.Args)+1)
	switch {
	case m.Context:
		args = append(args, jen.Id(m.ContextName))
	case async:
		args = append(args, jen.Qual("context", "Background").Call())
	}
	for _, a := range m.Args {
		args = append(args, jen.Id(a.Name))
	}
	return args
}

// emitUnwrapping implements the original interface on the proxy, panicking
// when a command cannot be delivered or no reply arrives.
func (u *unit) emitUnwrapping(f *jen.File, req models.ProxyRequest) {
	for _, m := range u.iface.Methods {
		s := newScope(m)
		recv := s.fresh("p")
		params, result := u.originalSignature(m)

		var body []jen.Code
		switch {
		case !convention.CanCall(m, req.Convention):
			body = []jen.Code{jen.Panic(jen.Qual(runtimePath, "Uncallable").Call(
				jen.Lit(u.iface.Name), jen.Lit(m.Name), jen.Lit(req.Name),
			))}
		case m.HasReturn():
			r, err := s.fresh("r"), s.fresh("err")
			body = []jen.Code{
				jen.List(jen.Id(r), jen.Id(err)).Op(":=").Id(recv).Dot(m.TryName()).Call(tryArgs(m, req.Async)...),
				jen.Qual(runtimePath, "MustDeliver").Call(jen.Id(err)),
				jen.Return(jen.Id(r).Dot("Unwrap").Call()),
			}
		default:
			body = []jen.Code{
				jen.Qual(runtimePath, "MustDeliver").Call(jen.Id(recv).Dot(m.TryName()).Call(tryArgs(m, req.Async)...)),
			}
		}

		f.Func().Params(jen.Id(recv).Op("*").Id(req.Name)).Id(m.Name).Params(params...).Add(result).Block(body...)
		f.Line()
	}

	f.Var().Id("_").Id(u.iface.Name).Op("=").Parens(jen.Op("*").Id(req.Name)).Parens(jen.Nil())
	f.Line()
}

// emitInfallible wraps the resultified interface into the original one for
// interfaces without return values, panicking on delivery failures.
func (u *unit) emitInfallible(f *jen.File, req models.ProxyRequest) {
	wrapper := infallibleName(req.ResultifiedName)

	f.Commentf("%s implements %s on top of any %s.", wrapper, u.iface.Name, req.ResultifiedName)
	f.Type().Id(wrapper).Struct(jen.Id(req.ResultifiedName))
	f.Line()

	for _, m := range u.iface.Methods {
		s := newScope(m)
		recv := s.fresh("w")
		params, _ := u.originalSignature(m)

		f.Func().Params(jen.Id(recv).Id(wrapper)).Id(m.Name).Params(params...).Block(
			jen.Qual(runtimePath, "MustNotFail").Call(
				jen.Id(recv).Dot(req.ResultifiedName).Dot(m.TryName()).Call(tryArgs(m, false)...),
			),
		)
		f.Line()
	}

	f.Var().Id("_").Id(u.iface.Name).Op("=").Id(wrapper).Values()
	f.Line()
}
