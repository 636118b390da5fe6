package generator

import (
	"github.com/dave/jennifer/jen"

	"github.com/vi/trait-enumizer/internal/convention"
	"github.com/vi/trait-enumizer/internal/models"
)

// emitDispatcher writes a call function switching over every variant. Arms
// the requested access cannot serve return a ConventionMismatchError.
func (u *unit) emitDispatcher(f *jen.File, req models.CallFnRequest) {
	params := make([]jen.Code, 0, 4)
	if req.Async {
		params = append(params, jen.Id("ctx").Qual("context", "Context"))
	}
	params = append(params, jen.Id("cmd").Id(u.enum()), jen.Id("o").Add(u.implType(req.Convention)))
	extra := u.callExtra[req.Name]
	if extra != nil {
		params = append(params, jen.Id("extra").Add(extra))
	}

	bindsCommand := false
	cases := make([]jen.Code, 0, len(u.iface.Methods)+1)
	for _, m := range u.iface.Methods {
		var body []jen.Code
		if convention.CanServe(req.Convention, m) {
			body = u.dispatchArm(m, req, extra != nil)
			if len(m.Args) > 0 || m.HasReturn() {
				bindsCommand = true
			}
		} else {
			if m.HasReturn() && u.class.Close {
				body = append(body, u.classQual("Close").Call(u.withExtra(extra != nil, jen.Id("c").Dot(models.ReplyField))...))
				bindsCommand = true
			}
			body = append(body, jen.Return(jen.Op("&").Qual(runtimePath, "ConventionMismatchError").Values(jen.Dict{
				jen.Id("Method"):     jen.Lit(m.Name),
				jen.Id("Enum"):       jen.Lit(u.enum()),
				jen.Id("Convention"): jen.Qual(runtimePath, req.Convention.RuntimeName()),
			})))
		}
		cases = append(cases, jen.Case(jen.Id(u.variant(m))).Block(body...))
	}
	cases = append(cases, jen.Case(jen.Nil()).Block(jen.Return(jen.Qual(runtimePath, "ErrNilCommand"))))

	subject := jen.Id("cmd").Assert(jen.Type())
	if bindsCommand {
		subject = jen.Id("c").Op(":=").Add(subject)
	}

	f.Commentf("%s runs cmd against o with %s receiver access.", req.Name, req.Convention)
	f.Func().Id(req.Name).Params(params...).Error().Block(
		jen.Switch(subject).Block(cases...),
		jen.Return(jen.Qual(runtimePath, "UnknownCommand").Call(jen.Id("cmd"))),
	)
	f.Line()
}

func (u *unit) dispatchArm(m *models.Method, req models.CallFnRequest, hasExtra bool) []jen.Code {
	args := make([]jen.Code, 0, len(m.Args)+1)
	if m.Context {
		if req.Async {
			args = append(args, jen.Id("ctx"))
		} else {
			args = append(args, jen.Qual("context", "Background").Call())
		}
	}
	for _, a := range m.Args {
		field := jen.Id("c").Dot(a.FieldName())
		if a.ToOwned && isPointer(a) {
			field = jen.Op("&").Add(field)
		}
		args = append(args, field)
	}

	call := jen.Id("o").Dot(m.Name).Call(args...)
	if !m.HasReturn() {
		return []jen.Code{call, jen.Return(jen.Nil())}
	}

	reply := jen.Id("c").Dot(models.ReplyField)
	send := jen.Return(u.classQual("Send").Call(u.withExtra(hasExtra, reply, call)...))
	if !u.class.Close {
		return []jen.Code{send}
	}
	// the deferred Close wakes the receiver when the method never returns
	return []jen.Code{
		jen.Defer().Add(u.classQual("Close").Call(u.withExtra(hasExtra, jen.Id("c").Dot(models.ReplyField))...)),
		send,
	}
}

// withExtra prepends the extra context argument when the class takes one
func (u *unit) withExtra(hasExtra bool, args ...jen.Code) []jen.Code {
	if u.class.ExtraType == "" || !hasExtra {
		return args
	}
	return append([]jen.Code{jen.Id("extra")}, args...)
}
