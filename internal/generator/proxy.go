package generator

import (
	"github.com/dave/jennifer/jen"

	"github.com/vi/trait-enumizer/internal/models"
)

// Members of generated proxies. Unwrapping adapters put the original method
// names on the proxy, so those may not reuse these.
var proxyMembers = []string{"dispatch", "extra", "mu", "used", "deliver"}

func (u *unit) dispatchFunc(req models.ProxyRequest) *jen.Statement {
	params := []jen.Code{jen.Id(u.enum())}
	if req.Async {
		params = []jen.Code{jen.Qual("context", "Context"), jen.Id(u.enum())}
	}
	return jen.Func().Params(params...).Error()
}

// emitProxy writes the proxy struct, its constructor and the Try methods
func (u *unit) emitProxy(f *jen.File, req models.ProxyRequest) {
	extra := u.proxyExtra[req.Name]

	fields := []jen.Code{jen.Id("dispatch").Add(u.dispatchFunc(req))}
	if extra != nil {
		fields = append(fields, jen.Id("extra").Add(extra))
	}
	switch req.Convention {
	case models.ByUniqueRef:
		fields = append(fields, jen.Id("mu").Qual("sync", "Mutex"))
	case models.ByValue:
		fields = append(fields, jen.Id("used").Qual("sync/atomic", "Bool"))
	}

	f.Commentf("%s turns calls into %s commands and hands them to a dispatch function.", req.Name, u.enum())
	f.Type().Id(req.Name).Struct(fields...)
	f.Line()

	ctorParams := []jen.Code{jen.Id("dispatch").Add(u.dispatchFunc(req))}
	values := jen.Dict{jen.Id("dispatch"): jen.Id("dispatch")}
	if extra != nil {
		ctorParams = append(ctorParams, jen.Id("extra").Add(extra))
		values[jen.Id("extra")] = jen.Id("extra")
	}
	ctor := constructorName(req.Name)
	f.Commentf("%s creates a %s delivering commands to dispatch.", ctor, req.Name)
	f.Func().Id(ctor).Params(ctorParams...).Op("*").Id(req.Name).Block(
		jen.Return(jen.Op("&").Id(req.Name).Values(values)),
	)
	f.Line()

	u.emitDeliver(f, req)

	for _, m := range u.iface.Methods {
		u.emitTry(f, req, m)
	}

	if req.ResultifiedName != "" {
		f.Var().Id("_").Id(req.ResultifiedName).Op("=").Parens(jen.Op("*").Id(req.Name)).Parens(jen.Nil())
		f.Line()
	}
}

func (u *unit) emitDeliver(f *jen.File, req models.ProxyRequest) {
	params := []jen.Code{jen.Id("cmd").Id(u.enum())}
	args := []jen.Code{jen.Id("cmd")}
	if req.Async {
		params = []jen.Code{jen.Id("ctx").Qual("context", "Context"), jen.Id("cmd").Id(u.enum())}
		args = []jen.Code{jen.Id("ctx"), jen.Id("cmd")}
	}

	var body []jen.Code
	switch req.Convention {
	case models.ByUniqueRef:
		body = append(body,
			jen.Id("p").Dot("mu").Dot("Lock").Call(),
			jen.Defer().Id("p").Dot("mu").Dot("Unlock").Call(),
		)
	case models.ByValue:
		body = append(body,
			jen.If(jen.Op("!").Id("p").Dot("used").Dot("CompareAndSwap").Call(jen.False(), jen.True())).Block(
				jen.Return(jen.Qual(runtimePath, "ErrProxyConsumed")),
			),
		)
	}
	body = append(body, jen.Return(jen.Id("p").Dot("dispatch").Call(args...)))

	f.Func().Params(jen.Id("p").Op("*").Id(req.Name)).Id("deliver").Params(params...).Error().Block(body...)
	f.Line()
}

func (u *unit) emitTry(f *jen.File, req models.ProxyRequest, m *models.Method) {
	s := newScope(m)
	ctx := tryContext(m, req.Async, s)
	recv := s.fresh("p")

	values := jen.Dict{}
	for _, a := range m.Args {
		values[jen.Id(a.FieldName())] = ownedValue(a)
	}

	deliverArgs := func(cmd jen.Code) []jen.Code {
		if req.Async {
			return []jen.Code{jen.Id(ctx), cmd}
		}
		return []jen.Code{cmd}
	}

	signature := jen.Func().Params(jen.Id(recv).Op("*").Id(req.Name)).Id(m.TryName()).
		Params(u.tryParams(m, ctx)...).Add(u.tryResults(m))

	if !m.HasReturn() {
		cmd := jen.Id(u.variant(m)).Values(values)
		body := nilGuards(m, func(err jen.Code) []jen.Code { return []jen.Code{err} })
		body = append(body, jen.Return(jen.Id(recv).Dot("deliver").Call(deliverArgs(cmd)...)))
		f.Add(signature.Block(body...))
		f.Line()
		return
	}

	tx, rx, v, err := s.fresh("tx"), s.fresh("rx"), s.fresh("v"), s.fresh("err")
	values[jen.Id(models.ReplyField)] = jen.Id(tx)
	cmd := jen.Id(u.variant(m)).Values(values)

	extra := u.proxyExtra[req.Name] != nil && u.class.ExtraType != ""
	createArgs := []jen.Code{}
	recvArgs := []jen.Code{}
	if extra {
		createArgs = append(createArgs, jen.Id(recv).Dot("extra"))
		recvArgs = append(recvArgs, jen.Id(recv).Dot("extra"))
	}
	forgetArgs := append(append([]jen.Code{}, recvArgs...), jen.Id(rx))
	recvArgs = append(recvArgs, jen.Id(rx))

	failed := []jen.Code{}
	if u.class.Forget {
		failed = append(failed, u.classQual("Forget").Call(forgetArgs...))
	}
	failed = append(failed, jen.Return(u.reply(m).Values(), jen.Id(err)))

	recvCall := u.classQual("Recv").Call(recvArgs...)
	if ctx != "" && u.class.Context {
		recvCall = u.classQual("RecvContext").Call(append([]jen.Code{jen.Id(ctx)}, recvArgs...)...)
	}

	body := nilGuards(m, func(e jen.Code) []jen.Code { return []jen.Code{u.reply(m).Values(), e} })
	body = append(body,
		jen.List(jen.Id(tx), jen.Id(rx)).Op(":=").Add(u.classQual("Create").Types(u.returnType(m)).Call(createArgs...)),
		jen.If(jen.Id(err).Op(":=").Id(recv).Dot("deliver").Call(deliverArgs(cmd)...), jen.Id(err).Op("!=").Nil()).Block(failed...),
		jen.List(jen.Id(v), jen.Id(err)).Op(":=").Add(recvCall),
		jen.Return(u.reply(m).Values(jen.Dict{
			jen.Id("Value"): jen.Id(v),
			jen.Id("Err"):   jen.Id(err),
		}), jen.Nil()),
	)
	f.Add(signature.Block(body...))
	f.Line()
}

// nilGuards rejects nil pointers for arguments the variant stores by value,
// before anything is created or delivered.
func nilGuards(m *models.Method, results func(err jen.Code) []jen.Code) []jen.Code {
	var guards []jen.Code
	for _, a := range m.Args {
		if !a.ToOwned || !isPointer(a) {
			continue
		}
		guards = append(guards, jen.If(jen.Id(a.Name).Op("==").Nil()).Block(
			jen.Return(results(jen.Qual(runtimePath, "NilArgument").Call(jen.Lit(a.Name)))...),
		))
	}
	return guards
}
