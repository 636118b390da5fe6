package generator

import (
	"github.com/dave/jennifer/jen"

	"github.com/vi/trait-enumizer/internal/models"
)

// emitEnum writes the sealed command interface and one struct per method
func (u *unit) emitEnum(f *jen.File) {
	f.Commentf("%s is the command form of %s. Each variant carries the arguments of one call.", u.enum(), u.iface.Name)
	for _, attr := range u.cfg.EnumAttrs {
		f.Comment("//" + attr)
	}
	f.Type().Id(u.enum()).Interface(
		jen.Id("MethodName").Params().String(),
		jen.Id(u.marker()).Params(),
	)
	f.Line()

	for _, m := range u.iface.Methods {
		u.emitVariant(f, m)
	}
}

func (u *unit) emitVariant(f *jen.File, m *models.Method) {
	name := u.variant(m)

	fields := make([]jen.Code, 0, len(m.Args)+1)
	for i, a := range m.Args {
		field := jen.Id(a.FieldName()).Add(u.storedType(m, i))
		if tags := u.argTags[m][i]; len(tags) > 0 {
			field.Tag(tags)
		}
		fields = append(fields, field)
	}
	if m.HasReturn() {
		field := jen.Id(models.ReplyField).Add(u.classQual("Sender").Types(u.returnType(m)))
		if tags := u.retTags[m]; len(tags) > 0 {
			field.Tag(tags)
		}
		fields = append(fields, field)
	}

	f.Commentf("%s is the command for %s.%s.", name, u.iface.Name, m.Name)
	for _, attr := range m.EnumAttrs {
		f.Comment("//" + attr)
	}
	f.Type().Id(name).Struct(fields...)
	f.Line()

	f.Func().Params(jen.Id(name)).Id("MethodName").Params().String().Block(
		jen.Return(jen.Lit(m.Name)),
	)
	f.Line()
	f.Func().Params(jen.Id(name)).Id(u.marker()).Params().Block()
	f.Line()
}
