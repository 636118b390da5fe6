package models

import (
	"go/ast"
	"go/token"

	"github.com/vi/trait-enumizer/internal/utils"
)

// ReplyField is the name of the variant field that carries the reply sender.
const ReplyField = "Ret"

// Argument is one non-receiver parameter of a method, in call order.
type Argument struct {
	Name     string
	Type     ast.Expr
	TypeText string
	ToOwned  bool     // the command stores an owned copy of a borrowed input
	Attrs    []string // struct tag fragments for the generated field
}

// FieldName is the name of the generated variant field
func (a Argument) FieldName() string {
	return utils.UpperCamel(a.Name)
}

// Method is one method of the analyzed interface.
type Method struct {
	Name        string
	Receiver    ReceiverConvention
	Args        []Argument
	Return      ast.Expr // nil when the method returns nothing
	ReturnText  string
	Context     bool     // first parameter is a context.Context and is not captured
	ContextName string   // name of that parameter in the original signature
	EnumAttrs   []string // comment fragments placed above the variant
	ReturnAttrs []string // struct tag fragments for the reply field
	Pos         token.Position
}

// VariantName is the UpperCamel form of the method name
func (m *Method) VariantName() string {
	return utils.UpperCamel(m.Name)
}

// HasReturn reports whether a reply channel is needed
func (m *Method) HasReturn() bool {
	return m.Return != nil
}

// TryName is the name of the resultified method
func (m *Method) TryName() string {
	return "Try" + utils.UpperCamel(m.Name)
}

// Import is an import of the file declaring the interface.
type Import struct {
	Name string // explicit name, empty when the default package name is used
	Path string
}

// Interface is the analyzed input, immutable once built.
type Interface struct {
	Name     string
	Package  string // package name of the declaring file
	PkgPath  string // import path when known
	File     string
	Imports  []Import
	Methods  []*Method
	Config   *Configuration
	Inherent bool // methods come from a concrete type rather than an interface
	Pos      token.Position
}

// Method returns the method with the given name
func (i *Interface) Method(name string) (*Method, bool) {
	for _, m := range i.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// HasReturns reports whether any method needs a reply channel
func (i *Interface) HasReturns() bool {
	for _, m := range i.Methods {
		if m.HasReturn() {
			return true
		}
	}
	return false
}
