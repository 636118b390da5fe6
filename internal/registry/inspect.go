package registry

import (
	"fmt"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/vi/trait-enumizer/internal/errors"
	"github.com/vi/trait-enumizer/internal/models"
)

// PackageInspector loads candidate channel class packages with go/packages
type PackageInspector struct {
	mode packages.LoadMode
}

// NewPackageInspector creates an inspector that loads type information only
func NewPackageInspector() *PackageInspector {
	return &PackageInspector{mode: packages.NeedName | packages.NeedTypes}
}

// Inspect loads importPath as seen from dir and checks its exported API
func (i *PackageInspector) Inspect(dir, importPath string) (*models.ChannelClass, error) {
	pkgs, err := packages.Load(&packages.Config{Mode: i.mode, Dir: dir}, importPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ChannelClassErrorCode, err, "cannot load channel class %s", importPath)
	}
	if len(pkgs) != 1 {
		return nil, errors.Newf(errors.ChannelClassErrorCode, "channel class %s matched %d packages", importPath, len(pkgs))
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		msgs := make([]string, 0, len(pkg.Errors))
		for _, e := range pkg.Errors {
			msgs = append(msgs, e.Msg)
		}
		return nil, errors.Newf(errors.ChannelClassErrorCode, "cannot load channel class %s: %s", importPath, strings.Join(msgs, "; "))
	}

	class, err := CheckClass(pkg.Types)
	if err != nil {
		return nil, err
	}
	class.ImportPath = pkg.PkgPath
	return class, nil
}

// CheckClass verifies that pkg declares the channel class contract:
//
//	type Sender[T any] ...
//	type Receiver[T any] ...
//	func Create[T any]([extra]) (Sender[T], Receiver[T])
//	func Send[T any]([extra,] Sender[T], T) error
//	func Recv[T any]([extra,] Receiver[T]) (T, error)
//	func RecvContext[T any](context.Context, [extra,] Receiver[T]) (T, error) // optional
//	func Close[T any]([extra,] Sender[T])                                  // optional
//	func Forget[T any]([extra,] Receiver[T])                               // optional
func CheckClass(pkg *types.Package) (*models.ChannelClass, error) {
	c := &classChecker{pkg: pkg}

	sender, err := c.generic("Sender")
	if err != nil {
		return nil, err
	}
	receiver, err := c.generic("Receiver")
	if err != nil {
		return nil, err
	}

	create, err := c.fn("Create")
	if err != nil {
		return nil, err
	}
	switch create.Params().Len() {
	case 0:
	case 1:
		c.extra = create.Params().At(0).Type()
	default:
		return nil, c.errorf("Create takes at most one extra context parameter")
	}
	res := create.Results()
	if res.Len() != 2 || !instanceOf(res.At(0).Type(), sender) || !instanceOf(res.At(1).Type(), receiver) {
		return nil, c.errorf("Create must return (Sender[T], Receiver[T])")
	}

	send, err := c.fn("Send")
	if err != nil {
		return nil, err
	}
	rest, err := c.leading(send, "Send", 0)
	if err != nil {
		return nil, err
	}
	if len(rest) != 2 || !instanceOf(rest[0], sender) || !isTypeParam(rest[1]) ||
		send.Results().Len() != 1 || !isError(send.Results().At(0).Type()) {
		return nil, c.errorf("Send must have the signature Send[T]([extra,] Sender[T], T) error")
	}

	recv, err := c.fn("Recv")
	if err != nil {
		return nil, err
	}
	if err := c.checkRecv(recv, "Recv", receiver, 0); err != nil {
		return nil, err
	}

	class := &models.ChannelClass{Package: pkg.Name()}
	if c.extra != nil {
		class.ExtraType = types.TypeString(c.extra, func(p *types.Package) string { return p.Name() })
	}

	if obj := pkg.Scope().Lookup("RecvContext"); obj != nil {
		rc, err := c.fn("RecvContext")
		if err != nil {
			return nil, err
		}
		if rc.Params().Len() == 0 || !isContext(rc.Params().At(0).Type()) {
			return nil, c.errorf("RecvContext must take a context.Context first")
		}
		if err := c.checkRecv(rc, "RecvContext", receiver, 1); err != nil {
			return nil, err
		}
		class.Context = true
	}

	if obj := pkg.Scope().Lookup("Close"); obj != nil {
		if err := c.checkRelease("Close", sender); err != nil {
			return nil, err
		}
		class.Close = true
	}
	if obj := pkg.Scope().Lookup("Forget"); obj != nil {
		if err := c.checkRelease("Forget", receiver); err != nil {
			return nil, err
		}
		class.Forget = true
	}

	return class, nil
}

type classChecker struct {
	pkg   *types.Package
	extra types.Type
}

func (c *classChecker) generic(name string) (*types.Named, error) {
	obj, ok := c.pkg.Scope().Lookup(name).(*types.TypeName)
	if !ok {
		return nil, c.errorf("missing type %s[T]", name)
	}
	named, ok := obj.Type().(*types.Named)
	if !ok || named.TypeParams().Len() != 1 {
		return nil, c.errorf("%s must be a generic type with one type parameter", name)
	}
	return named, nil
}

func (c *classChecker) fn(name string) (*types.Signature, error) {
	obj, ok := c.pkg.Scope().Lookup(name).(*types.Func)
	if !ok {
		return nil, c.errorf("missing function %s", name)
	}
	sig := obj.Type().(*types.Signature)
	if sig.TypeParams().Len() != 1 {
		return nil, c.errorf("%s must have exactly one type parameter", name)
	}
	return sig, nil
}

// leading strips the skip first parameters and the extra parameter, which
// must match the one Create takes.
func (c *classChecker) leading(sig *types.Signature, name string, skip int) ([]types.Type, error) {
	params := make([]types.Type, 0, sig.Params().Len())
	for i := skip; i < sig.Params().Len(); i++ {
		params = append(params, sig.Params().At(i).Type())
	}
	if c.extra == nil {
		return params, nil
	}
	if len(params) == 0 || !types.Identical(params[0], c.extra) {
		return nil, c.errorf("%s must take the same extra parameter as Create", name)
	}
	return params[1:], nil
}

func (c *classChecker) checkRecv(sig *types.Signature, name string, receiver *types.Named, skip int) error {
	rest, err := c.leading(sig, name, skip)
	if err != nil {
		return err
	}
	res := sig.Results()
	if len(rest) != 1 || !instanceOf(rest[0], receiver) ||
		res.Len() != 2 || !isTypeParam(res.At(0).Type()) || !isError(res.At(1).Type()) {
		return c.errorf("%s must return (T, error) from a Receiver[T]", name)
	}
	return nil
}

// checkRelease verifies func name[T any]([extra,] endpoint[T])
func (c *classChecker) checkRelease(name string, endpoint *types.Named) error {
	sig, err := c.fn(name)
	if err != nil {
		return err
	}
	rest, err := c.leading(sig, name, 0)
	if err != nil {
		return err
	}
	if len(rest) != 1 || !instanceOf(rest[0], endpoint) || sig.Results().Len() != 0 {
		return c.errorf("%s must have the signature %s[T]([extra,] %s[T])", name, name, endpoint.Obj().Name())
	}
	return nil
}

func (c *classChecker) errorf(format string, args ...interface{}) *errors.BaseError {
	return errors.New(errors.ChannelClassErrorCode, fmt.Sprintf("channel class %s: ", c.pkg.Path())+fmt.Sprintf(format, args...)).
		WithSuggestion("see pkg/channels/stdchan for a complete channel class")
}

func instanceOf(t types.Type, generic *types.Named) bool {
	named, ok := types.Unalias(t).(*types.Named)
	return ok && named.Origin() == generic
}

func isTypeParam(t types.Type) bool {
	_, ok := t.(*types.TypeParam)
	return ok
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

func isContext(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return false
	}
	return named.Obj().Pkg().Path() == "context" && named.Obj().Name() == "Context"
}
