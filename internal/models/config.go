package models

import (
	"fmt"

	"github.com/vi/trait-enumizer/internal/errors"
	"github.com/vi/trait-enumizer/internal/utils"
)

// AccessLevel controls the visibility of generated default names
type AccessLevel int

const (
	Private AccessLevel = iota
	PubCrate
	Public
)

// String returns the option spelling
func (a AccessLevel) String() string {
	switch a {
	case Public:
		return "pub"
	case PubCrate:
		return "pub_crate"
	default:
		return "private"
	}
}

// Ident adapts a generated name to the access level. Go only distinguishes
// exported and unexported names, so PubCrate renders like Public.
func (a AccessLevel) Ident(name string) string {
	if a == Private {
		return utils.LowerFirst(name)
	}
	return utils.UpperFirst(name)
}

// AdapterKind selects which implementation of the original interface a proxy gets
type AdapterKind int

const (
	NoAdapter AdapterKind = iota
	Infallible
	Unwrapping
	UnwrappingAndPanicking
)

// String returns the option spelling
func (k AdapterKind) String() string {
	switch k {
	case Infallible:
		return "infallible_impl"
	case Unwrapping:
		return "unwrapping_impl"
	case UnwrappingAndPanicking:
		return "unwrapping_and_panicking_impl"
	default:
		return "none"
	}
}

// CallFnRequest asks for one dispatcher function
type CallFnRequest struct {
	Convention    ReceiverConvention
	Name          string
	AllowMismatch bool
	ExtraArgType  string // type expression, empty when absent
	Async         bool
}

// ProxyRequest asks for one proxy type
type ProxyRequest struct {
	Convention      ReceiverConvention
	Name            string
	ResultifiedName string // empty means no resultified interface
	ExtraFieldType  string
	Adapter         AdapterKind
	Async           bool
}

// ChannelClass is a resolved return value channel class
type ChannelClass struct {
	Spec       string // as written after returnval=
	ImportPath string
	Package    string // package name used to qualify Create, Send and Recv
	ExtraType  string // type of the leading extra context parameter, empty when none
	Context    bool   // provides RecvContext
	Close      bool   // provides Close, releasing a sender that never replied
	Forget     bool   // provides Forget, releasing a receiver nobody will wait on
}

// Configuration is the structured form of the directive text
type Configuration struct {
	Access       AccessLevel
	EnumName     string
	ReturnVal    string
	Class        *ChannelClass
	EnumAttrs    []string
	CallFns      []CallFnRequest
	Proxies      []ProxyRequest
	InherentImpl bool
}

// HasReturnClass reports whether a return value channel class is configured
func (c *Configuration) HasReturnClass() bool {
	return c.ReturnVal != ""
}

// Validate checks the option combinations that are invalid regardless of the interface
func (c *Configuration) Validate() error {
	for _, p := range c.Proxies {
		if p.Adapter == Infallible && c.HasReturnClass() {
			return errors.Configuration("infallible_impl",
				"proxy %s: infallible_impl is incompatible with returnval", p.Name).
				WithSuggestion("use unwrapping_impl to panic on failed replies instead")
		}
		if p.Adapter != NoAdapter && c.InherentImpl {
			return errors.Configuration(p.Adapter.String(),
				"proxy %s: %s needs an interface and cannot be used with inherent_impl", p.Name, p.Adapter).
				WithSuggestion("remove the adapter option or annotate an interface instead of a concrete type")
		}
		if p.Async && p.Adapter == Infallible {
			return errors.Configuration("async",
				"proxy %s: infallible_impl is not available for async proxies", p.Name)
		}
	}
	return nil
}

// ResolveDefaults fills names the directive text left out. Explicit names are
// kept verbatim; derived names follow the access level.
func (c *Configuration) ResolveDefaults(iface string) {
	if c.EnumName == "" {
		c.EnumName = c.Access.Ident(iface + "Enum")
	}

	for i := range c.CallFns {
		req := &c.CallFns[i]
		if req.Name == "" {
			req.Name = c.Access.Ident(fmt.Sprintf("Call%s%s", req.Convention.Suffix(), utils.UpperFirst(c.EnumName)))
		}
	}

	for i := range c.Proxies {
		req := &c.Proxies[i]
		if req.Name == "" {
			req.Name = c.Access.Ident(iface + "Proxy" + req.Convention.Suffix())
		}
		if req.ResultifiedName == "" && req.Adapter == Infallible {
			req.ResultifiedName = c.Access.Ident(iface + "Resultified" + req.Convention.Suffix())
		}
	}
}
