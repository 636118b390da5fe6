package annotations

import (
	"sort"
)

// OptionKind describes which syntax an option accepts
type OptionKind int

const (
	FlagOption        OptionKind = iota // name
	ValueOption                         // name=value
	GroupOption                         // name(sub, options)
	FlagOrGroupOption                   // name or name(sub, options)
	FragmentOption                      // name[fragment]
)

// OptionSpec documents one option of the generate directive
type OptionSpec struct {
	Kind        OptionKind
	Repeatable  bool
	Description string
	SubOptions  map[string]OptionKind
	Examples    []string
}

var conventionSubOptions = map[string]OptionKind{
	"ref": FlagOption, "mut": FlagOption, "once": FlagOption, "move": FlagOption,
	"Fn": FlagOption, "FnMut": FlagOption, "FnOnce": FlagOption,
}

func withConventions(extra map[string]OptionKind) map[string]OptionKind {
	out := make(map[string]OptionKind, len(extra)+len(conventionSubOptions))
	for k, v := range conventionSubOptions {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

var callFnSubOptions = map[string]OptionKind{
	"name":           ValueOption,
	"allow_panic":    FlagOption,
	"extra_arg_type": ValueOption,
	"async":          FlagOption,
	"no_async":       FlagOption,
}

var proxySubOptions = map[string]OptionKind{
	"name":                          ValueOption,
	"resultified_trait":             ValueOption,
	"extra_field_type":              ValueOption,
	"infallible_impl":               FlagOption,
	"unwrapping_impl":               FlagOption,
	"unwrapping_and_panicking_impl": FlagOption,
	"async":                         FlagOption,
	"no_async":                      FlagOption,
}

// Schemas lists every option of the generate directive
var Schemas = map[string]OptionSpec{
	"name": {
		Kind:        ValueOption,
		Description: "Name of the generated command enum, defaults to <Interface>Enum",
		Examples:    []string{"name=CalcCommand"},
	},
	"pub": {
		Kind:        FlagOption,
		Description: "Export derived names",
	},
	"pub_crate": {
		Kind:        FlagOption,
		Description: "Accepted for compatibility, behaves like pub",
	},
	"inherent_impl": {
		Kind:        FlagOption,
		Description: "The annotated type is concrete and its methods form the interface",
	},
	"returnval": {
		Kind:        ValueOption,
		Description: "Channel class carrying return values: stdchan, correlated, an import path or ./relative/dir",
		Examples:    []string{"returnval=stdchan", "returnval=./replies"},
	},
	"enum_attr": {
		Kind:        FragmentOption,
		Repeatable:  true,
		Description: "Comment line emitted above the command enum",
		Examples:    []string{"enum_attr[sumtype:decl]"},
	},
	"call_fn": {
		Kind:        GroupOption,
		Repeatable:  true,
		Description: "Dispatcher applying a command to an implementation",
		SubOptions:  withConventions(callFnSubOptions),
		Examples:    []string{"call_fn(ref, name=Dispatch)", "call_fn(mut, allow_panic, async)"},
	},
	"call": {
		Kind:        FlagOrGroupOption,
		Description: "Shorthand for call_fn(ref)",
		SubOptions:  callFnSubOptions,
	},
	"call_mut": {
		Kind:        FlagOrGroupOption,
		Description: "Shorthand for call_fn(mut)",
		SubOptions:  callFnSubOptions,
	},
	"call_once": {
		Kind:        FlagOrGroupOption,
		Description: "Shorthand for call_fn(once)",
		SubOptions:  callFnSubOptions,
	},
	"proxy": {
		Kind:        GroupOption,
		Repeatable:  true,
		Description: "Proxy turning method calls into dispatched commands",
		SubOptions:  withConventions(proxySubOptions),
		Examples:    []string{"proxy(ref, name=CalcProxy, unwrapping_impl)", "proxy(Fn, resultified_trait=CalcResultified, infallible_impl)"},
	},
	"ref_proxy": {
		Kind:        FlagOrGroupOption,
		Description: "Shorthand for proxy(ref)",
		SubOptions:  proxySubOptions,
	},
	"mut_proxy": {
		Kind:        FlagOrGroupOption,
		Description: "Shorthand for proxy(mut)",
		SubOptions:  proxySubOptions,
	},
	"once_proxy": {
		Kind:        FlagOrGroupOption,
		Description: "Shorthand for proxy(once)",
		SubOptions:  proxySubOptions,
	},
}

// OptionNames returns the known top-level options, sorted
func OptionNames() []string {
	names := make([]string, 0, len(Schemas))
	for name := range Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// closestName returns the candidate nearest to name, or "" when nothing is close
func closestName(name string, candidates []string) string {
	best, bestDist := "", 3
	for _, c := range candidates {
		if d := editDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
