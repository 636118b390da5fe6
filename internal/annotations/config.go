package annotations

import (
	"fmt"
	"go/parser"
	"go/token"
	"sort"

	"github.com/vi/trait-enumizer/internal/errors"
	"github.com/vi/trait-enumizer/internal/models"
)

// ParseConfig parses the text of a generate directive into a Configuration.
func ParseConfig(text string, loc errors.SourceLocation) (*models.Configuration, error) {
	options, err := ParseOptions(text, loc)
	if err != nil {
		return nil, err
	}

	b := &configBuilder{cfg: &models.Configuration{}, seen: map[string]bool{}, loc: loc}
	for _, opt := range options {
		if err := b.apply(opt); err != nil {
			return nil, err
		}
	}
	return b.cfg, nil
}

type configBuilder struct {
	cfg  *models.Configuration
	seen map[string]bool
	loc  errors.SourceLocation
}

func (b *configBuilder) apply(opt *RawOption) error {
	spec, ok := Schemas[opt.Name]
	if !ok {
		err := b.errorf(opt, "unknown option %s", opt.Name)
		if guess := closestName(opt.Name, OptionNames()); guess != "" {
			err.WithSuggestion(fmt.Sprintf("did you mean %s?", guess))
		}
		return err
	}
	if b.seen[opt.Name] && !spec.Repeatable {
		return b.errorf(opt, "duplicate option %s", opt.Name)
	}
	b.seen[opt.Name] = true

	if err := b.checkShape(opt, spec.Kind); err != nil {
		return err
	}

	switch opt.Name {
	case "name":
		if !token.IsIdentifier(opt.Value) {
			return b.errorf(opt, "name=%s is not a valid identifier", opt.Value)
		}
		b.cfg.EnumName = opt.Value
	case "pub", "pub_crate":
		if b.seen["pub"] && b.seen["pub_crate"] {
			return b.errorf(opt, "choose only one of pub or pub_crate")
		}
		b.cfg.Access = models.Public
		if opt.Name == "pub_crate" {
			b.cfg.Access = models.PubCrate
		}
	case "inherent_impl":
		b.cfg.InherentImpl = true
	case "returnval":
		b.cfg.ReturnVal = opt.Value
	case "enum_attr":
		b.cfg.EnumAttrs = append(b.cfg.EnumAttrs, opt.Fragment)
	case "call_fn":
		return b.callFn(opt, nil, spec)
	case "call", "call_mut", "call_once":
		conv := legacyConvention(opt.Name)
		return b.callFn(opt, &conv, spec)
	case "proxy":
		return b.proxy(opt, nil, spec)
	case "ref_proxy", "mut_proxy", "once_proxy":
		conv := legacyConvention(opt.Name)
		return b.proxy(opt, &conv, spec)
	}
	return nil
}

func legacyConvention(name string) models.ReceiverConvention {
	switch name {
	case "call_mut", "mut_proxy":
		return models.ByUniqueRef
	case "call_once", "once_proxy":
		return models.ByValue
	default:
		return models.BySharedRef
	}
}

func (b *configBuilder) checkShape(opt *RawOption, kind OptionKind) error {
	switch kind {
	case FlagOption:
		if opt.HasValue {
			return b.errorf(opt, "option %s does not take a value", opt.Name)
		}
		if opt.HasGroup {
			return b.errorf(opt, "unexpected parentheses after %s", opt.Name)
		}
	case ValueOption:
		if !opt.HasValue {
			return b.errorf(opt, "option %s requires a value", opt.Name).
				WithSuggestion(fmt.Sprintf("write %s=<value>", opt.Name))
		}
		if opt.HasGroup {
			return b.errorf(opt, "unexpected parentheses after %s", opt.Name)
		}
	case GroupOption, FlagOrGroupOption:
		if opt.HasValue {
			return b.errorf(opt, "option %s does not take a value, use %s(...)", opt.Name, opt.Name)
		}
		if kind == GroupOption && !opt.HasGroup {
			return b.errorf(opt, "option %s requires parentheses", opt.Name)
		}
	case FragmentOption:
		if !opt.HasFragment {
			return b.errorf(opt, "option %s requires a [fragment]", opt.Name)
		}
		return nil
	}
	if opt.HasFragment {
		return b.errorf(opt, "option %s does not take a [fragment]", opt.Name)
	}
	return nil
}

// subOptions validates the sub-options of a group and indexes them by name
func (b *configBuilder) subOptions(opt *RawOption, allowed map[string]OptionKind) (map[string]*RawOption, error) {
	subs := make(map[string]*RawOption, len(opt.Group))
	for _, sub := range opt.Group {
		kind, ok := allowed[sub.Name]
		if !ok {
			err := b.errorf(sub, "unknown sub-option %s of %s", sub.Name, opt.Name)
			names := make([]string, 0, len(allowed))
			for n := range allowed {
				names = append(names, n)
			}
			sort.Strings(names)
			if guess := closestName(sub.Name, names); guess != "" {
				err.WithSuggestion(fmt.Sprintf("did you mean %s?", guess))
			}
			return nil, err
		}
		if _, dup := subs[sub.Name]; dup {
			return nil, b.errorf(sub, "duplicate sub-option %s of %s", sub.Name, opt.Name)
		}
		if err := b.checkShape(sub, kind); err != nil {
			return nil, err
		}
		subs[sub.Name] = sub
	}
	return subs, nil
}

// convention picks the single convention flag of a group
func (b *configBuilder) convention(opt *RawOption, fixed *models.ReceiverConvention) (models.ReceiverConvention, error) {
	if fixed != nil {
		return *fixed, nil
	}

	var found []*RawOption
	for _, sub := range opt.Group {
		if _, ok := conventionSubOptions[sub.Name]; ok {
			found = append(found, sub)
		}
	}
	switch len(found) {
	case 0:
		return models.BySharedRef, b.errorf(opt, "%s needs a receiver convention: ref, mut or once", opt.Name)
	case 1:
		return models.ParseConvention(found[0].Name)
	default:
		return models.BySharedRef, b.errorf(found[1], "choose only one receiver convention for %s", opt.Name)
	}
}

func (b *configBuilder) callFn(opt *RawOption, fixed *models.ReceiverConvention, spec OptionSpec) error {
	subs, err := b.subOptions(opt, spec.SubOptions)
	if err != nil {
		return err
	}
	conv, err := b.convention(opt, fixed)
	if err != nil {
		return err
	}

	req := models.CallFnRequest{Convention: conv}
	if name, ok := subs["name"]; ok {
		if !token.IsIdentifier(name.Value) {
			return b.errorf(name, "name=%s is not a valid identifier", name.Value)
		}
		req.Name = name.Value
	}
	_, req.AllowMismatch = subs["allow_panic"]
	if extra, ok := subs["extra_arg_type"]; ok {
		if err := b.checkType(extra); err != nil {
			return err
		}
		req.ExtraArgType = extra.Value
	}
	if req.Async, err = b.asyncFlag(opt, subs); err != nil {
		return err
	}

	b.cfg.CallFns = append(b.cfg.CallFns, req)
	return nil
}

func (b *configBuilder) proxy(opt *RawOption, fixed *models.ReceiverConvention, spec OptionSpec) error {
	subs, err := b.subOptions(opt, spec.SubOptions)
	if err != nil {
		return err
	}
	conv, err := b.convention(opt, fixed)
	if err != nil {
		return err
	}

	req := models.ProxyRequest{Convention: conv}
	if name, ok := subs["name"]; ok {
		if !token.IsIdentifier(name.Value) {
			return b.errorf(name, "name=%s is not a valid identifier", name.Value)
		}
		req.Name = name.Value
	}
	if rt, ok := subs["resultified_trait"]; ok {
		if !token.IsIdentifier(rt.Value) {
			return b.errorf(rt, "resultified_trait=%s is not a valid identifier", rt.Value)
		}
		req.ResultifiedName = rt.Value
	}
	if extra, ok := subs["extra_field_type"]; ok {
		if err := b.checkType(extra); err != nil {
			return err
		}
		req.ExtraFieldType = extra.Value
	}

	adapters := 0
	for name, kind := range map[string]models.AdapterKind{
		"infallible_impl":               models.Infallible,
		"unwrapping_impl":               models.Unwrapping,
		"unwrapping_and_panicking_impl": models.UnwrappingAndPanicking,
	} {
		if _, ok := subs[name]; ok {
			req.Adapter = kind
			adapters++
		}
	}
	if adapters > 1 {
		return b.errorf(opt, "choose only one of infallible_impl, unwrapping_impl or unwrapping_and_panicking_impl")
	}

	if req.Async, err = b.asyncFlag(opt, subs); err != nil {
		return err
	}

	b.cfg.Proxies = append(b.cfg.Proxies, req)
	return nil
}

func (b *configBuilder) asyncFlag(opt *RawOption, subs map[string]*RawOption) (bool, error) {
	_, async := subs["async"]
	_, noAsync := subs["no_async"]
	if async && noAsync {
		return false, b.errorf(opt, "choose only one of async or no_async for %s", opt.Name)
	}
	return async, nil
}

func (b *configBuilder) checkType(opt *RawOption) error {
	if _, err := parser.ParseExpr(opt.Value); err != nil {
		return b.errorf(opt, "%s=%s is not a valid type expression", opt.Name, opt.Value)
	}
	return nil
}

func (b *configBuilder) errorf(opt *RawOption, format string, args ...interface{}) *errors.BaseError {
	loc := b.loc
	if loc.Line > 0 {
		loc.Column += opt.Pos.Offset
	}
	return errors.Configuration(opt.Name, format, args...).WithLocation(loc)
}
