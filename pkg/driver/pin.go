package driver

import (
	"context"
)

// PinRule forces Package to Version whenever the toolchain version text contains Pattern.
type PinRule struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Package string `json:"package" yaml:"package"`
	Version string `json:"version" yaml:"version"`
}

// PinRules lists the dependencies which no longer build with old toolchains.
var PinRules = []PinRule{
	// 1.41
	{Pattern: "1.41.0", Package: "url", Version: "2.2.2"},
	{Pattern: "1.41.0", Package: "form_urlencoded", Version: "1.0.1"},
	// 1.47
	{Pattern: "1.47.0", Package: "once_cell", Version: "1.13.1"},
}

// Pinner applies PinRules through "cargo update --precise".
type Pinner struct {
	Cargo string
	Rules []PinRule
	// OnApply is called right before a matching rule is applied.
	OnApply func(rule PinRule)
}

// Matching returns the rules that apply to tc in declared order.
func (p Pinner) Matching(tc Toolchain) []PinRule {
	result := make([]PinRule, 0)
	for _, rule := range p.Rules {
		if tc.Matches(rule.Pattern) {
			result = append(result, rule)
		}
	}

	return result
}

// Apply runs every matching rule. The first failure is returned as is.
func (p Pinner) Apply(ctx context.Context, r Runner, tc Toolchain) error {
	ctx = withStage(ctx, "pin")
	for _, rule := range p.Matching(tc) {
		log(ctx).Info().
			Str("task", "pin").
			Msgf("Pinning %s to %s for toolchain %s", rule.Package, rule.Version, tc)
		if p.OnApply != nil {
			p.OnApply(rule)
		}

		err := r.Run(ctx, Command{Args: []string{p.Cargo, "update", "-p", rule.Package, "--precise", rule.Version}})
		if err != nil {
			return err
		}
	}

	return nil
}
