package driver

import (
	"context"

	"github.com/rotisserie/eris"
)

// Driver wires the resolver, the pinner and the executor together.
type Driver struct {
	Cargo    string
	Rustup   string
	Rustc    string
	Root     string
	Features []string
	Examples []Example
	Pins     []PinRule
	// Toolchain overrides the detected version text if set.
	Toolchain string
	Progress  Progress
	OnStage   func(stage Stage)
	OnPin     func(rule PinRule)
}

// New returns a Driver for the declared features, examples and pin rules.
func New(root, cargo, rustup string) Driver {
	return Driver{
		Cargo:    cargo,
		Rustup:   rustup,
		Rustc:    "rustc",
		Root:     root,
		Features: Features,
		Examples: Examples,
		Pins:     PinRules,
	}
}

// Matrix returns the feature matrix runner for this driver.
func (d Driver) Matrix() Matrix {
	return Matrix{
		Cargo:    d.Cargo,
		Features: d.Features,
		Examples: d.Examples,
		Progress: d.Progress,
	}
}

// Executor returns an executor for DefaultStages.
func (d Driver) Executor() Executor {
	return Executor{
		Stages: DefaultStages(StageOptions{
			Cargo:  d.Cargo,
			Rustup: d.Rustup,
			Root:   d.Root,
			Matrix: d.Matrix(),
		}),
		OnStage: d.OnStage,
	}
}

func (d Driver) toolchain(ctx context.Context, r Runner) (Toolchain, error) {
	if d.Toolchain != "" {
		return ParseToolchain(d.Toolchain), nil
	}

	tc, err := DetectToolchain(ctx, r, d.Cargo)
	if err != nil {
		return tc, err
	}

	if d.Rustc != "" {
		logCompilerVersion(ctx, r, d.Rustc)
	}
	return tc, nil
}

func failed(ctx context.Context, stage string, err error, msg string) Result {
	return Result{
		Outcome: OutcomeFail,
		Stage:   stage,
		Status:  statusOf(ctx, err),
		Err:     eris.Wrap(err, msg),
	}
}

// Run resolves the configuration, applies the pin rules and executes all stages.
func (d Driver) Run(ctx context.Context, flags Flags, r Runner) Result {
	tc, err := d.toolchain(ctx, r)
	if err != nil {
		return failed(ctx, "toolchain", err, "failed to detect the toolchain version")
	}

	cfg := Resolve(flags, tc)
	log(ctx).Debug().
		Bool("fmt", cfg.Fmt).
		Bool("fuzz", cfg.Fuzz).
		Bool("integration", cfg.IntegrationTests).
		Bool("feature_matrix", cfg.FeatureMatrix).
		Bool("bench", cfg.Bench).
		Bool("docs", cfg.Docs).
		Msg("resolved configuration")

	pinner := Pinner{Cargo: d.Cargo, Rules: d.Pins, OnApply: d.OnPin}
	if err = pinner.Apply(ctx, r, tc); err != nil {
		return failed(ctx, "pin", err, "failed to pin dependencies")
	}

	return d.Executor().Run(ctx, cfg, r)
}
