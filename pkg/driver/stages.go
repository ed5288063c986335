package driver

import (
	"context"
	"path/filepath"
)

// StageOptions contains everything DefaultStages needs to build its commands.
type StageOptions struct {
	Cargo  string
	Rustup string
	// Root is the absolute project root, used for paths handed to the test suites.
	Root   string
	Matrix Matrix
}

func runAll(ctx context.Context, r Runner, cmds ...Command) error {
	for _, cmd := range cmds {
		if err := r.Run(ctx, cmd); err != nil {
			return err
		}
	}

	return nil
}

func warnUnlessNightly(ctx context.Context, cfg Config) {
	if !cfg.Toolchain.Nightly() {
		log(ctx).Warn().
			Str("toolchain", cfg.Toolchain.Raw).
			Msg("this stage is only supported on a nightly toolchain")
	}
}

// DefaultStages returns the CI stages in the order they have to run.
func DefaultStages(opts StageOptions) []Stage {
	cargo := opts.Cargo

	return []Stage{
		{
			Name:    "fmt",
			Enabled: func(cfg Config) bool { return cfg.Fmt },
			Action: func(ctx context.Context, cfg Config, r Runner) error {
				return runAll(ctx, r,
					Command{Args: []string{opts.Rustup, "component", "add", "rustfmt"}},
					Command{Args: []string{cargo, "fmt", "--", "--check"}},
				)
			},
		},
		{
			Name:     "fuzz",
			Enabled:  func(cfg Config) bool { return cfg.Fuzz },
			Terminal: true,
			Action: func(ctx context.Context, cfg Config, r Runner) error {
				return runAll(ctx, r,
					Command{Args: []string{cargo, "test", "--verbose"}, Dir: "fuzz"},
					Command{Args: []string{"./travis-fuzz.sh"}, Dir: "fuzz"},
				)
			},
		},
		{
			Name:     "integration",
			Enabled:  func(cfg Config) bool { return cfg.IntegrationTests },
			Terminal: true,
			Action: func(ctx context.Context, cfg Config, r Runner) error {
				return r.Run(ctx, Command{
					Args: []string{cargo, "test", "--verbose"},
					Dir:  "bitcoind-tests",
					Env: map[string]string{
						"BITCOIND_EXE": filepath.Join(opts.Root, "bitcoind-tests", "bin", "bitcoind"),
					},
				})
			},
		},
		{
			Name: "test",
			Action: func(ctx context.Context, cfg Config, r Runner) error {
				return r.Run(ctx, Command{Args: []string{cargo, "test"}})
			},
		},
		{
			Name:    "feature-matrix",
			Enabled: func(cfg Config) bool { return cfg.FeatureMatrix },
			Action: func(ctx context.Context, cfg Config, r Runner) error {
				return opts.Matrix.Run(ctx, r)
			},
		},
		{
			Name:    "bench",
			Enabled: func(cfg Config) bool { return cfg.Bench },
			Action: func(ctx context.Context, cfg Config, r Runner) error {
				warnUnlessNightly(ctx, cfg)
				return r.Run(ctx, Command{Args: []string{cargo, "bench", featuresArg([]string{"unstable", "compiler"})}})
			},
		},
		{
			Name:    "docs",
			Enabled: func(cfg Config) bool { return cfg.Docs },
			Action: func(ctx context.Context, cfg Config, r Runner) error {
				warnUnlessNightly(ctx, cfg)
				return r.Run(ctx, Command{
					Args: []string{cargo, "rustdoc", featuresArg(opts.Matrix.Features), "--", "-D", "rustdoc::broken-intra-doc-links"},
					Env:  map[string]string{"RUSTDOCFLAGS": "--cfg docsrs"},
				})
			},
		},
	}
}
