package driver

import (
	"context"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Toolchain is the version text reported by the toolchain front-end, i.e. "cargo 1.47.0 (f3c7e066a 2020-08-28)".
type Toolchain struct {
	Raw string
	// Version is nil if the text couldn't be parsed.
	Version *semver.Version
}

// ParseToolchain parses the output of "cargo --version".
func ParseToolchain(raw string) Toolchain {
	tc := Toolchain{Raw: strings.TrimSpace(raw)}

	fields := strings.Fields(tc.Raw)
	if len(fields) > 1 {
		version, err := semver.NewVersion(fields[1])
		if err == nil {
			tc.Version = version
		}
	}

	return tc
}

// Matches reports whether pattern occurs anywhere in the version text.
func (t Toolchain) Matches(pattern string) bool {
	return pattern != "" && strings.Contains(t.Raw, pattern)
}

// Nightly reports whether this is a nightly toolchain.
func (t Toolchain) Nightly() bool {
	if t.Version != nil && strings.HasPrefix(t.Version.Prerelease(), "nightly") {
		return true
	}

	return strings.Contains(t.Raw, "nightly")
}

func (t Toolchain) String() string {
	if t.Version != nil {
		return t.Version.String()
	}
	return t.Raw
}

// DetectToolchain asks the toolchain binary for its version.
func DetectToolchain(ctx context.Context, r Runner, cargo string) (Toolchain, error) {
	out, err := r.Output(ctx, Command{Args: []string{cargo, "--version"}})
	if err != nil {
		return Toolchain{}, err
	}

	tc := ParseToolchain(out)
	log(ctx).Info().
		Str("toolchain", tc.Raw).
		Bool("nightly", tc.Nightly()).
		Msgf("Detected %s", tc.Raw)

	return tc, nil
}

// logCompilerVersion logs "rustc --version" next to the cargo version. It's informational only.
func logCompilerVersion(ctx context.Context, r Runner, rustc string) {
	out, err := r.Output(ctx, Command{Args: []string{rustc, "--version"}})
	if err != nil {
		log(ctx).Debug().Err(err).Msgf("Failed to query %s", rustc)
		return
	}

	log(ctx).Debug().Str("compiler", out).Msgf("Compiler %s", out)
}
