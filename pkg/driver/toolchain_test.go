package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/interp"
)

func TestParseToolchain(t *testing.T) {
	tests := []struct {
		raw     string
		version string
		nightly bool
	}{
		{"cargo 1.41.0 (626f0f40e 2019-12-03)\n", "1.41.0", false},
		{"cargo 1.66.0-nightly (7e484fc1a 2022-10-27)", "1.66.0-nightly", true},
		{"cargo 1.65.0-beta.5 (4fd148c47 2022-10-13)", "1.65.0-beta.5", false},
		{"garbage nightly", "", true},
		{"", "", false},
	}

	for _, tt := range tests {
		tc := ParseToolchain(tt.raw)
		if tt.version == "" {
			assert.Nil(t, tc.Version, tt.raw)
		} else {
			require.NotNil(t, tc.Version, tt.raw)
			assert.Equal(t, tt.version, tc.Version.String())
		}
		assert.Equal(t, tt.nightly, tc.Nightly(), tt.raw)
	}
}

func TestToolchainMatches(t *testing.T) {
	tc := ParseToolchain("cargo 1.47.0 (f3c7e066a 2020-08-28)")
	assert.True(t, tc.Matches("1.47.0"))
	assert.True(t, tc.Matches("1.47"))
	assert.False(t, tc.Matches("1.41.0"))
	assert.False(t, tc.Matches(""))
}

type fakeOutput struct {
	out string
	err error
	cmd Command
}

func (f *fakeOutput) Run(ctx context.Context, cmd Command) error {
	return nil
}

func (f *fakeOutput) Output(ctx context.Context, cmd Command) (string, error) {
	f.cmd = cmd
	return f.out, f.err
}

func TestDetectToolchain(t *testing.T) {
	runner := &fakeOutput{out: "cargo 1.47.0 (f3c7e066a 2020-08-28)"}
	tc, err := DetectToolchain(context.Background(), runner, "cargo")

	require.NoError(t, err)
	assert.Equal(t, []string{"cargo", "--version"}, runner.cmd.Args)
	assert.Equal(t, "1.47.0", tc.String())
}

func TestDetectToolchainFailure(t *testing.T) {
	d := fixtureDriver()
	d.Toolchain = ""

	rec := &Recorder{Inner: &fakeOutput{err: interp.NewExitStatus(127)}}
	result := run(d, Flags{}, rec)

	assert.Equal(t, OutcomeFail, result.Outcome)
	assert.Equal(t, "toolchain", result.Stage)
	assert.Equal(t, 127, result.ExitCode())
	assert.Empty(t, rec.Invocations)
}

type versionRunner struct {
	versions map[string]string
	asked    []string
}

func (v *versionRunner) Run(ctx context.Context, cmd Command) error {
	return nil
}

func (v *versionRunner) Output(ctx context.Context, cmd Command) (string, error) {
	v.asked = append(v.asked, cmd.String())
	out, ok := v.versions[cmd.Args[0]]
	if !ok {
		return "", interp.NewExitStatus(127)
	}
	return out, nil
}

func TestDetectionAlsoQueriesCompiler(t *testing.T) {
	d := fixtureDriver()
	d.Toolchain = ""

	runner := &versionRunner{versions: map[string]string{
		"cargo": "cargo 1.47.0 (f3c7e066a 2020-08-28)",
		"rustc": "rustc 1.47.0 (18bf6b4f0 2020-10-07)",
	}}
	rec := &Recorder{Inner: runner}
	result := run(d, Flags{}, rec)

	assert.Equal(t, OutcomeContinue, result.Outcome)
	assert.Equal(t, []string{"cargo --version", "rustc --version"}, runner.asked)
}

func TestMissingCompilerIsNotFatal(t *testing.T) {
	d := fixtureDriver()
	d.Toolchain = ""

	runner := &versionRunner{versions: map[string]string{"cargo": "cargo 1.47.0 (f3c7e066a 2020-08-28)"}}
	rec := &Recorder{Inner: runner}
	result := run(d, Flags{}, rec)

	assert.Equal(t, OutcomeContinue, result.Outcome)
	require.NotEmpty(t, rec.Invocations)
	assert.Equal(t, "pin", rec.Invocations[0].Stage)
}

func TestRecorderVersionFeedsPinner(t *testing.T) {
	d := fixtureDriver()
	d.Toolchain = ""

	rec := &Recorder{Version: "cargo 1.47.0 (f3c7e066a 2020-08-28)"}
	run(d, Flags{}, rec)

	require.NotEmpty(t, rec.Invocations)
	assert.Equal(t, []string{"cargo", "update", "-p", "once_cell", "--precise", "1.13.1"}, rec.Invocations[0].Command.Args)
}

func TestResolve(t *testing.T) {
	tc := ParseToolchain(stableToolchain)
	cfg := Resolve(Flags{
		Fmt:           "true",
		Fuzz:          "false",
		BitcoindTests: "yes",
		FeatureMatrix: "true",
		Bench:         "",
		Docs:          "TRUE",
	}, tc)

	assert.Equal(t, Config{Fmt: true, FeatureMatrix: true, Toolchain: tc}, cfg)
	assert.Equal(t, Config{Toolchain: tc}, Resolve(Flags{}, tc))
}
