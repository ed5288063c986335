package config

import (
	"path/filepath"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/AreaLayer/elements-miniscript-ci/pkg/driver"
)

// FileName is the optional settings file looked up in the project root.
const FileName = "ci.toml"

// Settings describes all configuration options
type Settings struct {
	Fmt           string `env:"DO_FMT" toml:"do_fmt" usage:"run the format check (only \"true\" enables it)"`
	Fuzz          string `env:"DO_FUZZ" toml:"do_fuzz" usage:"run the fuzz sub-project and stop"`
	BitcoindTests string `env:"DO_BITCOIND_TESTS" toml:"do_bitcoind_tests" usage:"run the integration tests and stop"`
	FeatureMatrix string `env:"DO_FEATURE_MATRIX" toml:"do_feature_matrix" usage:"test every feature combination and run the examples"`
	Bench         string `env:"DO_BENCH" toml:"do_bench" usage:"run the benchmarks (nightly only)"`
	Docs          string `env:"DO_DOCS" toml:"do_docs" usage:"build the docs (nightly only)"`

	Cargo    string `default:"cargo" env:"CI_CARGO" toml:"cargo" usage:"cargo binary"`
	Rustup   string `default:"rustup" env:"CI_RUSTUP" toml:"rustup" usage:"rustup binary"`
	LogLevel string `default:"info" env:"CI_LOG_LEVEL" toml:"log_level"`
	LogJSON  bool   `default:"false" env:"CI_LOG_JSON" toml:"log_json" usage:"Output JSONND instead of pretty console messages"`
}

var logLevels = map[string]zerolog.Level{
	"trace":   zerolog.TraceLevel,
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
}

// Loader initializes an empty settings object and returns a new Loader for this object.
// Flags are left to cobra; the settings file is optional.
func Loader(root string) (*Settings, *aconfig.Loader) {
	settings := Settings{}
	return &settings, aconfig.LoaderFor(&settings, aconfig.Config{
		SkipFlags: true,
		Files:     []string{filepath.Join(root, FileName)},
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
		},
	})
}

// Load reads the settings from the environment and the settings file in root.
func Load(root string) (*Settings, error) {
	settings, loader := Loader(root)
	if err := loader.Load(); err != nil {
		return nil, eris.Wrap(err, "failed to load settings")
	}

	return settings, nil
}

// Flags returns the raw DO_* values.
func (s *Settings) Flags() driver.Flags {
	return driver.Flags{
		Fmt:           s.Fmt,
		Fuzz:          s.Fuzz,
		BitcoindTests: s.BitcoindTests,
		FeatureMatrix: s.FeatureMatrix,
		Bench:         s.Bench,
		Docs:          s.Docs,
	}
}

// Level converts LogLevel to a zerolog.Level. Unknown names yield info and ok == false.
func (s *Settings) Level() (level zerolog.Level, ok bool) {
	level, ok = logLevels[s.LogLevel]
	if !ok {
		return zerolog.InfoLevel, false
	}
	return level, true
}
