package driver

func enabled(value string) bool {
	return value == "true"
}

// Resolve builds the configuration snapshot. Only the literal value "true" enables a flag, everything else
// (including typos and other spellings of true) leaves it disabled.
func Resolve(flags Flags, tc Toolchain) Config {
	return Config{
		Fmt:              enabled(flags.Fmt),
		Fuzz:             enabled(flags.Fuzz),
		IntegrationTests: enabled(flags.BitcoindTests),
		FeatureMatrix:    enabled(flags.FeatureMatrix),
		Bench:            enabled(flags.Bench),
		Docs:             enabled(flags.Docs),
		Toolchain:        tc,
	}
}
