package driver

import (
	"context"

	"mvdan.cc/sh/v3/interp"
)

const stableToolchain = "cargo 1.60.0 (d1fd9fe2c 2022-03-01)"

func fixtureDriver() Driver {
	d := New("/src/elements-miniscript", "cargo", "rustup")
	d.Toolchain = stableToolchain
	return d
}

// failAt returns a Fail hook that makes the command at index exit with status.
func failAt(index int, status uint8) func(int, Invocation) error {
	return func(i int, inv Invocation) error {
		if i == index {
			return interp.NewExitStatus(status)
		}
		return nil
	}
}

func run(d Driver, flags Flags, rec *Recorder) Result {
	return d.Run(context.Background(), flags, rec)
}

func stagesOf(invocations []Invocation) []string {
	result := make([]string, 0)
	for _, inv := range invocations {
		if len(result) == 0 || result[len(result)-1] != inv.Stage {
			result = append(result, inv.Stage)
		}
	}
	return result
}

func boolFlag(on bool) string {
	if on {
		return "true"
	}
	return ""
}
