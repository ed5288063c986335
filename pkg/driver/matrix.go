package driver

import (
	"context"
	"strings"
)

// Example is an example program together with the features it needs.
type Example struct {
	Name     string   `json:"name" yaml:"name"`
	Features []string `json:"features,omitempty" yaml:"features,omitempty"`
	// DiscardOutput redirects the example's stdout to /dev/null.
	DiscardOutput bool `json:"discard_output,omitempty" yaml:"discard_output,omitempty"`
}

// Features lists the optional features of the package in test order.
// This list has to be kept in sync with Cargo.toml by hand.
var Features = []string{"compiler", "use-serde", "rand", "base64"}

// Examples lists the example programs in the order they're run.
var Examples = []Example{
	{Name: "htlc", Features: []string{"compiler"}},
	{Name: "parse"},
	{Name: "sign_multisig"},
	{Name: "verify_tx", DiscardOutput: true},
	{Name: "psbt"},
	{Name: "xpub_descriptors"},
	{Name: "taproot", Features: []string{"compiler"}},
}

// Progress is notified before each matrix command.
type Progress interface {
	Step(desc string)
}

// Matrix runs the test suite once with all features, once per feature and then every example.
type Matrix struct {
	Cargo    string
	Features []string
	Examples []Example
	Progress Progress
}

func featuresArg(features []string) string {
	return "--features=" + strings.Join(features, " ")
}

// Commands returns every command the matrix runs, in order.
func (m Matrix) Commands() []Command {
	cmds := make([]Command, 0, m.Steps())
	cmds = append(cmds, Command{Args: []string{m.Cargo, "test", featuresArg(m.Features)}})

	for _, feature := range m.Features {
		cmds = append(cmds, Command{Args: []string{m.Cargo, "test", featuresArg([]string{feature})}})
	}

	cmds = append(cmds, Command{Args: []string{m.Cargo, "build", "--examples"}})

	for _, example := range m.Examples {
		args := []string{m.Cargo, "run", "--example", example.Name}
		if len(example.Features) > 0 {
			args = append(args, featuresArg(example.Features))
		}

		cmds = append(cmds, Command{Args: args, DiscardOutput: example.DiscardOutput})
	}

	return cmds
}

// Steps is the number of commands Run issues.
func (m Matrix) Steps() int {
	return 2 + len(m.Features) + len(m.Examples)
}

// Run executes the matrix and stops at the first failing command.
func (m Matrix) Run(ctx context.Context, r Runner) error {
	for _, cmd := range m.Commands() {
		if m.Progress != nil {
			m.Progress.Step(strings.Join(cmd.Args[1:], " "))
		}

		if err := r.Run(ctx, cmd); err != nil {
			return err
		}
	}

	return nil
}
