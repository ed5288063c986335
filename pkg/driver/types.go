package driver

import (
	"context"
	"fmt"
)

// Flags holds the raw values of the DO_* switches as they were found in the environment.
type Flags struct {
	Fmt           string
	Fuzz          string
	BitcoindTests string
	FeatureMatrix string
	Bench         string
	Docs          string
}

// Config is the immutable snapshot every stage is evaluated against.
type Config struct {
	Fmt              bool
	Fuzz             bool
	IntegrationTests bool
	FeatureMatrix    bool
	Bench            bool
	Docs             bool
	Toolchain        Toolchain
}

// Command describes a single invocation of an external tool.
type Command struct {
	Args []string `json:"args" yaml:"args"`
	// Dir is relative to the project root; empty means the root itself.
	Dir           string            `json:"dir,omitempty" yaml:"dir,omitempty"`
	Env           map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	DiscardOutput bool              `json:"discard_output,omitempty" yaml:"discard_output,omitempty"`
}

// Runner executes commands. Run only reports success or failure, Output also captures stdout.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
	Output(ctx context.Context, cmd Command) (string, error)
}

// Stage is one gated unit of work.
type Stage struct {
	Name     string
	Enabled  func(cfg Config) bool
	Action   func(ctx context.Context, cfg Config, r Runner) error
	Terminal bool
}

// Outcome is the result of a single stage.
type Outcome int

const (
	// OutcomeContinue means the next stage should be evaluated. A finished run also reports it.
	OutcomeContinue Outcome = iota
	// OutcomeStop means a terminal stage succeeded and nothing else runs.
	OutcomeStop
	// OutcomeFail means a command failed and the run was aborted.
	OutcomeFail
)

func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeStop:
		return "stop"
	case OutcomeFail:
		return "fail"
	}

	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result summarizes a run of the Executor.
type Result struct {
	Outcome Outcome
	// Stage is the stage that stopped or failed the run.
	Stage  string
	Status int
	Err    error
}

// ExitCode converts the result into the process exit status.
func (r Result) ExitCode() int {
	if r.Outcome != OutcomeFail {
		return 0
	}

	if r.Status == 0 {
		return 1
	}
	return r.Status
}

// Invocation is a command recorded by a Recorder together with the stage that issued it.
type Invocation struct {
	Stage   string  `json:"stage" yaml:"stage"`
	Command Command `json:"command" yaml:"command"`
}

type stageKey struct{}

func withStage(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, stageKey{}, name)
}

func stageName(ctx context.Context) string {
	name, _ := ctx.Value(stageKey{}).(string)
	return name
}
