package cmd

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/AreaLayer/elements-miniscript-ci/pkg/driver"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Lists the commands a run would execute with the current environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}

		toolchain, err := cmd.Flags().GetString("toolchain")
		if err != nil {
			return err
		}

		s, err := newSession(cmd)
		if err != nil {
			return err
		}

		d := driver.New(s.root, s.settings.Cargo, s.settings.Rustup)
		d.Toolchain = toolchain

		recorder := &driver.Recorder{Inner: driver.NewShellRunner(s.root)}
		quiet := s.logger.Level(zerolog.Disabled)
		result := d.Run(driver.WithLogger(s.ctx, &quiet), s.settings.Flags(), recorder)
		if result.Outcome == driver.OutcomeFail {
			return &exitCode{status: result.ExitCode()}
		}

		return writePlan(cmd.OutOrStdout(), format, newPlan(recorder.Invocations, result))
	},
}

type plannedCommand struct {
	Stage   string `json:"stage" yaml:"stage"`
	Dir     string `json:"dir,omitempty" yaml:"dir,omitempty"`
	Command string `json:"command" yaml:"command"`
}

type plan struct {
	Commands []plannedCommand `json:"commands" yaml:"commands"`
	// StoppedAfter names the terminal stage that ended the run, if any.
	StoppedAfter string `json:"stopped_after,omitempty" yaml:"stopped_after,omitempty"`
	Total        int    `json:"total" yaml:"total"`
}

func newPlan(invocations []driver.Invocation, result driver.Result) plan {
	p := plan{Commands: make([]plannedCommand, 0, len(invocations))}
	for _, inv := range invocations {
		p.Commands = append(p.Commands, plannedCommand{
			Stage:   inv.Stage,
			Dir:     inv.Command.Dir,
			Command: inv.Command.String(),
		})
	}

	if result.Outcome == driver.OutcomeStop {
		p.StoppedAfter = result.Stage
	}
	p.Total = len(p.Commands)
	return p
}

func writePlan(w io.Writer, format string, p plan) error {
	return writeFormatted(w, format, p, func(w io.Writer) error {
		return writePlanTable(w, p)
	})
}

func writePlanTable(w io.Writer, p plan) error {
	fmt.Fprintln(w, "Planned commands:")
	fmt.Fprintln(w, "-----------------")

	maxStageLen := 0
	for _, item := range p.Commands {
		if len(item.Stage) > maxStageLen {
			maxStageLen = len(item.Stage)
		}
	}

	lineFmt := fmt.Sprintf("  %%-%ds %%s\n", maxStageLen+3)
	for _, item := range p.Commands {
		line := item.Command
		if item.Dir != "" {
			line = fmt.Sprintf("(cd %s) %s", item.Dir, line)
		}
		fmt.Fprintf(w, lineFmt, "["+item.Stage+"]", line)
	}

	summary := fmt.Sprintf("\nTotal: %d commands", p.Total)
	if p.StoppedAfter != "" {
		summary += fmt.Sprintf(" (%s is terminal, later stages are skipped)", p.StoppedAfter)
	}
	_, err := fmt.Fprintln(w, summary)
	return err
}

func init() {
	planCmd.Flags().StringP("format", "o", "table", "output format: table, json or yaml")
	planCmd.Flags().String("toolchain", "", "use this version text instead of asking cargo")
	rootCmd.AddCommand(planCmd)
}
