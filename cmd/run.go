package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AreaLayer/elements-miniscript-ci/pkg"
	"github.com/AreaLayer/elements-miniscript-ci/pkg/driver"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the CI stages selected by the DO_* variables",
	Long: `Detects the toolchain, pins dependencies which don't build on old toolchains and then runs
the enabled stages in order: fmt, fuzz, integration, test, feature-matrix, bench, docs.
fuzz and integration are terminal: once one of them passed, nothing else runs.
The first failing command aborts the run with that command's exit status.`,
	RunE: runStages,
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("dry", "n", false, "dry run; only print the commands, don't execute anything")
	cmd.Flags().String("toolchain", "", "use this version text instead of asking cargo (i.e. \"cargo 1.47.0\")")
	cmd.Flags().Bool("progress", false, "show a progress bar for the feature matrix")
}

func runStages(cmd *cobra.Command, args []string) error {
	dryRun, err := cmd.Flags().GetBool("dry")
	if err != nil {
		return err
	}

	toolchain, err := cmd.Flags().GetString("toolchain")
	if err != nil {
		return err
	}

	progress, err := cmd.Flags().GetBool("progress")
	if err != nil {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	d := driver.New(s.root, s.settings.Cargo, s.settings.Rustup)
	d.Toolchain = toolchain
	d.OnStage = func(stage driver.Stage) {
		pkg.PrintTask(fmt.Sprintf("Stage %s", stage.Name))
	}
	d.OnPin = func(rule driver.PinRule) {
		pkg.PrintSubtask(fmt.Sprintf("Pinning %s to %s", rule.Package, rule.Version))
	}
	if progress {
		d.Progress = newProgress(d.Matrix().Steps())
	}

	var runner driver.Runner = driver.NewShellRunner(s.root)
	if dryRun {
		runner = &driver.Recorder{Inner: runner}
	}

	result := d.Run(s.ctx, s.settings.Flags(), runner)
	switch result.Outcome {
	case driver.OutcomeFail:
		s.logger.Error().Err(result.Err).Str("task", result.Stage).Int("status", result.ExitCode()).Msg("CI failed")
		pkg.PrintError(fmt.Sprintf("%s failed with exit status %d", result.Stage, result.ExitCode()))
		return &exitCode{status: result.ExitCode()}
	case driver.OutcomeStop:
		pkg.PrintTask(fmt.Sprintf("%s passed; remaining stages skipped", result.Stage))
	default:
		pkg.PrintTask("All stages passed")
	}

	return nil
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
