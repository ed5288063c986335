package cmd

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

type matrixProgress struct {
	bar *progressbar.ProgressBar
}

func newProgress(steps int) *matrixProgress {
	if os.Getenv("CI") == "true" {
		// redraws are unreadable in CI logs
		return &matrixProgress{bar: progressbar.NewOptions(steps, progressbar.OptionSetVisibility(false))}
	}

	return &matrixProgress{bar: progressbar.NewOptions(steps,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("feature matrix"),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
	)}
}

// Step advances the bar; desc describes the command that's about to start.
func (p *matrixProgress) Step(desc string) {
	p.bar.Describe(desc)
	_ = p.bar.Add(1)
}
