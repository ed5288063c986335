package driver

import (
	"context"

	"github.com/rotisserie/eris"
)

// Executor evaluates its stages strictly in order.
type Executor struct {
	Stages []Stage
	// OnStage is called right before an enabled stage starts.
	OnStage func(stage Stage)
}

func runStage(ctx context.Context, stage Stage, cfg Config, r Runner) (Outcome, error) {
	err := stage.Action(ctx, cfg, r)
	if err != nil {
		return OutcomeFail, err
	}

	if stage.Terminal {
		return OutcomeStop, nil
	}
	return OutcomeContinue, nil
}

// Run executes all enabled stages. It stops at the first failure or after the first terminal stage that
// succeeded.
func (e Executor) Run(ctx context.Context, cfg Config, r Runner) Result {
	for _, stage := range e.Stages {
		if err := ctx.Err(); err != nil {
			return Result{
				Outcome: OutcomeFail,
				Stage:   stage.Name,
				Status:  ExitStatus(err),
				Err:     eris.Wrapf(err, "aborted before stage %s", stage.Name),
			}
		}

		logger := log(ctx).With().Str("task", stage.Name).Logger()
		stageCtx := WithLogger(withStage(ctx, stage.Name), &logger)

		if stage.Enabled != nil && !stage.Enabled(cfg) {
			logger.Debug().Msg("skipped")
			continue
		}

		if e.OnStage != nil {
			e.OnStage(stage)
		}

		outcome, err := runStage(stageCtx, stage, cfg, r)
		switch outcome {
		case OutcomeFail:
			return Result{
				Outcome: OutcomeFail,
				Stage:   stage.Name,
				Status:  statusOf(ctx, err),
				Err:     eris.Wrapf(err, "stage %s failed", stage.Name),
			}
		case OutcomeStop:
			logger.Info().Msg("terminal stage finished; skipping all remaining stages")
			return Result{Outcome: OutcomeStop, Stage: stage.Name}
		}
	}

	return Result{Outcome: OutcomeContinue}
}
