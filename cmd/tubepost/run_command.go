package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tubepost/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var failOnError bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one poll cycle: detect, summarize, publish, commit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateCredentials(); err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			orch, err := workflow.Build(cfg, logger)
			if err != nil {
				return err
			}
			defer orch.Close()

			runCtx, cancel := signalContext(cmd)
			defer cancel()

			run := orch.Run
			if dryRun {
				run = orch.DryRun
			}
			outcome, err := run(runCtx)
			printOutcome(cmd.OutOrStdout(), outcome)
			return exitError(err, failOnError)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only detect; report the item a run would process")
	cmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "Exit non-zero when the run fails")
	return cmd
}

// exitError decides whether a failed run fails the process. Failures are
// already logged and notified, so only --fail-on-error or cancellation exit non-zero.
func exitError(err error, failOnError bool) error {
	if err == nil {
		return nil
	}
	if failOnError || errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printOutcome(out io.Writer, outcome workflow.Outcome) {
	fmt.Fprintf(out, "Run %s: %s\n", outcome.RunID, outcome.State)
	if outcome.Item != nil {
		fmt.Fprintf(out, "Item: %s", outcome.Item.ID)
		if outcome.Item.Title != "" {
			fmt.Fprintf(out, " (%s)", outcome.Item.Title)
		}
		fmt.Fprintln(out)
	}
	switch {
	case outcome.PublishSkipped:
		fmt.Fprintln(out, "Publish: skipped (credentials not configured)")
	case outcome.Receipt.PostID != "":
		fmt.Fprintf(out, "Publish: %s post %s\n", outcome.Receipt.Target, outcome.Receipt.PostID)
	}
	if outcome.State == workflow.StateCommitted || outcome.State == workflow.StateFailed {
		fmt.Fprintf(out, "Committed: %s\n", yesNo(outcome.Committed))
	}
	if outcome.Err != nil {
		fmt.Fprintf(out, "Failed at %s: %v\n", outcome.Stage, outcome.Err)
	}
}
