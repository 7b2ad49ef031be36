package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tubepost/internal/deps"
	"tubepost/internal/preflight"
	"tubepost/internal/staging"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check dependencies, directories, and remote services",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			runCtx, cancel := signalContext(cmd)
			defer cancel()
			results := preflight.RunAll(runCtx, cfg)
			statuses := preflight.CheckSystemDeps(cfg)

			lines := renderSectionHeader("Dependencies", colorize)
			lines = append(lines, dependencyLines(statuses, colorize)...)
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			fmt.Fprintln(out)

			dirs, err := staging.ListWorkspaces(cfg.Paths.StagingDir)
			if err != nil {
				return fmt.Errorf("list workspaces: %w", err)
			}
			staleAfter := time.Duration(cfg.Paths.StaleWorkspaceHours) * time.Hour
			lines = renderSectionHeader("Workspaces", colorize)
			lines = append(lines, workspaceLines(dirs, staleAfter, time.Now(), colorize)...)
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			fmt.Fprintln(out)

			fmt.Fprintln(out, strings.Join(renderSectionHeader("Checks", colorize), "\n"))
			checks := tableSpec{
				headers:  []string{"Check", "Status", "Detail"},
				rows:     checkRows(results),
				wrap:     []int{2},
				colorize: colorize,
			}
			fmt.Fprintln(out, checks.render())

			if !strict {
				return nil
			}
			failed := deps.Missing(statuses)
			for _, result := range results {
				if !result.Passed {
					failed = append(failed, result.Name)
				}
			}
			if len(failed) > 0 {
				return errors.New("status checks failed: " + strings.Join(failed, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any check fails")
	return cmd
}
