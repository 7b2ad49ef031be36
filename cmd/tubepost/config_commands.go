package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tubepost/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the tubepost configuration",
	}
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand(ctx))
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Annotations: map[string]string{skipConfigLoadAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if err := refuseExisting(target, overwrite); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Credentials may stay out of the file: export YOUTUBE_API_KEY, OPENROUTER_API_KEY and GITHUB_TOKEN, or put them in .env.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func initTarget(flagValue string) (string, error) {
	target := strings.TrimSpace(flagValue)
	if target == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return "", fmt.Errorf("determine default config path: %w", err)
		}
		return path, nil
	}
	expanded, err := config.ExpandPath(target)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return expanded, nil
}

func refuseExisting(target string, overwrite bool) error {
	if overwrite {
		return nil
	}
	_, err := os.Stat(target)
	switch {
	case err == nil:
		return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("check config path: %w", err)
	}
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration, check credentials and print the effective wiring",
		Annotations: map[string]string{skipConfigLoadAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			out := cmd.OutOrStdout()
			source := resolved
			if !exists {
				source += " (not found, defaults used)"
			}
			fmt.Fprintf(out, "Config path: %s\n", source)

			view := tableSpec{
				headers:  []string{"Setting", "Value"},
				rows:     wiringRows(cfg),
				wrap:     []int{1},
				colorize: shouldColorize(out),
			}
			fmt.Fprintln(out, view.render())

			if err := cfg.ValidateCredentials(); err != nil {
				return err
			}
			if !cfg.PublishConfigured() {
				fmt.Fprintf(out, "Publish target %s has no credentials; runs will skip publishing\n", cfg.Publish.Target)
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

// wiringRows summarizes which adapters a run would use, without secrets.
func wiringRows(cfg *config.Config) [][]string {
	source := cfg.Source.Kind + " playlist " + cfg.Source.PlaylistID
	summaryInput := cfg.Summary.Input
	if cfg.Summary.Input == config.SummaryInputAudio {
		summaryInput = fmt.Sprintf("%s (%s, %d Hz)", cfg.Summary.Input, cfg.Transcode.Codec, cfg.Transcode.SampleRate)
	}
	notify := "disabled"
	if cfg.Notifications.NtfyTopic != "" {
		notify = "ntfy"
	}
	metricsPath := cfg.Metrics.TextfilePath
	if metricsPath == "" {
		metricsPath = "disabled"
	}
	return [][]string{
		{"Source", source},
		{"State backend", cfg.State.Backend},
		{"Summary input", summaryInput},
		{"Summary language", fmt.Sprintf("%s / %s", cfg.Summary.Language, cfg.Summary.Style)},
		{"LLM model", cfg.LLM.Model},
		{"Publish target", fmt.Sprintf("%s (credentials: %s)", cfg.Publish.Target, yesNo(cfg.PublishConfigured()))},
		{"Commit on publish error", yesNo(cfg.Publish.CommitOnError)},
		{"Notifications", notify},
		{"Metrics textfile", metricsPath},
		{"Staging dir", cfg.Paths.StagingDir},
	}
}
