package main

import (
	"errors"
	"fmt"

	"github.com/guillaumekey/yacht-calculate/internal/budget"
	"github.com/guillaumekey/yacht-calculate/internal/config"
	"github.com/guillaumekey/yacht-calculate/internal/logging"
	"github.com/guillaumekey/yacht-calculate/internal/prompt"
	"github.com/guillaumekey/yacht-calculate/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPromptCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Enter a yacht interactively and print its estimate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(config.LoggingConfig{Format: "console", Level: "warn"}, root.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			session := prompt.NewSession(prompt.NewSurveyDriver(out))

			for {
				schedule, profile, err := session.Collect(ctx)
				if errors.Is(err, prompt.ErrAborted) {
					return nil
				}
				if err != nil {
					return err
				}
				logger.Debug("collected yacht profile",
					zap.String("op", "main.prompt"),
					zap.String("schedule", schedule.Name),
					zap.Float64("value", profile.Value),
					zap.Float64("length", profile.Length),
					zap.Int("crewMembers", profile.CrewMembers),
				)

				fmt.Fprintln(out)
				if err := output.PrettyFormat(out, []budget.Budget{budget.Single("Yacht", schedule, profile)}); err != nil {
					return err
				}
				fmt.Fprintln(out)

				again, err := session.Again(ctx)
				if errors.Is(err, prompt.ErrAborted) || (err == nil && !again) {
					return nil
				}
				if err != nil {
					return err
				}
			}
		},
	}
}
