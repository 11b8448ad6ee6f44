package main

import (
	"github.com/guillaumekey/yacht-calculate/pkg/constants"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "yacht-calculate",
		Short:         "Estimate the annual running costs of a yacht",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", constants.DefaultConfigFile, "path to configuration file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(
		newEstimateCommand(opts),
		newCrewCommand(),
		newSchedulesCommand(),
		newPromptCommand(opts),
		newServeCommand(opts),
		newVersionCommand(),
	)
	return cmd
}
