package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/guillaumekey/yacht-calculate/internal/budget"
	"github.com/guillaumekey/yacht-calculate/internal/config"
	"github.com/guillaumekey/yacht-calculate/internal/estimator"
	"github.com/guillaumekey/yacht-calculate/internal/logging"
	"github.com/guillaumekey/yacht-calculate/pkg/constants"
	"github.com/guillaumekey/yacht-calculate/pkg/output"
	"github.com/guillaumekey/yacht-calculate/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// adHocFlags switch estimate from the configuration file to a single yacht.
var adHocFlags = []string{"name", "schedule", "value", "length", "crew"}

type estimateOptions struct {
	root         *rootOptions
	name         string
	schedule     string
	value        float64
	length       float64
	crew         int
	outputFormat string
	outputFile   string
}

func newEstimateCommand(root *rootOptions) *cobra.Command {
	o := &estimateOptions{root: root}
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the yachts of the configuration file, or a single yacht given by flags",
		Long: "Without yacht flags, every active yacht of the configuration file is estimated.\n" +
			"With any of --name, --schedule, --value, --length or --crew, a single yacht is estimated\n" +
			"from the flags (defaults fill the rest) and the configuration file is not read.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.name, "name", "Yacht", "name shown in the output of a single estimate")
	flags.StringVarP(&o.schedule, "schedule", "s", constants.DefaultSchedule, "cost schedule (basic, crew-aware)")
	flags.Float64Var(&o.value, "value", constants.DefaultYachtValue, "yacht value in euros")
	flags.Float64Var(&o.length, "length", constants.DefaultYachtLength, "yacht length in metres")
	flags.IntVar(&o.crew, "crew", constants.DefaultCrewMembers, "number of crew members (basic schedule only)")
	flags.StringVarP(&o.outputFormat, "output-format", "o", "", "output format override: pretty, csv, json, xlsx")
	flags.StringVar(&o.outputFile, "output-file", "", "write the output to a file instead of stdout")
	return cmd
}

func (o *estimateOptions) Run(cmd *cobra.Command) error {
	adHoc := false
	for _, flag := range adHocFlags {
		if cmd.Flags().Changed(flag) {
			adHoc = true
			break
		}
	}

	conf := &config.Configuration{}
	if !adHoc {
		if _, err := os.Stat(o.root.configFile); errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("configuration file %s not found (see %s for an example, or estimate a single yacht with --value and --length)",
				o.root.configFile, constants.ExampleConfigFile)
		}
		loaded, err := config.LoadConfiguration(o.root.configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration at %s: %w", o.root.configFile, err)
		}
		conf = loaded
	}

	logger, err := logging.New(conf.Logging, o.root.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config.
	outputFormat := o.outputFormat
	if outputFormat == "" {
		outputFormat = conf.Output.Format
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}
	outputFile := o.outputFile
	if outputFile == "" {
		outputFile = conf.Output.File
	}
	if outputFormat == constants.OutputFormatXLSX && outputFile == "" {
		return fmt.Errorf("xlsx output requires --output-file")
	}

	var results []budget.Budget
	if adHoc {
		schedule, err := estimator.Lookup(o.schedule)
		if err != nil {
			return err
		}
		profile := estimator.Profile{Value: o.value, Length: o.length, CrewMembers: o.crew}
		if schedule.CrewFromLength() {
			profile.CrewMembers = 0
		}
		if err := validation.ValidateProfile(schedule, profile); err != nil {
			return err
		}
		results = []budget.Budget{budget.Single(o.name, schedule, profile)}
	} else {
		if err := conf.ResolveSchedules(); err != nil {
			return err
		}
		for _, warning := range conf.ValidateConfiguration() {
			logger.Warn("configuration warning: "+warning,
				zap.String("op", "main.estimate"),
			)
		}
		results, err = budget.GetBudgets(logger, *conf)
		if err != nil {
			return fmt.Errorf("failed to compute estimates: %w", err)
		}
	}

	logger.Debug("computed estimates",
		zap.String("op", "main.estimate"),
		zap.Int("yachts", len(results)),
		zap.String("format", outputFormat),
	)
	return writeOutput(cmd.OutOrStdout(), outputFile, outputFormat, results)
}

func writeOutput(stdout io.Writer, outputFile, outputFormat string, results []budget.Budget) error {
	if outputFile == "" {
		return output.Write(stdout, outputFormat, results)
	}

	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputFile, err)
	}
	if err := output.Write(file, outputFormat, results); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
