package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/iwvelando/mortgage-calc/internal/calculator"
	"github.com/iwvelando/mortgage-calc/internal/config"
	"github.com/iwvelando/mortgage-calc/pkg/constants"
	"github.com/iwvelando/mortgage-calc/pkg/output"
	"github.com/iwvelando/mortgage-calc/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the state shared by every subcommand once flags are parsed.
type app struct {
	configPath   string
	logLevel     string
	outputFormat string

	conf    *config.Configuration
	logger  *zap.Logger
	service *calculator.Service
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:               "mortgage-calc",
		Short:             "Canadian mortgage calculators",
		Long:              "Payment, term breakdown, affordability and scenario comparison calculators under Canadian qualification rules.",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", constants.DefaultConfigFile, "path to configuration file, or - for stdin")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.outputFormat, "output-format", "", "type of output override: pretty, csv, json")

	root.AddCommand(
		a.newPaymentCmd(),
		a.newBreakdownCmd(),
		a.newScheduleCmd(),
		a.newAffordCmd(),
		a.newCompareCmd(),
		a.newServeCmd(),
	)
	return root
}

// setup loads configuration and logging. A missing config file is only an
// error when --config was given explicitly; "-" reads it from stdin.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	conf, err := a.loadConfiguration(cmd, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	a.conf = conf

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	// CLI override takes precedence over config
	if a.outputFormat == "" {
		a.outputFormat = conf.Output.Format
	}
	if a.outputFormat == "" {
		a.outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(a.outputFormat); err != nil {
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		a.logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.setup"),
		)
	}

	a.service = calculator.NewService(a.logger, a.conf)
	return nil
}

func (a *app) loadConfiguration(cmd *cobra.Command, explicit bool) (*config.Configuration, error) {
	if a.configPath == "-" {
		conf, err := config.LoadConfigurationFromReader(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration from stdin: %w", err)
		}
		return conf, nil
	}

	if !explicit {
		if _, err := os.Stat(a.configPath); errors.Is(err, fs.ErrNotExist) {
			return config.DefaultConfiguration()
		}
	}

	conf, err := config.LoadConfiguration(a.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", a.configPath, err)
	}
	return conf, nil
}

func (a *app) teardown(_ *cobra.Command, _ []string) {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// render writes v in the selected output format.
func (a *app) render(w io.Writer, v interface{}, pretty, csv func(io.Writer)) error {
	switch a.outputFormat {
	case constants.OutputFormatCSV:
		csv(w)
	case constants.OutputFormatJSON:
		return output.JSON(w, v)
	default:
		pretty(w)
	}
	return nil
}
