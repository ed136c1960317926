package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/iwvelando/calcdash/internal/config"
	"github.com/iwvelando/calcdash/pkg/constants"
	"github.com/iwvelando/calcdash/pkg/output"
	"github.com/iwvelando/calcdash/pkg/session"
	"github.com/iwvelando/calcdash/pkg/storage"
	"github.com/iwvelando/calcdash/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is the state shared by every subcommand once the root command has
// loaded the configuration.
type app struct {
	configPath     string
	envFile        string
	logLevel       string
	outputOverride string

	conf   *config.Configuration
	logger *zap.Logger
	format string
	now    func() time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	root := &cobra.Command{
		Use:   "calcdash",
		Short: "Personal finance, health and household calculators",
		Long: `calcdash bundles loan, investment, mortgage, tax, health and time
calculators with small record logs for electricity use, expenses, groceries,
sleep and tasks. Results are printed as tables or CSV, or served as JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to configuration file (default is ./"+constants.DefaultConfigFile+" when present)")
	flags.StringVar(&a.envFile, "env-file", ".env", "path to a .env file exporting "+constants.EnvPrefix+"_* variables")
	flags.StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVar(&a.outputOverride, "output-format", "", "type of output override: pretty, csv")

	root.AddCommand(
		a.newServeCmd(),
		a.newCalcCmd(),
		a.newAddCmd(),
		a.newShoppingListCmd(),
		a.newReportCmd(),
		a.newListCmd(),
		a.newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger. The output format
// flag takes precedence over the configured one.
func (a *app) setup() error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}

	path := a.configPath
	if path == "" {
		if _, err := os.Stat(constants.DefaultConfigFile); err == nil {
			path = constants.DefaultConfigFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to stat %s: %w", constants.DefaultConfigFile, err)
		}
	}
	conf, err := config.LoadConfiguration(path)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", path, err)
	}
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.setup"),
		)
	}

	outputFormat := conf.Output.Format
	if a.outputOverride != "" {
		outputFormat = a.outputOverride
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	a.conf = conf
	a.logger = logger
	a.format = outputFormat
	return nil
}

// openSession opens the configured store and wraps it in a Session. Callers
// close the session when done.
func (a *app) openSession() (*session.Session, error) {
	store, err := storage.Open(storage.Options{
		Backend:    a.conf.Storage.Backend,
		DataDir:    a.conf.Storage.DataDir,
		SQLitePath: a.conf.Storage.SQLitePath,
	}, a.logger)
	if err != nil {
		return nil, err
	}
	return session.New(store, a.logger), nil
}

// withSession runs fn against a freshly opened session and closes it
// afterwards.
func (a *app) withSession(fn func(*session.Session) error) error {
	sess, err := a.openSession()
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			a.logger.Warn("failed to close storage",
				zap.String("op", "main.withSession"),
				zap.Error(err),
			)
		}
	}()
	return fn(sess)
}

func (a *app) print(cmd *cobra.Command, sections ...output.Section) error {
	return output.Write(cmd.OutOrStdout(), a.format, sections...)
}

// today is the current day as YYYY-MM-DD.
func (a *app) today() string {
	return a.now().Format(constants.DateLayout)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the calcdash version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(version))
			return err
		},
	}
}
