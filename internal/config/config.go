// Package config defines the runtime configuration of calcdash and the
// functions for loading it from YAML files, .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/iwvelando/calcdash/pkg/constants"
	"github.com/iwvelando/calcdash/pkg/expense"
	"github.com/iwvelando/calcdash/pkg/sleep"
	"github.com/iwvelando/calcdash/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Configuration holds all configuration for calcdash.
type Configuration struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Output      OutputConfig      `yaml:"output"`
	Storage     StorageConfig     `yaml:"storage"`
	Server      ServerConfig      `yaml:"server"`
	Electricity ElectricityConfig `yaml:"electricity"`
	Expense     ExpenseConfig     `yaml:"expense"`
	Sleep       SleepConfig       `yaml:"sleep"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// StorageConfig selects the byte store backing the record logs.
type StorageConfig struct {
	Backend    string `yaml:"backend"` // file, sqlite, memory
	DataDir    string `yaml:"dataDir"`
	SQLitePath string `yaml:"sqlitePath"`
	Watch      bool   `yaml:"watch"`
}

// ServerConfig holds the JSON API listener settings.
type ServerConfig struct {
	Address     string `yaml:"address"`
	MaxBodySize string `yaml:"maxBodySize"` // e.g. 256K, 1M
}

// ElectricityConfig holds the electricity tariff.
type ElectricityConfig struct {
	Rate float64 `yaml:"rate"`
}

// ExpenseConfig holds the monthly budget per expense category.
type ExpenseConfig struct {
	Budgets map[string]float64 `yaml:"budgets,omitempty"`
}

// SleepConfig holds the sleep target and recovery limit in hours.
type SleepConfig struct {
	TargetHours   float64 `yaml:"targetHours"`
	MaxExtraSleep float64 `yaml:"maxExtraSleep"`
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// LoadDotEnv exports the variables of a .env file into the process
// environment. A missing file is not an error. Variables that are already set
// keep their value.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading env file %s: %w", path, err)
	}
	return nil
}

// LoadConfiguration loads the YAML configuration at configPath, applies
// CALCDASH_ environment overrides (e.g. CALCDASH_STORAGE_BACKEND) and fills
// in defaults. An empty configPath loads defaults and environment only.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	budgets, err := normalizeBudgets(configuration.Expense.Budgets)
	if err != nil {
		return nil, err
	}
	configuration.Expense.Budgets = budgets

	return &configuration, nil
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Configuration {
	return &Configuration{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Output:  OutputConfig{Format: constants.OutputFormatPretty},
		Storage: StorageConfig{
			Backend:    constants.BackendFile,
			DataDir:    constants.DefaultDataDir,
			SQLitePath: constants.DefaultSQLitePath,
		},
		Server: ServerConfig{
			Address:     constants.DefaultServerAddress,
			MaxBodySize: fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes),
		},
		Electricity: ElectricityConfig{Rate: constants.DefaultElectricityRate},
		Expense:     ExpenseConfig{Budgets: map[string]float64{}},
		Sleep: SleepConfig{
			TargetHours:   constants.DefaultSleepTarget,
			MaxExtraSleep: constants.DefaultMaxExtraSleep,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.dataDir", d.Storage.DataDir)
	v.SetDefault("storage.sqlitePath", d.Storage.SQLitePath)
	v.SetDefault("storage.watch", d.Storage.Watch)
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.maxBodySize", d.Server.MaxBodySize)
	v.SetDefault("electricity.rate", d.Electricity.Rate)
	v.SetDefault("sleep.targetHours", d.Sleep.TargetHours)
	v.SetDefault("sleep.maxExtraSleep", d.Sleep.MaxExtraSleep)
}

// normalizeBudgets restores the category spelling of budget keys, which the
// loader lowercases.
func normalizeBudgets(in map[string]float64) (map[string]float64, error) {
	out := make(map[string]float64, len(in))
	for key, amount := range in {
		category := ""
		for _, c := range expense.Categories {
			if strings.EqualFold(c, key) {
				category = c
				break
			}
		}
		if category == "" {
			return nil, fmt.Errorf("%w: budget for %q", expense.ErrUnknownCategory, key)
		}
		out[category] = amount
	}
	return out, nil
}

// Budgets returns the configured budgets with the default filled in for every
// category without one.
func (c *Configuration) Budgets() expense.Budgets {
	budgets := expense.DefaultBudgets()
	for category, amount := range c.Expense.Budgets {
		budgets[category] = amount
	}
	return budgets
}

// Validate returns an error for settings calcdash cannot run with.
func (c *Configuration) Validate() error {
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	if err := validation.ValidateOneOf("storage backend", c.Storage.Backend,
		[]string{constants.BackendFile, constants.BackendSQLite, constants.BackendMemory}); err != nil {
		return err
	}
	if err := validation.ValidatePositive("electricity rate", c.Electricity.Rate); err != nil {
		return err
	}
	if err := validation.ValidateRange("sleep target hours", c.Sleep.TargetHours,
		sleep.MinTargetHours, sleep.MaxTargetHours); err != nil {
		return err
	}
	if err := validation.ValidateRange("max extra sleep", c.Sleep.MaxExtraSleep,
		sleep.MinExtraSleep, sleep.MaxExtraSleep); err != nil {
		return err
	}
	return c.Budgets().Validate()
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings for settings that are accepted but probably unintended.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Logging.Level != "" && validation.ValidateOneOf("log level", c.Logging.Level, validLogLevels) != nil {
		warnings = append(warnings, fmt.Sprintf("Unknown log level '%s', defaulting to info", c.Logging.Level))
	}
	if c.Logging.Format != "" && validation.ValidateLogFormat(c.Logging.Format) != nil {
		warnings = append(warnings, fmt.Sprintf("Unknown log format '%s', defaulting to console", c.Logging.Format))
	}
	if c.Storage.Watch && c.Storage.Backend != constants.BackendFile {
		warnings = append(warnings, fmt.Sprintf("Storage watch only applies to the file backend, ignored for '%s'", c.Storage.Backend))
	}
	if c.Storage.Backend == constants.BackendMemory {
		warnings = append(warnings, "Memory storage backend keeps records for this process only")
	}
	if c.Storage.Backend == constants.BackendFile {
		if _, err := os.Stat(c.Storage.DataDir); errors.Is(err, fs.ErrNotExist) {
			warnings = append(warnings, fmt.Sprintf("Data directory '%s' does not exist and will be created on first write", c.Storage.DataDir))
		}
	}
	categories := make([]string, 0, len(c.Expense.Budgets))
	for category := range c.Expense.Budgets {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		if c.Expense.Budgets[category] == 0 {
			warnings = append(warnings, fmt.Sprintf("Budget for '%s' is zero, every expense will exceed it", category))
		}
	}

	return warnings
}

// YAML renders the configuration as a YAML document that LoadConfiguration
// accepts.
func (c *Configuration) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return data, nil
}
