package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/calcdash/internal/config"
	"github.com/iwvelando/calcdash/pkg/grocery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig writes a configuration that stores records under a temporary
// directory and keeps logging quiet.
func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "calcdash.yaml")
	content := `logging:
  level: error
storage:
  backend: file
  dataDir: ` + filepath.Join(dir, "data") + `
electricity:
  rate: 10
`
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func run(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", configPath, "--env-file", filepath.Join(t.TempDir(), ".env")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, testConfig(t), "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}

func TestCalcLoan(t *testing.T) {
	cfg := testConfig(t)

	t.Run("Pretty", func(t *testing.T) {
		out, err := run(t, cfg, "calc", "loan", "--principal", "100000", "--rate", "10", "--term", "60")
		require.NoError(t, err)
		assert.Contains(t, out, "--- Loan ---")
		assert.Contains(t, out, "₹2,124.70")
		assert.Contains(t, out, "--- Yearly schedule ---")
	})

	t.Run("CSV", func(t *testing.T) {
		out, err := run(t, cfg, "--output-format", "csv", "calc", "loan", "--principal", "100000", "--rate", "10", "--term", "60", "--monthly")
		require.NoError(t, err)
		assert.Contains(t, out, "Monthly payment,2124.70\n")
		assert.Contains(t, out, "Month,Payment,Principal,Interest,Balance\n")
		assert.Equal(t, 60, strings.Count(out, ",2124.70,"))
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := run(t, cfg, "calc", "loan", "--principal", "-5", "--rate", "10", "--term", "60")
		assert.Error(t, err)
	})
}

func TestCalcSingleShot(t *testing.T) {
	cfg := testConfig(t)
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"BMI", []string{"calc", "bmi", "--weight", "70", "--height", "170"}, "BMI,24.22"},
		{"Task", []string{"calc", "task", "--complexity", "Medium", "--type", "Development", "--experience", "Intermediate"}, "Estimated hours,3.00"},
		{"Tax", []string{"calc", "tax", "--salary", "0"}, "Total tax,0.00"},
		{"Hydration progress", []string{"calc", "hydration", "--weight", "70", "--glasses", "20"}, "Progress,1.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, cfg, append([]string{"--output-format", "csv"}, tt.args...)...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.expected)
		})
	}
}

func TestExpenseLog(t *testing.T) {
	cfg := testConfig(t)

	_, err := run(t, cfg, "add", "expense", "--amount", "500", "--category", "Food", "--description", "lunch", "--date", "2025-01-05")
	require.NoError(t, err)
	_, err = run(t, cfg, "add", "expense", "--amount", "12000", "--category", "Housing", "--description", "rent", "--date", "2025-01-01")
	require.NoError(t, err)
	_, err = run(t, cfg, "add", "expense", "--amount", "10", "--category", "Pets", "--date", "2025-01-01")
	assert.Error(t, err, "unknown category must be rejected")

	out, err := run(t, cfg, "--output-format", "csv", "list", "expenses", "--month", "2025-01", "--category", "Food")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-01-05,Food,500.00,lunch,")
	assert.NotContains(t, out, "rent")
	assert.Contains(t, out, "Total,500.00")

	out, err = run(t, cfg, "--output-format", "csv", "report", "expenses")
	require.NoError(t, err)
	assert.Contains(t, out, "Total spent,12500.00")
	assert.Contains(t, out, "Highest category,Housing")
}

func TestApplianceWattsFromCatalogue(t *testing.T) {
	cfg := testConfig(t)

	out, err := run(t, cfg, "--output-format", "csv", "add", "appliance", "--name", "Refrigerator", "--hours", "24", "--date", "2025-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Refrigerator,150.00,1,24.00,3.60,")

	_, err = run(t, cfg, "add", "appliance", "--name", "Toaster Oven", "--hours", "1")
	assert.ErrorContains(t, err, "--watts is required")

	out, err = run(t, cfg, "--output-format", "csv", "report", "electricity")
	require.NoError(t, err)
	assert.Contains(t, out, "Rate per kWh,10.00")
	assert.Contains(t, out, "Monthly bill,1080.00")
}

func TestSleepRecovery(t *testing.T) {
	cfg := testConfig(t)

	_, err := run(t, cfg, "add", "sleep", "--date", "2025-01-01", "--sleep-time", "23:00", "--wake-time", "06:00", "--quality", "Good")
	require.NoError(t, err)
	_, err = run(t, cfg, "add", "sleep", "--date", "2025-01-02", "--sleep-time", "00:00", "--wake-time", "06:00", "--quality", "Fair")
	require.NoError(t, err)

	out, err := run(t, cfg, "--output-format", "csv", "calc", "recovery")
	require.NoError(t, err)
	assert.Contains(t, out, "Sleep debt,3.00")
	assert.Contains(t, out, "Recovery days,2")

	out, err = run(t, cfg, "--output-format", "csv", "report", "sleep")
	require.NoError(t, err)
	assert.Contains(t, out, "Average duration,6.5 hrs")
}

func TestGroceryCommands(t *testing.T) {
	cfg := testConfig(t)

	_, err := run(t, cfg, "shopping-list", "--start", "2025-01-06")
	assert.ErrorIs(t, err, grocery.ErrNoMeals)

	_, err = run(t, cfg, "add", "meal", "--date", "2025-01-06", "--type", "Dinner", "--name", "Dal", "--ingredients", "Rice,Lentils")
	require.NoError(t, err)
	out, err := run(t, cfg, "--output-format", "csv", "shopping-list", "--start", "2025-01-06", "--days", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "To,2025-01-13")
	assert.Contains(t, out, "Rice,1")

	out, err = run(t, cfg, "--output-format", "csv", "list", "shopping-lists")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-01-06,2025-01-13")
}

func TestAddRejectsBadDate(t *testing.T) {
	cfg := testConfig(t)
	tests := []struct {
		name string
		args []string
	}{
		{"Sleep", []string{"add", "sleep", "--date", "2025-13-01", "--sleep-time", "23:00", "--wake-time", "06:00", "--quality", "Good"}},
		{"Appliance", []string{"add", "appliance", "--date", "2025-02-30", "--name", "Kettle", "--watts", "1500", "--hours", "0.5"}},
		{"Shopping list", []string{"shopping-list", "--start", "not-a-day"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, cfg, tt.args...)
			assert.Error(t, err)
		})
	}

	out, err := run(t, cfg, "--output-format", "csv", "list", "sleep")
	require.NoError(t, err)
	assert.NotContains(t, out, "2025-13-01")
}

func TestListUnknownKind(t *testing.T) {
	_, err := run(t, testConfig(t), "list", "receipts")
	assert.ErrorContains(t, err, "unknown kind")
}

func TestOutputFormatOverride(t *testing.T) {
	_, err := run(t, testConfig(t), "--output-format", "xml", "version")
	assert.Error(t, err)
}

func TestConfigExport(t *testing.T) {
	out, err := run(t, testConfig(t), "config", "export")
	require.NoError(t, err)
	assert.Contains(t, out, "backend: file")
	assert.Contains(t, out, "rate: 10")
}

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name        string
		conf        config.LoggingConfig
		override    string
		expectError bool
	}{
		{"Defaults", config.LoggingConfig{}, "", false},
		{"Console debug", config.LoggingConfig{Level: "debug", Format: "console"}, "", false},
		{"Warning alias", config.LoggingConfig{Level: "warning"}, "", false},
		{"Override wins", config.LoggingConfig{Level: "bogus"}, "error", false},
		{"Bad level", config.LoggingConfig{Level: "loud"}, "", true},
		{"Bad format", config.LoggingConfig{Format: "xml"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.conf, tt.override)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}

	t.Run("Output file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "calcdash.log")
		logger, err := initializeLogger(config.LoggingConfig{OutputFile: path}, "")
		require.NoError(t, err)
		logger.Info("hello")
		_ = logger.Sync()
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "hello")
	})
}
