package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/tally/internal/common"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// StorageConfig selects where the ledger is persisted.
type StorageConfig struct {
	Backend      string
	DataDir      string
	DatabasePath string
}

// LimitsConfig caps the number of records in each store.
type LimitsConfig struct {
	Transactions int
	Budgets      int
	Debts        int
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// DisplayConfig holds presentation-only settings.
type DisplayConfig struct {
	Currency string
}

// Config is the full application configuration.
type Config struct {
	Logging LoggingConfig
	Display DisplayConfig
	Storage StorageConfig
	Limits  LimitsConfig
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendCSV,
			DataDir: defaultDataDir(),
		},
		Limits: LimitsConfig{
			Transactions: 100,
			Budgets:      10,
			Debts:        10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Display: DisplayConfig{
			Currency: "Rs",
		},
	}
}

// LoadLedgerConfig loads configuration from v. It follows this precedence:
// 1. Viper configuration (from config file, flags or TALLY_ env vars)
// 2. XDG_DATA_HOME for the data directory
// 3. Default values
func LoadLedgerConfig(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.GetViper()
	}
	config := DefaultConfig()

	if s := v.GetString("storage.backend"); s != "" {
		config.Storage.Backend = strings.ToLower(s)
	}
	if s := v.GetString("storage.data_dir"); s != "" {
		config.Storage.DataDir = s
	}
	if s := v.GetString("storage.database_path"); s != "" {
		config.Storage.DatabasePath = s
	}

	if v.IsSet("limits.transactions") {
		config.Limits.Transactions = v.GetInt("limits.transactions")
	}
	if v.IsSet("limits.budgets") {
		config.Limits.Budgets = v.GetInt("limits.budgets")
	}
	if v.IsSet("limits.debts") {
		config.Limits.Debts = v.GetInt("limits.debts")
	}

	if s := v.GetString("logging.level"); s != "" {
		config.Logging.Level = s
	}
	if s := v.GetString("logging.format"); s != "" {
		config.Logging.Format = s
	}
	if s := v.GetString("display.currency"); s != "" {
		config.Display.Currency = s
	}

	config.Storage.DataDir = ExpandPath(config.Storage.DataDir)
	if config.Storage.DatabasePath == "" {
		config.Storage.DatabasePath = filepath.Join(config.Storage.DataDir, "tally.db")
	}
	config.Storage.DatabasePath = ExpandPath(config.Storage.DatabasePath)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.Storage.Backend {
	case BackendCSV, BackendSQLite:
	default:
		problems = append(problems, fmt.Sprintf("storage backend %q must be %q or %q", c.Storage.Backend, BackendCSV, BackendSQLite))
	}
	if strings.TrimSpace(c.Storage.DataDir) == "" {
		problems = append(problems, "storage data directory cannot be empty")
	}

	if c.Limits.Transactions < 1 {
		problems = append(problems, fmt.Sprintf("transaction limit %d must be at least 1", c.Limits.Transactions))
	}
	if c.Limits.Budgets < 1 {
		problems = append(problems, fmt.Sprintf("budget limit %d must be at least 1", c.Limits.Budgets))
	}
	if c.Limits.Debts < 1 {
		problems = append(problems, fmt.Sprintf("debt limit %d must be at least 1", c.Limits.Debts))
	}

	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		problems = append(problems, err.Error())
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("log format %q must be console or json", c.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n- %s", common.ErrInvalidConfig, strings.Join(problems, "\n- "))
	}
	return nil
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tally")
	}
	return "~/.local/share/tally"
}
