// internal/conf/config.go - application settings and configuration loading
package conf

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// LogConfig defines the configuration for a log file
type LogConfig struct {
	Enabled bool   // true to enable this log
	Path    string // path to log file
}

// WebServerSettings contains HTTP server configuration
type WebServerSettings struct {
	Debug bool   // true to enable debug logging for the web server
	Port  string // port for the HTTP server
}

// SecuritySettings contains authentication configuration
type SecuritySettings struct {
	JWTSecret        string        // secret used to sign bearer tokens
	TokenExpiry      time.Duration // lifetime of login tokens
	ResetTokenExpiry time.Duration // lifetime of password reset tokens
	BcryptCost       int           // bcrypt hashing cost
}

// DashboardSettings contains dashboard aggregation configuration
type DashboardSettings struct {
	KPICacheTTL time.Duration // how long assembled KPI responses are cached
}

// SQLiteSettings contains SQLite database configuration
type SQLiteSettings struct {
	Enabled bool
	Path    string // path to SQLite database file
}

// MySQLSettings contains MySQL database configuration
type MySQLSettings struct {
	Enabled  bool
	Username string
	Password string
	Host     string
	Port     string
	Database string
}

// OutputSettings selects and configures the backing database
type OutputSettings struct {
	SQLite SQLiteSettings
	MySQL  MySQLSettings
}

// Settings contains all configuration options for the back office server
type Settings struct {
	Debug bool // true to enable debug mode

	Main struct {
		Name string    // instance name, also used as the default system name
		Log  LogConfig // main log file settings
	}

	WebServer WebServerSettings
	Security  SecuritySettings
	Dashboard DashboardSettings
	Output    OutputSettings
}

// Load reads the configuration into a Settings struct, applying defaults
// for any value the config file or environment does not provide.
func Load() (*Settings, error) {
	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return settings, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/lavo-go")
	viper.AddConfigPath("/etc/lavo-go")

	viper.SetEnvPrefix("lavo")
	viper.AutomaticEnv()

	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("fatal error reading config file: %w", err)
		}
		// No config file found, defaults and environment carry the configuration.
	}

	return nil
}

// ValidateSettings checks settings that have no sensible fallback.
func ValidateSettings(settings *Settings) error {
	if !settings.Output.SQLite.Enabled && !settings.Output.MySQL.Enabled {
		return fmt.Errorf("no database output enabled, enable either sqlite or mysql")
	}
	if settings.Output.SQLite.Enabled && settings.Output.MySQL.Enabled {
		return fmt.Errorf("both sqlite and mysql outputs enabled, pick one")
	}
	if settings.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwtsecret must be set")
	}
	if settings.Security.BcryptCost < 4 || settings.Security.BcryptCost > 31 {
		return fmt.Errorf("security.bcryptcost must be between 4 and 31, got %d", settings.Security.BcryptCost)
	}
	if settings.Dashboard.KPICacheTTL <= 0 {
		return fmt.Errorf("dashboard.kpicachettl must be positive, got %s", settings.Dashboard.KPICacheTTL)
	}
	return nil
}
