// internal/conf/defaults.go - default configuration values
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaultConfig sets the default configuration values for the application.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	// Main configuration
	viper.SetDefault("main.name", "Lavo System")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs/lavo.log")

	// Web server configuration
	viper.SetDefault("webserver.debug", false)
	viper.SetDefault("webserver.port", "8080")

	// Security configuration
	viper.SetDefault("security.jwtsecret", "")
	viper.SetDefault("security.tokenexpiry", time.Hour)
	viper.SetDefault("security.resettokenexpiry", 15*time.Minute)
	viper.SetDefault("security.bcryptcost", 12)

	// Dashboard configuration
	viper.SetDefault("dashboard.kpicachettl", 10*time.Second)

	// Database outputs
	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "lavo.db")
	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "lavo")
	viper.SetDefault("output.mysql.password", "")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")
	viper.SetDefault("output.mysql.database", "lavo")
}
