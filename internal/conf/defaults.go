// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "partybase")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs/partybase.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)

	viper.SetDefault("webserver.debug", false)
	viper.SetDefault("webserver.host", "0.0.0.0")
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.authtoken", "")
	viper.SetDefault("webserver.cors", []string{})

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "partybase.db")

	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "partybase")
	viper.SetDefault("output.mysql.password", "")
	viper.SetDefault("output.mysql.database", "partybase")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")

	viper.SetDefault("import.debug", false)
	viper.SetDefault("import.maxuploadsize", 5*1024*1024)
}
