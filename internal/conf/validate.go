// conf/validate.go

package conf

import (
	"fmt"
	"strconv"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateOutputSettings(&settings.Output); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateImportSettings(&settings.Import); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateWebServerSettings(ws *WebServerSettings) error {
	port, err := strconv.Atoi(ws.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid web server port: %s", ws.Port)
	}
	return nil
}

func validateOutputSettings(out *OutputSettings) error {
	if out.SQLite.Enabled && out.MySQL.Enabled {
		return fmt.Errorf("only one of output.sqlite and output.mysql may be enabled")
	}
	if !out.SQLite.Enabled && !out.MySQL.Enabled {
		return fmt.Errorf("one of output.sqlite and output.mysql must be enabled")
	}
	if out.SQLite.Enabled && out.SQLite.Path == "" {
		return fmt.Errorf("output.sqlite.path must not be empty")
	}
	if out.MySQL.Enabled {
		if out.MySQL.Database == "" || out.MySQL.Host == "" {
			return fmt.Errorf("output.mysql requires database and host")
		}
		if _, err := strconv.Atoi(out.MySQL.Port); err != nil {
			return fmt.Errorf("invalid mysql port: %s", out.MySQL.Port)
		}
	}
	return nil
}

func validateImportSettings(imp *ImportSettings) error {
	if imp.MaxUploadSize <= 0 {
		return fmt.Errorf("import.maxuploadsize must be positive")
	}
	return nil
}
