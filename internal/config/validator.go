package config

import (
	"fmt"
	"os"
	"strings"
)

// DeploymentValidator checks settings that are fine for local use but not
// for a production deployment. In development its errors downgrade to
// warnings.
type DeploymentValidator struct {
	config   *Config
	errors   []string
	warnings []string
}

func NewDeploymentValidator(cfg *Config) *DeploymentValidator {
	return &DeploymentValidator{
		config:   cfg,
		errors:   []string{},
		warnings: []string{},
	}
}

func (v *DeploymentValidator) Validate() error {
	isProduction := v.config.App.IsProduction()

	v.validateMapToken(isProduction)
	v.validateSeedFile(isProduction)
	v.validateDebug(isProduction)

	if len(v.errors) > 0 {
		return fmt.Errorf("deployment validation failed:\n%s", strings.Join(v.errors, "\n"))
	}
	return nil
}

// Warnings returns the non-fatal findings of the last Validate call.
func (v *DeploymentValidator) Warnings() []string {
	return v.warnings
}

func (v *DeploymentValidator) validateMapToken(isProduction bool) {
	token := strings.TrimSpace(v.config.Map.AccessToken)

	if token == "" {
		v.addWarning("map.access_token is not set; the map page will show setup instructions")
		return
	}

	// Check for the placeholder from the sample .env
	if token == "your_mapbox_token_here" {
		v.addError("map.access_token is using the example value", isProduction)
		return
	}

	if !strings.HasPrefix(token, "pk.") {
		v.addWarning("map.access_token does not look like a public token (pk.*)")
	}
}

func (v *DeploymentValidator) validateSeedFile(isProduction bool) {
	path := v.config.Source.SeedFile

	if path == "" {
		if isProduction {
			v.addWarning("source.seed_file is not set; serving embedded sample data")
		}
		return
	}

	if _, err := os.Stat(path); err != nil {
		v.addError(fmt.Sprintf("source.seed_file %s is not readable: %v", path, err), isProduction)
	}
}

func (v *DeploymentValidator) validateDebug(isProduction bool) {
	if isProduction && (v.config.App.Debug || v.config.Logging.IsDebug()) {
		v.addWarning("debug logging is enabled in production")
	}
}

func (v *DeploymentValidator) addError(message string, isProduction bool) {
	if isProduction {
		v.errors = append(v.errors, "   "+message)
	} else {
		v.warnings = append(v.warnings, "   "+message)
	}
}

func (v *DeploymentValidator) addWarning(message string) {
	v.warnings = append(v.warnings, "   "+message)
}

// ValidateDeployment runs the deployment checks and returns the warnings.
func ValidateDeployment(cfg *Config) ([]string, error) {
	validator := NewDeploymentValidator(cfg)
	err := validator.Validate()
	return validator.Warnings(), err
}
