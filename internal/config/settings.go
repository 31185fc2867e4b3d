package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/clawd-ops/missioncontrol/internal/models"
)

// Environment variables read on top of settings.yaml.
const (
	WorkspaceEnv = "WORKSPACE_PATH"
	LogLevelEnv  = "MISSIONCONTROL_LOG_LEVEL"
)

var validate = validator.New()

// LoadSettings loads ~/.missioncontrol/settings.yaml, applies environment
// overrides and validates the result. A missing file yields defaults.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	settings, err := LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		return nil, err
	}
	ApplyEnv(settings, os.Getenv)
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return settings, nil
}

// SaveSettings saves the global settings to ~/.missioncontrol/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	if err := ValidateSettings(settings); err != nil {
		return err
	}
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

// ApplyEnv overlays environment variables onto settings.
func ApplyEnv(settings *models.Settings, getenv func(string) string) {
	if ws := strings.TrimSpace(getenv(WorkspaceEnv)); ws != "" {
		settings.Workspace = ws
	}
	if lvl := strings.TrimSpace(getenv(LogLevelEnv)); lvl != "" {
		settings.LogLevel = strings.ToLower(lvl)
	}
}

// ValidateSettings checks settings against their struct constraints.
func ValidateSettings(settings *models.Settings) error {
	if err := validate.Struct(settings); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// StateRoots returns the directories searched for state files, highest
// priority first: the workspace state directory, then the local fallback.
func StateRoots(settings *models.Settings) []string {
	primary := settings.StateDir
	if !filepath.IsAbs(primary) {
		primary = filepath.Join(settings.Workspace, settings.StateDir)
	}
	roots := []string{primary}
	if settings.FallbackRoot != "" && settings.FallbackRoot != primary {
		roots = append(roots, settings.FallbackRoot)
	}
	return roots
}
