package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Source describes where a scenario was loaded from.
type Source string

// SourceEmbedded marks the built-in default scenario.
const SourceEmbedded Source = "embedded default"

// Load loads a scenario.
// Search order: customPath -> ~/.walksim/configs/default.yaml -> ./configs/default.yaml -> embedded default
func Load(customPath string) (Scenario, Source, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Scenario{}, "", fmt.Errorf("config: read %s: %w", customPath, err)
		}
		sc, err := Parse(data)
		if err != nil {
			return Scenario{}, "", fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return sc, Source(customPath), nil
	}

	// Try user config directory, then the local configs directory
	for _, path := range []string{userConfigPath("default.yaml"), filepath.Join("configs", "default.yaml")} {
		if path == "" {
			continue
		}
		if data, err := os.ReadFile(path); err == nil {
			if sc, err := Parse(data); err == nil {
				return sc, Source(path), nil
			}
		}
	}

	// Use embedded default YAML
	sc, err := Parse(defaultScenarioYAML)
	if err != nil {
		return DefaultScenario(), SourceEmbedded, nil // Fallback to hardcoded if embed fails
	}
	return sc, SourceEmbedded, nil
}

// Parse decodes a YAML or JSON scenario. Unknown keys are rejected.
func Parse(data []byte) (Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return Scenario{}, ErrEmpty
		}
		return Scenario{}, err
	}
	return sc, nil
}

// Marshal encodes a scenario as YAML.
func Marshal(sc Scenario) ([]byte, error) {
	return yaml.Marshal(sc)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".walksim", "configs", filename)
}
