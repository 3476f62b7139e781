package evaluate

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadRulesFromFile loads rule tables from a YAML file.
func LoadRulesFromFile(path string) (*Rules, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	rules, err := LoadRulesFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}
	return rules, nil
}

// LoadRulesFromBytes loads rule tables from YAML bytes and validates them.
func LoadRulesFromBytes(data []byte) (*Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	return &rules, nil
}

// MarshalRules renders rule tables as YAML.
func MarshalRules(rules *Rules) ([]byte, error) {
	data, err := yaml.Marshal(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rules: %w", err)
	}
	return data, nil
}

// SaveRulesToFile saves rule tables to a YAML file.
func SaveRulesToFile(rules *Rules, path string) error {
	data, err := MarshalRules(rules)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write rules file: %w", err)
	}

	return nil
}
