package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Thresholds is the content of a thresholds file:
//
//	default: 50
//	weeks:
//	  "2025-W03": 30
type Thresholds struct {
	Default *decimal.Decimal
	Weeks   map[string]decimal.Decimal
}

type thresholdsFile struct {
	Default any            `yaml:"default"`
	Weeks   map[string]any `yaml:"weeks"`
}

// LoadThresholds reads per-week tie-break thresholds from a YAML file
func LoadThresholds(path string) (*Thresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read thresholds file %s: %w", path, err)
	}
	th, err := ParseThresholds(data)
	if err != nil {
		return nil, fmt.Errorf("thresholds file %s: %w", path, err)
	}
	return th, nil
}

// ParseThresholds decodes the YAML thresholds document
func ParseThresholds(data []byte) (*Thresholds, error) {
	var raw thresholdsFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	th := &Thresholds{Weeks: make(map[string]decimal.Decimal, len(raw.Weeks))}
	if raw.Default != nil {
		d, err := toDecimal(raw.Default)
		if err != nil {
			return nil, fmt.Errorf("default: %w", err)
		}
		th.Default = &d
	}
	for week, v := range raw.Weeks {
		d, err := toDecimal(v)
		if err != nil {
			return nil, fmt.Errorf("week %s: %w", week, err)
		}
		th.Weeks[strings.TrimSpace(week)] = d
	}
	return th, nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case string:
		return decimal.NewFromString(strings.TrimSpace(n))
	default:
		return decimal.Zero, fmt.Errorf("threshold must be a number, got %v", v)
	}
}
