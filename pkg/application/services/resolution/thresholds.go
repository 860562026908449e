package resolution

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// DefaultThreshold sends half of the cost-tied lines to the primary center
	DefaultThreshold = decimal.NewFromInt(50)
)

// Thresholds holds the per-week tie-break thresholds, each in [0, 100]
type Thresholds struct {
	Default decimal.Decimal
	Weeks   map[string]decimal.Decimal
}

// NewThresholds validates and builds a threshold table
func NewThresholds(def decimal.Decimal, weeks map[string]decimal.Decimal) (Thresholds, error) {
	if err := checkRange("default", def); err != nil {
		return Thresholds{}, err
	}

	copied := make(map[string]decimal.Decimal, len(weeks))
	for week, v := range weeks {
		if err := checkRange(week, v); err != nil {
			return Thresholds{}, err
		}
		copied[week] = v
	}
	return Thresholds{Default: def, Weeks: copied}, nil
}

// For returns the threshold of a week, the default when not configured
func (t Thresholds) For(week string) decimal.Decimal {
	if v, ok := t.Weeks[week]; ok {
		return v
	}
	return t.Default
}

// SortedWeeks lists the configured weeks in label order
func (t Thresholds) SortedWeeks() []string {
	weeks := make([]string, 0, len(t.Weeks))
	for w := range t.Weeks {
		weeks = append(weeks, w)
	}
	sort.Strings(weeks)
	return weeks
}

func checkRange(week string, v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(hundred) {
		return fmt.Errorf("threshold for %s must be between 0 and 100, got %s", week, v)
	}
	return nil
}
