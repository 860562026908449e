package dto

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/sourcing/pkg/domain/entities"
)

// PlanResult contains the complete output of a sourcing run
type PlanResult struct {
	Fingerprint string                      `json:"fingerprint"`
	Centers     []string                    `json:"centers"`
	Orders      []*entities.ProductionOrder `json:"orders"`
	Summary     Summary                     `json:"summary"`
	Rules       map[string]int              `json:"rules"`
	Warnings    []Warning                   `json:"warnings"`
}

// Warning is a non-fatal finding of the run, such as an unmatched join key
type Warning struct {
	Kind    string `json:"kind"`
	Table   string `json:"table,omitempty"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// NewWarning converts a PlanError into a Warning
func NewWarning(err *entities.PlanError) Warning {
	return Warning{
		Kind:    err.Kind.String(),
		Table:   err.Table,
		Value:   err.Value,
		Message: err.Message,
	}
}

// Summary aggregates the proposed orders
type Summary struct {
	TotalOrders   int             `json:"total_orders"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	TotalSavings  decimal.Decimal `json:"total_savings"`
	Centers       []CenterSummary `json:"centers"`
}

// CenterSummary is the per-center share of the proposal. Shares and load are
// percentages rounded to two decimals.
type CenterSummary struct {
	Center      entities.CenterID `json:"center"`
	Alias       string            `json:"alias,omitempty"`
	Orders      int               `json:"orders"`
	Quantity    decimal.Decimal   `json:"quantity"`
	Hours       decimal.Decimal   `json:"hours"`
	Savings     decimal.Decimal   `json:"savings"`
	HoursShare  decimal.Decimal   `json:"hours_share"`
	OrdersShare decimal.Decimal   `json:"orders_share"`
	Capacity    *decimal.Decimal  `json:"capacity,omitempty"`
	Load        *decimal.Decimal  `json:"load,omitempty"`
}

// Center returns the summary row of a center
func (s Summary) Center(id entities.CenterID) (CenterSummary, bool) {
	for _, c := range s.Centers {
		if c.Center == id {
			return c, true
		}
	}
	return CenterSummary{}, false
}
