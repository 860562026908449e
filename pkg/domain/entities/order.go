package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultOrderClass is the order type stamped on every proposed production order
const DefaultOrderClass = "PP01"

// ProductionOrder represents one proposed fabrication lot
type ProductionOrder struct {
	Number     int             `json:"number"`
	Material   MaterialCode    `json:"material"`
	Center     CenterID        `json:"center"`
	OrderClass string          `json:"order_class"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	LotDate    time.Time       `json:"lot_date"`
	Week       string          `json:"week"`
	Hours      decimal.Decimal `json:"hours"`
	Savings    decimal.Decimal `json:"savings"`
}

// NewProductionOrder creates a validated ProductionOrder
func NewProductionOrder(
	number int,
	material MaterialCode,
	center CenterID,
	orderClass string,
	quantity decimal.Decimal,
	unit string,
	lotDate time.Time,
	week string,
	hours, savings decimal.Decimal,
) (*ProductionOrder, error) {
	if number <= 0 {
		return nil, fmt.Errorf("order number must be positive, got %d", number)
	}
	if material == "" {
		return nil, fmt.Errorf("material cannot be empty")
	}
	if center == "" {
		return nil, fmt.Errorf("center cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("quantity cannot be negative, got %s", quantity)
	}
	if hours.IsNegative() {
		return nil, fmt.Errorf("hours cannot be negative, got %s", hours)
	}

	return &ProductionOrder{
		Number:     number,
		Material:   material,
		Center:     center,
		OrderClass: orderClass,
		Quantity:   quantity,
		Unit:       unit,
		LotDate:    lotDate,
		Week:       week,
		Hours:      hours,
		Savings:    savings,
	}, nil
}

// LotDateLabel formats the lot date the way the proposal sheet shows it
func (o ProductionOrder) LotDateLabel() string {
	return o.LotDate.Format("02/01/2006")
}
