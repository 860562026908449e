package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RowIdentity is the zero-based position of a demand line in its input table.
// It is the only seed the tie-break may use.
type RowIdentity int

// DemandLine represents one requested quantity of a material for a client
type DemandLine struct {
	Row      RowIdentity
	Material MaterialCode
	Unit     string
	Client   ClientCode
	Quantity decimal.Decimal
	NeedDate time.Time
}

// NewDemandLine creates a validated DemandLine
func NewDemandLine(
	row RowIdentity,
	material MaterialCode,
	unit string,
	client ClientCode,
	quantity decimal.Decimal,
	needDate time.Time,
) (*DemandLine, error) {
	if material == "" {
		return nil, fmt.Errorf("material cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("quantity cannot be negative, got %s", quantity)
	}
	if needDate.IsZero() {
		return nil, fmt.Errorf("need date cannot be empty")
	}

	return &DemandLine{
		Row:      row,
		Material: material,
		Unit:     unit,
		Client:   client,
		Quantity: quantity,
		NeedDate: needDate,
	}, nil
}

// WeekLabel returns the line's calendar-week bucket
func (d DemandLine) WeekLabel() string {
	return WeekLabel(d.NeedDate)
}

// WeekLabel encodes a date as "YYYY-Www". Weeks start on Sunday and days before
// the first Sunday of the year belong to week 00. The label is a grouping and
// configuration key only.
func WeekLabel(t time.Time) string {
	yday := t.YearDay() - 1
	wday := int(t.Weekday())
	week := (yday + 7 - wday) / 7
	return fmt.Sprintf("%04d-W%02d", t.Year(), week)
}
