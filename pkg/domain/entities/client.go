package entities

import "github.com/shopspring/decimal"

// ClientCode represents a unique client identifier
type ClientCode string

// Client represents one row of the client master
type Client struct {
	Code      ClientCode
	Distances map[CenterID]decimal.Decimal
	Exclusive map[CenterID]bool
	// PricePerDistance is the client's own transport price, nil when the master has none
	PricePerDistance *decimal.Decimal
}

// Distance returns the distance to a center, zero when unknown
func (c Client) Distance(center CenterID) decimal.Decimal {
	if d, ok := c.Distances[center]; ok {
		return d
	}
	return decimal.Zero
}

// IsExclusive reports whether all the client's demand is forced to a center
func (c Client) IsExclusive(center CenterID) bool {
	return c.Exclusive[center]
}
