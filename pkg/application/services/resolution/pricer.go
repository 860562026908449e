package resolution

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/sourcing/pkg/domain/entities"
)

// DefaultPricePerDistance is the transport price per km used when none is configured
var DefaultPricePerDistance = decimal.RequireFromString("0.15")

// TransportPricer supplies the transport price per distance unit for a record
type TransportPricer interface {
	PricePerDistance(record entities.JoinedRecord) decimal.Decimal
}

// FixedPrice applies one price to every record
type FixedPrice struct {
	Price decimal.Decimal
}

func (p FixedPrice) PricePerDistance(entities.JoinedRecord) decimal.Decimal {
	return p.Price
}

// ClientPrice uses the client's own price when its master row carries one
type ClientPrice struct {
	Fallback decimal.Decimal
}

func (p ClientPrice) PricePerDistance(record entities.JoinedRecord) decimal.Decimal {
	if record.Client.PricePerDistance != nil {
		return *record.Client.PricePerDistance
	}
	return p.Fallback
}

// Price sources accepted by NewPricer
const (
	PriceSourceFixed  = "fixed"
	PriceSourceClient = "client"
)

// NewPricer builds the pricer for a price source name
func NewPricer(source string, price decimal.Decimal) (TransportPricer, error) {
	if price.IsNegative() {
		return nil, fmt.Errorf("transport price cannot be negative, got %s", price)
	}

	switch strings.ToLower(strings.TrimSpace(source)) {
	case "", PriceSourceFixed:
		return FixedPrice{Price: price}, nil
	case PriceSourceClient:
		return ClientPrice{Fallback: price}, nil
	default:
		return nil, fmt.Errorf("unknown transport price source %q", source)
	}
}
