package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaterialCode represents a unique material identifier
type MaterialCode string

// MaterialKey is the join key of the material master
type MaterialKey struct {
	Material MaterialCode
	Unit     string
}

func (k MaterialKey) String() string {
	return fmt.Sprintf("%s/%s", k.Material, k.Unit)
}

// FabricationRate is the per-unit cost and time of making a material at one center
type FabricationRate struct {
	UnitCost decimal.Decimal
	UnitTime decimal.Decimal
}

// Material represents one row of the material master
type Material struct {
	Key    MaterialKey
	MinLot decimal.Decimal
	MaxLot decimal.Decimal
	Rates  map[CenterID]FabricationRate
}

// NewMaterial creates a validated Material. Lot sizes are checked when lots are
// built, so a master with no usable maximum still loads.
func NewMaterial(key MaterialKey, minLot, maxLot decimal.Decimal, rates map[CenterID]FabricationRate) (*Material, error) {
	if key.Material == "" {
		return nil, fmt.Errorf("material cannot be empty")
	}
	if minLot.IsNegative() {
		return nil, fmt.Errorf("minimum lot size cannot be negative, got %s", minLot)
	}
	if rates == nil {
		rates = make(map[CenterID]FabricationRate)
	}

	return &Material{
		Key:    key,
		MinLot: minLot,
		MaxLot: maxLot,
		Rates:  rates,
	}, nil
}

// Rate returns the fabrication rate at a center, zero when unknown
func (m Material) Rate(center CenterID) FabricationRate {
	if r, ok := m.Rates[center]; ok {
		return r
	}
	return FabricationRate{UnitCost: decimal.Zero, UnitTime: decimal.Zero}
}
