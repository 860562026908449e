package planning

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/vsinha/sourcing/pkg/application/services/resolution"
	"github.com/vsinha/sourcing/pkg/domain/entities"
	"github.com/vsinha/sourcing/pkg/infrastructure/repositories/sheet"
)

// ErrInvalidParams marks a run rejected before any table was read
var ErrInvalidParams = errors.New("invalid plan parameters")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Input holds the four tables of a run
type Input struct {
	Demand    *sheet.Table `validate:"required"`
	Materials *sheet.Table `validate:"required"`
	Clients   *sheet.Table `validate:"required"`
	Capacity  *sheet.Table `validate:"required"`
}

// Params are the tunable parameters of a run
type Params struct {
	PricePerDistance decimal.Decimal
	PriceSource      string `validate:"omitempty,oneof=fixed client"`
	DefaultThreshold decimal.Decimal
	Thresholds       map[string]decimal.Decimal
	OrderClass       string `validate:"omitempty,max=16"`
	Centers          entities.CenterOptions
}

// DefaultParams returns the parameters used when nothing is configured
func DefaultParams() Params {
	return Params{
		PricePerDistance: resolution.DefaultPricePerDistance,
		PriceSource:      resolution.PriceSourceFixed,
		DefaultThreshold: resolution.DefaultThreshold,
		OrderClass:       entities.DefaultOrderClass,
	}
}

// Validate checks the input and parameters
func Validate(in Input, params Params) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: missing input table: %v", ErrInvalidParams, err)
	}
	if err := validate.Struct(params); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}
