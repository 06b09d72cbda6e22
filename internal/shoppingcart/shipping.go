package shoppingcart

import (
	"fmt"

	pkgerrors "github.com/angelmondragon/shoppingcart/pkg/errors"
	"github.com/shopspring/decimal"
)

// ShippingRates parameterizes the distance-tiered delivery fee.
type ShippingRates struct {
	BaseCost         decimal.Decimal
	StepCost         decimal.Decimal
	FreeRadiusMeters int
	StepMeters       int
}

// DefaultShippingRates charges 30 up to 2 km and 5 more per started kilometre after that.
func DefaultShippingRates() ShippingRates {
	return ShippingRates{
		BaseCost:         decimal.NewFromInt(30),
		StepCost:         decimal.NewFromInt(5),
		FreeRadiusMeters: 2000,
		StepMeters:       1000,
	}
}

// ShippingEstimator turns a delivery distance into a shipping fee.
type ShippingEstimator struct {
	rates ShippingRates
}

func NewShippingEstimator(rates ShippingRates) (*ShippingEstimator, error) {
	if rates.BaseCost.IsNegative() || rates.StepCost.IsNegative() {
		return nil, fmt.Errorf("shipping costs must not be negative")
	}
	if rates.FreeRadiusMeters < 0 {
		return nil, fmt.Errorf("shipping free radius must not be negative")
	}
	if rates.StepMeters <= 0 {
		return nil, fmt.Errorf("shipping step must be positive")
	}
	return &ShippingEstimator{rates: rates}, nil
}

// Estimate returns the fee for a distance in whole meters. Within the free
// radius the fee is the base cost; beyond it every started step adds the step
// cost, so 2000 and 3000 meters fall in adjacent tiers while 2001 and 3000 share one.
func (e *ShippingEstimator) Estimate(distanceMeters *int) (decimal.Decimal, error) {
	if distanceMeters == nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "distance is required")
	}
	d := *distanceMeters
	if d < 0 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "distance must not be negative").
			WithDetails(map[string]any{"distance_meters": d})
	}

	cost := e.rates.BaseCost
	if d <= e.rates.FreeRadiusMeters {
		return cost, nil
	}
	over := d - e.rates.FreeRadiusMeters
	steps := (over + e.rates.StepMeters - 1) / e.rates.StepMeters
	return cost.Add(e.rates.StepCost.Mul(decimal.NewFromInt(int64(steps)))), nil
}
