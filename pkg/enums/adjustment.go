package enums

import (
	"fmt"
	"strings"
)

// AdjustmentType says whether an adjustment adds to or subtracts from the cart total.
type AdjustmentType string

const (
	AdjustmentTypeCharge   AdjustmentType = "charge"
	AdjustmentTypeDiscount AdjustmentType = "discount"
)

var validAdjustmentTypes = []AdjustmentType{
	AdjustmentTypeCharge,
	AdjustmentTypeDiscount,
}

// String implements fmt.Stringer.
func (a AdjustmentType) String() string {
	return string(a)
}

// IsValid reports whether the value is known.
func (a AdjustmentType) IsValid() bool {
	for _, candidate := range validAdjustmentTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAdjustmentType converts raw input into an AdjustmentType.
func ParseAdjustmentType(value string) (AdjustmentType, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validAdjustmentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid adjustment type %q", value)
}

// AdjustmentKey identifies the rule that produced an adjustment.
type AdjustmentKey string

const (
	AdjustmentKeyShippingCost AdjustmentKey = "shipping_cost"
)

var validAdjustmentKeys = []AdjustmentKey{
	AdjustmentKeyShippingCost,
}

func (k AdjustmentKey) String() string {
	return string(k)
}

func (k AdjustmentKey) IsValid() bool {
	for _, candidate := range validAdjustmentKeys {
		if candidate == k {
			return true
		}
	}
	return false
}
