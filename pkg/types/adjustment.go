package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/shoppingcart/pkg/enums"
	"github.com/shopspring/decimal"
)

// Adjustment is a named charge or discount applied on top of the cart subtotal.
type Adjustment struct {
	Key    enums.AdjustmentKey  `json:"key"`
	Type   enums.AdjustmentType `json:"type"`
	Name   string               `json:"name"`
	Amount decimal.Decimal      `json:"amount"`
}

// Adjustments is the ordered list persisted in the shopping_cart.adjustments jsonb column.
type Adjustments []Adjustment

// Has reports whether an adjustment with the given key is already present.
func (a Adjustments) Has(key enums.AdjustmentKey) bool {
	for _, adj := range a {
		if adj.Key == key {
			return true
		}
	}
	return false
}

// Value serializes the adjustments to JSON text.
func (a Adjustments) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	for _, adj := range a {
		if !adj.Type.IsValid() {
			return nil, fmt.Errorf("adjustment %q: invalid type %q", adj.Key, adj.Type)
		}
	}
	raw, err := json.Marshal([]Adjustment(a))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan decodes the jsonb column. NULL decodes to an empty list.
func (a *Adjustments) Scan(value interface{}) error {
	if value == nil {
		*a = Adjustments{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded []Adjustment
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("adjustments: %w", err)
	}
	if decoded == nil {
		decoded = []Adjustment{}
	}
	*a = decoded
	return nil
}
