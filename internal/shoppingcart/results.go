package shoppingcart

import (
	"github.com/angelmondragon/shoppingcart/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricedCart is the itemized, priced view of a shopping cart.
type PricedCart struct {
	ID                 uuid.UUID
	HasDeliveryAddress bool
	DeliveryAddress    *DeliveryAddress
	Lines              []PricedLine
	Charges            []Charge
	Subtotal           decimal.Decimal
	Total              decimal.Decimal
	HasPromApplied     bool
}

// PricedLine is one cart line with its computed total.
type PricedLine struct {
	ID            uuid.UUID
	ProductTmplID int
	Name          string
	Description   string
	PictureURL    string
	Qty           int
	Total         decimal.Decimal
	// AttrsAdded is nil when the line has no selected attributes.
	AttrsAdded []AttrAddedItem
}

// Charge summarizes one adjustment applied to the cart.
type Charge struct {
	Key    enums.AdjustmentKey
	Type   enums.AdjustmentType
	Name   string
	Amount decimal.Decimal
}

// AvailableCart is the listing entry for a user's cart.
type AvailableCart struct {
	ID             uuid.UUID
	RestaurantName string
	RestaurantLogo string
	LineCount      int
}
