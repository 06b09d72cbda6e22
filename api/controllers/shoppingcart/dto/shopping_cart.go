package shoppingcartdto

import "github.com/google/uuid"

// Money amounts are rendered as fixed two-decimal strings.

// PricedCart is the priced cart returned by GET /api/v1/shoppingcart/{shoppingCartId}.
type PricedCart struct {
	ID                 uuid.UUID        `json:"id"`
	HasDeliveryAddress bool             `json:"has_delivery_address"`
	DeliveryAddress    *DeliveryAddress `json:"delivery_address,omitempty"`
	Lines              []Line           `json:"lines"`
	Charges            []Charge         `json:"charges"`
	Subtotal           string           `json:"subtotal"`
	Total              string           `json:"total"`
	HasPromApplied     bool             `json:"has_prom_applied"`
}

type DeliveryAddress struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	AddressType string `json:"address_type,omitempty"`
}

type Line struct {
	ID            uuid.UUID   `json:"id"`
	ProductTmplID int         `json:"product_tmpl_id"`
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	PictureURL    string      `json:"picture_url,omitempty"`
	Qty           int         `json:"qty"`
	Total         string      `json:"total"`
	AttrsAdded    []AttrAdded `json:"attrs_added,omitempty"`
}

type AttrAdded struct {
	AttrName string `json:"attr_name"`
	Values   string `json:"values"`
}

type Charge struct {
	Key    string `json:"key"`
	Type   string `json:"type"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// AvailableCart is one entry of GET /api/v1/shoppingcart.
type AvailableCart struct {
	ID             uuid.UUID `json:"id"`
	RestaurantName string    `json:"restaurant_name"`
	RestaurantLogo string    `json:"restaurant_logo,omitempty"`
	LineCount      int       `json:"line_count"`
}
