package shoppingcartdto

import "github.com/google/uuid"

// AddLineRequest is the body of POST /api/v1/shoppingcart/line.
type AddLineRequest struct {
	ProductTmplID int     `json:"product_tmpl_id" validate:"required,gt=0"`
	Qty           int     `json:"qty" validate:"required,min=1,max=32767"`
	AttrValues    []int64 `json:"attr_values" validate:"omitempty,dive,gt=0"`
}

type AddLineResponse struct {
	ID             uuid.UUID `json:"id"`
	ShoppingCartID uuid.UUID `json:"shopping_cart_id"`
}
