package shoppingcart

import (
	"github.com/shopspring/decimal"

	shoppingcartdto "github.com/angelmondragon/shoppingcart/api/controllers/shoppingcart/dto"
	cartsvc "github.com/angelmondragon/shoppingcart/internal/shoppingcart"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func newPricedCart(cart *cartsvc.PricedCart) shoppingcartdto.PricedCart {
	lines := make([]shoppingcartdto.Line, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		var attrs []shoppingcartdto.AttrAdded
		for _, a := range line.AttrsAdded {
			attrs = append(attrs, shoppingcartdto.AttrAdded{AttrName: a.AttrName, Values: a.Values})
		}
		lines = append(lines, shoppingcartdto.Line{
			ID:            line.ID,
			ProductTmplID: line.ProductTmplID,
			Name:          line.Name,
			Description:   line.Description,
			PictureURL:    line.PictureURL,
			Qty:           line.Qty,
			Total:         money(line.Total),
			AttrsAdded:    attrs,
		})
	}

	charges := make([]shoppingcartdto.Charge, 0, len(cart.Charges))
	for _, c := range cart.Charges {
		charges = append(charges, shoppingcartdto.Charge{
			Key:    string(c.Key),
			Type:   string(c.Type),
			Name:   c.Name,
			Amount: money(c.Amount),
		})
	}

	out := shoppingcartdto.PricedCart{
		ID:                 cart.ID,
		HasDeliveryAddress: cart.HasDeliveryAddress,
		Lines:              lines,
		Charges:            charges,
		Subtotal:           money(cart.Subtotal),
		Total:              money(cart.Total),
		HasPromApplied:     cart.HasPromApplied,
	}
	if cart.DeliveryAddress != nil {
		out.DeliveryAddress = &shoppingcartdto.DeliveryAddress{
			Name:        cart.DeliveryAddress.Name,
			Address:     cart.DeliveryAddress.Address,
			AddressType: cart.DeliveryAddress.AddressType,
		}
	}
	return out
}

func newAvailableCarts(carts []cartsvc.AvailableCart) []shoppingcartdto.AvailableCart {
	out := make([]shoppingcartdto.AvailableCart, 0, len(carts))
	for _, c := range carts {
		out = append(out, shoppingcartdto.AvailableCart{
			ID:             c.ID,
			RestaurantName: c.RestaurantName,
			RestaurantLogo: c.RestaurantLogo,
			LineCount:      c.LineCount,
		})
	}
	return out
}
