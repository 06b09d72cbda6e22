package shoppingcart

import (
	"strings"

	"github.com/angelmondragon/shoppingcart/pkg/catalog"
	"github.com/shopspring/decimal"
)

const attrValueSeparator = ", "

// AttrAddedItem summarizes the values picked in one attribute group.
type AttrAddedItem struct {
	AttrName string
	Values   string
}

// AttributeResult is the priced view of a line's attribute selection.
type AttributeResult struct {
	// ExtraPrice is already multiplied by the line quantity.
	ExtraPrice decimal.Decimal
	AttrsAdded []AttrAddedItem
}

// ResolveAttributes prices the selected attribute values of a line. Selected
// ids that do not belong to any group are ignored. Groups keep the product's
// declared order; groups without a selected value are left out.
func ResolveAttributes(selected []int64, qty int, groups []catalog.Attribute) AttributeResult {
	picked := make(map[int64]struct{}, len(selected))
	for _, id := range selected {
		picked[id] = struct{}{}
	}

	extra := decimal.Zero
	var added []AttrAddedItem
	for _, group := range groups {
		var names []string
		for _, value := range group.Values {
			if _, ok := picked[value.ID]; !ok {
				continue
			}
			if value.ExtraPrice != nil {
				extra = extra.Add(*value.ExtraPrice)
			}
			names = append(names, value.Name)
		}
		if len(names) == 0 {
			continue
		}
		added = append(added, AttrAddedItem{
			AttrName: group.Name,
			Values:   strings.Join(names, attrValueSeparator),
		})
	}

	return AttributeResult{
		ExtraPrice: extra.Mul(decimal.NewFromInt(int64(qty))),
		AttrsAdded: added,
	}
}
