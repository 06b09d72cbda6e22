package shoppingcart

import (
	"context"
	"errors"

	"github.com/angelmondragon/shoppingcart/pkg/db/models"
	"github.com/angelmondragon/shoppingcart/pkg/enums"
	pkgerrors "github.com/angelmondragon/shoppingcart/pkg/errors"
	"github.com/angelmondragon/shoppingcart/pkg/types"
	"github.com/angelmondragon/shoppingcart/pkg/upstream"
	"github.com/angelmondragon/shoppingcart/pkg/users"
)

// ShippingChargeName is the label shown to the customer for the delivery fee.
const ShippingChargeName = "Costo de envío"

// DeliveryAddress is the address a cart will be delivered to.
type DeliveryAddress struct {
	Name        string
	Address     string
	AddressType string
}

// deliveryLookup holds what the peer services reported for a cart's delivery.
// Exactly one of stored or fallback is set when the user has an address.
type deliveryLookup struct {
	stored     *users.Address
	fallback   *users.DefaultAddress
	restaurant *types.GeographyPoint
}

type deliveryResult struct {
	address *DeliveryAddress
	// mutated reports that a shipping adjustment and the address id were set on the cart.
	mutated bool
}

type deliveryResolver struct {
	addresses   AddressBook
	restaurants RestaurantDirectory
	distance    DistanceCalculator
	shipping    *ShippingEstimator
}

// fetch performs the read-only peer calls. It is safe to run concurrently
// with other lookups.
func (d *deliveryResolver) fetch(ctx context.Context, cart *models.ShoppingCart) (*deliveryLookup, error) {
	if cart.UserAddressID != nil {
		address, err := d.addresses.GetAddress(ctx, *cart.UserAddressID)
		if err != nil {
			return nil, addressError(err, "Can't get shopping address")
		}
		return &deliveryLookup{stored: address}, nil
	}

	fallback, err := d.addresses.GetDefaultAddress(ctx)
	if err != nil {
		return nil, addressError(err, "Can't get default user address")
	}
	if fallback == nil {
		return &deliveryLookup{}, nil
	}
	if fallback.Location == nil {
		return nil, pkgerrors.New(pkgerrors.CodeBadUserAddress, "Default user address has no position").
			WithDetails(map[string]any{"user_address_id": fallback.ID})
	}

	point, err := d.restaurants.GetLatLng(ctx, cart.RestaurantTmplID)
	if err != nil {
		if errors.Is(err, upstream.ErrPartialContent) || errors.Is(err, upstream.ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeBadRestaurantLatLng, err, "Can't get restaurant position")
		}
		return nil, dependencyError(err, "restaurant position lookup failed")
	}
	if point == nil {
		return nil, pkgerrors.New(pkgerrors.CodeBadRestaurantLatLng, "Can't get restaurant position").
			WithDetails(map[string]any{"restaurant_tmpl_id": cart.RestaurantTmplID})
	}
	return &deliveryLookup{fallback: fallback, restaurant: point}, nil
}

// resolve applies the lookup to the cart. When the cart had no address yet
// and the user has a default one, the shipping charge is appended and the
// address id stored on the cart; the caller persists both.
func (d *deliveryResolver) resolve(ctx context.Context, cart *models.ShoppingCart, lookup *deliveryLookup) (deliveryResult, error) {
	switch {
	case lookup.stored != nil:
		return deliveryResult{address: toDeliveryAddress(*lookup.stored)}, nil
	case lookup.fallback == nil:
		return deliveryResult{}, nil
	}

	addressID := lookup.fallback.ID
	if cart.Adjustments.Has(enums.AdjustmentKeyShippingCost) {
		// A shipping charge without a stored address id: only the id is missing.
		cart.UserAddressID = &addressID
		return deliveryResult{address: toDeliveryAddress(lookup.fallback.Address), mutated: true}, nil
	}

	meters, err := d.distance.DistanceMeters(ctx, *lookup.fallback.Location, *lookup.restaurant)
	if err != nil {
		return deliveryResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute delivery distance")
	}
	cost, err := d.shipping.Estimate(&meters)
	if err != nil {
		return deliveryResult{}, err
	}

	cart.Adjustments = append(cart.Adjustments, types.Adjustment{
		Key:    enums.AdjustmentKeyShippingCost,
		Type:   enums.AdjustmentTypeCharge,
		Name:   ShippingChargeName,
		Amount: cost,
	})
	cart.UserAddressID = &addressID

	return deliveryResult{address: toDeliveryAddress(lookup.fallback.Address), mutated: true}, nil
}

func toDeliveryAddress(a users.Address) *DeliveryAddress {
	return &DeliveryAddress{
		Name:        a.Name,
		Address:     a.Address,
		AddressType: a.AddressType,
	}
}

func addressError(err error, msg string) error {
	if errors.Is(err, upstream.ErrPartialContent) || errors.Is(err, upstream.ErrNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeBadUserAddress, err, msg)
	}
	return dependencyError(err, "user address lookup failed")
}

func dependencyError(err error, msg string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
