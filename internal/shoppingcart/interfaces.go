package shoppingcart

import (
	"context"

	"github.com/angelmondragon/shoppingcart/pkg/catalog"
	"github.com/angelmondragon/shoppingcart/pkg/db/models"
	"github.com/angelmondragon/shoppingcart/pkg/restaurants"
	"github.com/angelmondragon/shoppingcart/pkg/types"
	"github.com/angelmondragon/shoppingcart/pkg/users"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CartRepository defines the persistence surface for shopping carts.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.ShoppingCart, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]models.ShoppingCart, error)
	FindByUserAndRestaurant(ctx context.Context, userID uuid.UUID, restaurantTmplID int) (*models.ShoppingCart, error)
	FindOrCreate(ctx context.Context, userID uuid.UUID, restaurantTmplID int) (*models.ShoppingCart, error)
	SaveDeliveryResolution(ctx context.Context, cart *models.ShoppingCart) error
}

// LineRepository defines the persistence surface for cart lines.
type LineRepository interface {
	WithTx(tx *gorm.DB) LineRepository
	ListByCart(ctx context.Context, cartID uuid.UUID) ([]models.ShoppingCartLine, error)
	Create(ctx context.Context, line *models.ShoppingCartLine) (*models.ShoppingCartLine, error)
}

// PriceLookup fetches product prices from the catalog.
type PriceLookup interface {
	GetPrices(ctx context.Context, ids []int) ([]catalog.ProductPrice, error)
}

// RestaurantDirectory resolves restaurant positions and cards. A nil point
// means the position is unknown.
type RestaurantDirectory interface {
	GetLatLng(ctx context.Context, restaurantTmplID int) (*types.GeographyPoint, error)
	GetResumes(ctx context.Context, ids []int) ([]restaurants.Resume, error)
}

// AddressBook reads the current user's delivery addresses.
type AddressBook interface {
	GetAddress(ctx context.Context, addressID int) (*users.Address, error)
	GetDefaultAddress(ctx context.Context) (*users.DefaultAddress, error)
}

// DistanceCalculator measures the distance between two points in whole meters, rounded up.
type DistanceCalculator interface {
	DistanceMeters(ctx context.Context, from, to types.GeographyPoint) (int, error)
}
