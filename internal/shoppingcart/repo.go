package shoppingcart

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/shoppingcart/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shoppingcart/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const lineCountSelect = "shopping_cart.*, (SELECT COUNT(*) FROM shopping_cart_line l WHERE l.shopping_cart_uuid = shopping_cart.id) AS line_count"

// Repository exposes persistence operations for shopping carts.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByIDForUpdate loads a cart and locks its row until the surrounding
// transaction ends. Returns gorm.ErrRecordNotFound when absent.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.ShoppingCart, error) {
	var cart models.ShoppingCart
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindByUser lists the user's carts with their line counts.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.ShoppingCart, error) {
	var carts []models.ShoppingCart
	err := r.db.WithContext(ctx).
		Model(&models.ShoppingCart{}).
		Select(lineCountSelect).
		Where("user_uuid = ?", userID).
		Order("shopping_cart.id").
		Find(&carts).Error
	if err != nil {
		return nil, err
	}
	return carts, nil
}

// FindByUserAndRestaurant returns the user's cart for a restaurant, or gorm.ErrRecordNotFound.
func (r *Repository) FindByUserAndRestaurant(ctx context.Context, userID uuid.UUID, restaurantTmplID int) (*models.ShoppingCart, error) {
	var cart models.ShoppingCart
	err := r.db.WithContext(ctx).
		Where("user_uuid = ? AND restaurant_tmpl_id = ?", userID, restaurantTmplID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindOrCreate returns the user's cart for a restaurant, creating it when
// missing. A cart inserted concurrently by another request is re-read.
func (r *Repository) FindOrCreate(ctx context.Context, userID uuid.UUID, restaurantTmplID int) (*models.ShoppingCart, error) {
	cart, err := r.FindByUserAndRestaurant(ctx, userID, restaurantTmplID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = &models.ShoppingCart{UserID: userID, RestaurantTmplID: restaurantTmplID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(cart)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return r.FindByUserAndRestaurant(ctx, userID, restaurantTmplID)
	}
	return cart, nil
}

// SaveDeliveryResolution persists the adjustments and address id of a cart if
// nobody changed it since it was read. The cart's version is bumped on success.
func (r *Repository) SaveDeliveryResolution(ctx context.Context, cart *models.ShoppingCart) error {
	res := r.db.WithContext(ctx).
		Model(&models.ShoppingCart{}).
		Where("id = ? AND version = ?", cart.ID, cart.Version).
		Updates(map[string]any{
			"adjustments":     cart.Adjustments,
			"user_address_id": cart.UserAddressID,
			"version":         gorm.Expr("version + 1"),
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "shopping cart was modified concurrently")
	}
	cart.Version++
	return nil
}
