package shoppingcart

import (
	"context"

	"github.com/angelmondragon/shoppingcart/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LineRepo persists cart lines.
type LineRepo struct {
	db *gorm.DB
}

func NewLineRepository(db *gorm.DB) *LineRepo {
	return &LineRepo{db: db}
}

func (r *LineRepo) WithTx(tx *gorm.DB) LineRepository {
	if tx == nil {
		return r
	}
	return &LineRepo{db: tx}
}

// ListByCart returns the cart's lines in insertion order.
func (r *LineRepo) ListByCart(ctx context.Context, cartID uuid.UUID) ([]models.ShoppingCartLine, error) {
	var lines []models.ShoppingCartLine
	err := r.db.WithContext(ctx).
		Where("shopping_cart_uuid = ?", cartID).
		Order("created_at ASC, id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *LineRepo) Create(ctx context.Context, line *models.ShoppingCartLine) (*models.ShoppingCartLine, error) {
	if err := r.db.WithContext(ctx).Create(line).Error; err != nil {
		return nil, err
	}
	return line, nil
}
