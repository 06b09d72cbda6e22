package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/shoppingcart/pkg/types"
)

// ShoppingCart groups the lines a user added for a single restaurant.
type ShoppingCart struct {
	ID               uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID           uuid.UUID         `gorm:"column:user_uuid;type:uuid;not null;uniqueIndex:ux_shopping_cart_user_restaurant"`
	RestaurantTmplID int               `gorm:"column:restaurant_tmpl_id;not null;uniqueIndex:ux_shopping_cart_user_restaurant"`
	UserAddressID    *int              `gorm:"column:user_address_id"`
	Adjustments      types.Adjustments `gorm:"column:adjustments;type:jsonb;not null;default:'[]'"`
	Version          int64             `gorm:"column:version;not null;default:0"`
	LineCount        int               `gorm:"column:line_count;->;-:migration"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (ShoppingCart) TableName() string {
	return "shopping_cart"
}

// BeforeCreate assigns the primary key client-side so sqlite and postgres behave alike.
func (c *ShoppingCart) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Adjustments == nil {
		c.Adjustments = types.Adjustments{}
	}
	return nil
}
