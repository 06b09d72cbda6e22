package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ShoppingCartLine is one product (with its selected attribute values) in a cart.
type ShoppingCartLine struct {
	ID             uuid.UUID     `gorm:"column:id;type:uuid;primaryKey"`
	ShoppingCartID uuid.UUID     `gorm:"column:shopping_cart_uuid;type:uuid;not null;index"`
	ProductTmplID  int           `gorm:"column:product_tmpl_id;not null"`
	Qty            int16         `gorm:"column:qty;not null"`
	AttrValueIDs   pq.Int64Array `gorm:"column:attr_value_ids;type:integer[]"`
	CreatedAt      time.Time     `gorm:"column:created_at;autoCreateTime"`
}

func (ShoppingCartLine) TableName() string {
	return "shopping_cart_line"
}

func (l *ShoppingCartLine) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
