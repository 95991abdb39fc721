package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopkeeper-dev/storefront-backend/pkg/types"
)

// CartItem is one (product, quantity, option-selection) line inside a cart.
// The options list is stored as-is; it is shape-validated on write but never
// cross-checked against the product's real option set.
type CartItem struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CartID    uuid.UUID              `gorm:"column:cart_id;type:uuid;not null" json:"cart_id"`
	Cart      *Cart                  `gorm:"foreignKey:CartID" json:"-"`
	ProductID uuid.UUID              `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	Quantity  int                    `gorm:"column:quantity;not null" json:"quantity"`
	Options   types.OptionSelections `gorm:"column:options;type:jsonb;serializer:json" json:"options"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (i *CartItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName pins the legacy table name.
func (CartItem) TableName() string {
	return "cart_items"
}
