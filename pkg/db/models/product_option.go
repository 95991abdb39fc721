package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductOption is one concrete value inside a product's option group,
// e.g. option "Color" with name "Red".
type ProductOption struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	Option    string          `gorm:"column:option;size:255;not null" json:"option"`
	Name      string          `gorm:"column:name;size:255;not null" json:"name"`
	Quantity  int             `gorm:"column:quantity;not null;default:0" json:"quantity"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (o *ProductOption) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName pins the legacy table name.
func (ProductOption) TableName() string {
	return "product_options"
}
