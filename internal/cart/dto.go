package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopkeeper-dev/storefront-backend/pkg/db/models"
	"github.com/shopkeeper-dev/storefront-backend/pkg/types"
)

// CartDTO is the transport shape for a user's cart.
type CartDTO struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Items     []CartItemDTO `json:"items"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// CartItemDTO is one line inside a cart.
type CartItemDTO struct {
	ID        uuid.UUID              `json:"id"`
	CartID    uuid.UUID              `json:"cart_id"`
	ProductID uuid.UUID              `json:"product_id"`
	Quantity  int                    `json:"quantity"`
	Options   types.OptionSelections `json:"options"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// AddItemInput holds the validated payload to add a line to the caller's cart.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Options   types.OptionSelections
}

func FromModel(c *models.Cart) *CartDTO {
	if c == nil {
		return nil
	}
	return &CartDTO{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     itemsFromModels(c.Items),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ItemFromModel(i *models.CartItem) *CartItemDTO {
	if i == nil {
		return nil
	}
	options := i.Options
	if options == nil {
		options = types.OptionSelections{}
	}
	return &CartItemDTO{
		ID:        i.ID,
		CartID:    i.CartID,
		ProductID: i.ProductID,
		Quantity:  i.Quantity,
		Options:   options,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

func itemsFromModels(items []models.CartItem) []CartItemDTO {
	out := make([]CartItemDTO, 0, len(items))
	for i := range items {
		out = append(out, *ItemFromModel(&items[i]))
	}
	return out
}
