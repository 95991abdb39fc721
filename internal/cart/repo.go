package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopkeeper-dev/storefront-backend/pkg/db/models"
)

// Repository wires together cart and cart item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindCartByUser loads the user's cart without items.
func (r *Repository) FindCartByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).First(&cart, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindCartByID loads a cart with its items.
func (r *Repository) FindCartByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).Preload("Items").First(&cart, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// CreateCart inserts a new cart row.
func (r *Repository) CreateCart(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// DeleteCart removes the cart row. Item rows go with it via the schema's
// cascade rules.
func (r *Repository) DeleteCart(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Cart{}, "id = ?", id).Error
}

// FindItemWithCart loads one item together with its owning cart, which
// carries the user id needed for ownership checks.
func (r *Repository) FindItemWithCart(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).Preload("Cart").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a new line row.
func (r *Repository) CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if err := r.db.WithContext(ctx).Omit("Cart").Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// SaveItem persists all scalar fields of an existing line row.
func (r *Repository) SaveItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if err := r.db.WithContext(ctx).Omit("Cart").Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a line row.
func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", id).Error
}

// ProductExists reports whether a product row with the given id exists.
func (r *Repository) ProductExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
