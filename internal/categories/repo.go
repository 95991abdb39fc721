package categories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopkeeper-dev/storefront-backend/pkg/db/models"
)

// Repository exposes category persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a categories repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every category ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

// FindByID loads a category by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var cat models.Category
	if err := r.db.WithContext(ctx).First(&cat, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// Create inserts a new category.
func (r *Repository) Create(ctx context.Context, cat *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(cat).Error; err != nil {
		return nil, err
	}
	return cat, nil
}

// Save persists all fields of an existing category.
func (r *Repository) Save(ctx context.Context, cat *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Save(cat).Error; err != nil {
		return nil, err
	}
	return cat, nil
}

// Delete removes the category row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}
