package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopkeeper-dev/storefront-backend/pkg/db/models"
	"github.com/shopkeeper-dev/storefront-backend/pkg/pagination"
)

// Repository wires together product, option and image persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetDetail loads the product with its category, options and images.
func (r *Repository) GetDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Options").
		Preload("Images").
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns products with associations, keyset-paginated when a cursor or
// limit is supplied. A limit of zero returns every row.
func (r *Repository) List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	q := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Options").
		Preload("Images").
		Order("created_at ASC, id ASC")

	if cursor != nil {
		q = q.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts the product row only; options and images are created
// separately so the caller controls the transaction boundary.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Category", "Options", "Images").Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Save persists all scalar fields of an existing product.
func (r *Repository) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Category", "Options", "Images").Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes the product row. Option, image and cart item rows go with it
// via the schema's cascade rules.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// CreateOptions inserts variant rows in bulk.
func (r *Repository) CreateOptions(ctx context.Context, opts []models.ProductOption) error {
	if len(opts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&opts).Error
}

// CreateImages inserts image rows in bulk.
func (r *Repository) CreateImages(ctx context.Context, imgs []models.ProductImage) error {
	if len(imgs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&imgs).Error
}

// FindOptionByID loads a single variant row.
func (r *Repository) FindOptionByID(ctx context.Context, id uuid.UUID) (*models.ProductOption, error) {
	var opt models.ProductOption
	if err := r.db.WithContext(ctx).First(&opt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &opt, nil
}

// SaveOption persists all fields of an existing variant row.
func (r *Repository) SaveOption(ctx context.Context, opt *models.ProductOption) (*models.ProductOption, error) {
	if err := r.db.WithContext(ctx).Save(opt).Error; err != nil {
		return nil, err
	}
	return opt, nil
}

// DeleteOption removes a variant row.
func (r *Repository) DeleteOption(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ProductOption{}, "id = ?", id).Error
}

// FindImageByID loads a single image row.
func (r *Repository) FindImageByID(ctx context.Context, id uuid.UUID) (*models.ProductImage, error) {
	var img models.ProductImage
	if err := r.db.WithContext(ctx).First(&img, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

// SaveImage persists all fields of an existing image row.
func (r *Repository) SaveImage(ctx context.Context, img *models.ProductImage) (*models.ProductImage, error) {
	if err := r.db.WithContext(ctx).Save(img).Error; err != nil {
		return nil, err
	}
	return img, nil
}
