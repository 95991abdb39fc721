package products

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopkeeper-dev/storefront-backend/internal/categories"
	"github.com/shopkeeper-dev/storefront-backend/pkg/db/models"
)

// ProductDTO is the transport shape for a catalog product.
type ProductDTO struct {
	ID          uuid.UUID               `json:"id"`
	Name        string                  `json:"name"`
	Brand       string                  `json:"brand"`
	Description string                  `json:"description"`
	CategoryID  uuid.UUID               `json:"category_id"`
	Category    *categories.CategoryDTO `json:"category,omitempty"`
	Options     []OptionDTO             `json:"options"`
	Images      []ImageDTO              `json:"images"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// OptionDTO is one SKU variant row: the group label plus a concrete value.
type OptionDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Option    string          `json:"option"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ImageDTO is a stored product image reference.
type ImageDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileUpload carries a validated image stream into the service layer.
type FileUpload struct {
	Filename string
	Content  io.Reader
}

// OptionValueInput is one concrete value inside an option group.
type OptionValueInput struct {
	Name     string          `json:"name" validate:"required,max=255"`
	Quantity int             `json:"quantity" validate:"gte=0"`
	Price    decimal.Decimal `json:"price"`
}

// OptionGroupInput is the nested payload shape: a titled group of values.
// Groups are flattened into one row per value at creation time.
type OptionGroupInput struct {
	Title  string             `json:"title" validate:"required,max=255"`
	Values []OptionValueInput `json:"values" validate:"required,min=1,dive"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Brand       string
	Description string
	CategoryID  uuid.UUID
	Options     []OptionGroupInput
	Images      []FileUpload
}

// UpdateProductInput holds optional mutation values; nil fields keep the
// stored values.
type UpdateProductInput struct {
	Name        *string
	Brand       *string
	Description *string
	CategoryID  *uuid.UUID
}

// CreateOptionInput adds one variant row to an existing product.
type CreateOptionInput struct {
	ProductID uuid.UUID
	Option    string
	Name      string
	Quantity  int
	Price     decimal.Decimal
}

// UpdateOptionInput holds optional mutation values for a variant row.
type UpdateOptionInput struct {
	Option   *string
	Name     *string
	Quantity *int
	Price    *decimal.Decimal
}

// ListResult carries a page of products plus the cursor for the next page.
// NextCursor is nil when no further rows exist.
type ListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}

	dto := &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Category:    categories.FromModel(p.Category),
		Options:     optionsFromModels(p.Options),
		Images:      imagesFromModels(p.Images),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	return dto
}

func OptionFromModel(o *models.ProductOption) *OptionDTO {
	if o == nil {
		return nil
	}
	return &OptionDTO{
		ID:        o.ID,
		ProductID: o.ProductID,
		Option:    o.Option,
		Name:      o.Name,
		Quantity:  o.Quantity,
		Price:     o.Price,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func ImageFromModel(img *models.ProductImage) *ImageDTO {
	if img == nil {
		return nil
	}
	return &ImageDTO{
		ID:        img.ID,
		ProductID: img.ProductID,
		URL:       img.URL,
		CreatedAt: img.CreatedAt,
		UpdatedAt: img.UpdatedAt,
	}
}

func fromModels(prods []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(prods))
	for i := range prods {
		out = append(out, *FromModel(&prods[i]))
	}
	return out
}

func optionsFromModels(opts []models.ProductOption) []OptionDTO {
	out := make([]OptionDTO, 0, len(opts))
	for i := range opts {
		out = append(out, *OptionFromModel(&opts[i]))
	}
	return out
}

func imagesFromModels(imgs []models.ProductImage) []ImageDTO {
	out := make([]ImageDTO, 0, len(imgs))
	for i := range imgs {
		out = append(out, *ImageFromModel(&imgs[i]))
	}
	return out
}
