package categories

import (
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/shopkeeper-dev/storefront-backend/pkg/db/models"
)

// CategoryDTO is the transport shape for a catalog category.
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileUpload carries a validated image stream into the service layer.
type FileUpload struct {
	Filename string
	Content  io.Reader
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name  string
	Image FileUpload
}

// UpdateCategoryInput holds optional mutation values; nil fields keep the
// stored values.
type UpdateCategoryInput struct {
	Name *string
}

func FromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		Image:     c.Image,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func fromModels(cats []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(cats))
	for i := range cats {
		out = append(out, *FromModel(&cats[i]))
	}
	return out
}
