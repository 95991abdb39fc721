package categories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopkeeper-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/shopkeeper-dev/storefront-backend/pkg/errors"
)

const storageNamespace = "categories"

const notFoundMessage = "Category with id not found"

// Service exposes category management operations.
type Service interface {
	List(ctx context.Context) ([]CategoryDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	Create(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	UpdateImage(ctx context.Context, id uuid.UUID, image FileUpload) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
}

type categoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, cat *models.Category) (*models.Category, error)
	Save(ctx context.Context, cat *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type blobStore interface {
	Put(namespace, filename string, r io.Reader) (string, error)
	Delete(relPath string) error
}

type service struct {
	repo  categoryRepository
	blobs blobStore
}

// ServiceParams bundles the dependencies required to build a category service.
type ServiceParams struct {
	Repo  categoryRepository
	Blobs blobStore
}

// NewService constructs a category service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	if params.Blobs == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	return &service{repo: params.Repo, blobs: params.Blobs}, nil
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return fromModels(cats), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	cat, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(cat), nil
}

func (s *service) Create(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	path, err := s.blobs.Put(storageNamespace, input.Image.Filename, input.Image.Content)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store category image")
	}

	cat, err := s.repo.Create(ctx, &models.Category{
		Name:  strings.TrimSpace(input.Name),
		Image: path,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return FromModel(cat), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	cat, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		cat.Name = strings.TrimSpace(*input.Name)
	}

	saved, err := s.repo.Save(ctx, cat)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
	}
	return FromModel(saved), nil
}

// UpdateImage replaces the stored blob. The old file is removed first, so a
// crash between delete and write can leave the row pointing at a missing
// path; the row itself only changes after a successful write.
func (s *service) UpdateImage(ctx context.Context, id uuid.UUID, image FileUpload) (*CategoryDTO, error) {
	cat, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if cat.Image != "" {
		if err := s.blobs.Delete(cat.Image); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete old image")
		}
	}

	path, err := s.blobs.Put(storageNamespace, image.Filename, image.Content)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store category image")
	}

	cat.Image = path
	saved, err := s.repo.Save(ctx, cat)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category image")
	}
	return FromModel(saved), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	cat, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	return FromModel(cat), nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	cat, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup category")
	}
	return cat, nil
}
