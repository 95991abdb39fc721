package products

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
	"github.com/shopkeeper-dev/storefront-backend/pkg/pagination"
)

const storageNamespace = "products"

const (
	productNotFoundMessage  = "Product with id not found"
	categoryNotFoundMessage = "Category with id not found"
	optionNotFoundMessage   = "Product Option with id not found"
	imageNotFoundMessage    = "Product Image with id not found"
)

// Service exposes product, option and image management operations.
type Service interface {
	List(ctx context.Context, params pagination.Params) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) (*ProductDTO, error)

	CreateOption(ctx context.Context, input CreateOptionInput) (*OptionDTO, error)
	UpdateOption(ctx context.Context, id uuid.UUID, input UpdateOptionInput) (*OptionDTO, error)
	DeleteOption(ctx context.Context, id uuid.UUID) (*OptionDTO, error)

	ReplaceImage(ctx context.Context, imageID uuid.UUID, image FileUpload) (*ImageDTO, error)
}

type categoryLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type blobStore interface {
	Put(namespace, filename string, r io.Reader) (string, error)
	Delete(relPath string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo       *Repository
	categories categoryLoader
	blobs      blobStore
	tx         txRunner
}

// ServiceParams bundles the dependencies required to build a product service.
type ServiceParams struct {
	Repo         *Repository
	CategoryRepo categoryLoader
	Blobs        blobStore
	TxRunner     txRunner
}

// NewService constructs a product service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.CategoryRepo == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	if params.Blobs == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	return &service{
		repo:       params.Repo,
		categories: params.CategoryRepo,
		blobs:      params.Blobs,
		tx:         params.TxRunner,
	}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	// No pagination inputs means the whole catalog in one response.
	if params.Limit <= 0 && strings.TrimSpace(params.Cursor) == "" {
		prods, err := s.repo.List(ctx, nil, 0)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
		}
		return &ListResult{Products: fromModels(prods)}, nil
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed").
			WithDetails(map[string][]string{"cursor": {"The cursor is invalid."}})
	}

	limit := pagination.NormalizeLimit(params.Limit)
	prods, err := s.repo.List(ctx, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	result := &ListResult{}
	if len(prods) > limit {
		prods = prods[:limit]
		last := prods[len(prods)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	result.Products = fromModels(prods)
	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, productNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return FromModel(product), nil
}

// Create checks the category once, stores the uploaded blobs, then writes the
// product row plus flattened option rows plus image rows in one transaction.
func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	paths, err := s.storeImages(input.Images)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Brand:       strings.TrimSpace(input.Brand),
		Description: input.Description,
		CategoryID:  input.CategoryID,
	}

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.Create(ctx, product); err != nil {
			return err
		}
		if err := repo.CreateOptions(ctx, flattenOptionGroups(product.ID, input.Options)); err != nil {
			return err
		}
		return repo.CreateImages(ctx, imageRows(product.ID, paths))
	})
	if txErr != nil {
		s.discardBlobs(paths)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "create product")
	}

	return s.Get(ctx, product.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil && *input.CategoryID != product.CategoryID {
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *input.CategoryID
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Brand != nil {
		product.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}

	if _, err := s.repo.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	dto, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return dto, nil
}

func (s *service) CreateOption(ctx context.Context, input CreateOptionInput) (*OptionDTO, error) {
	if _, err := s.findProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}

	opt := models.ProductOption{
		ProductID: input.ProductID,
		Option:    strings.TrimSpace(input.Option),
		Name:      strings.TrimSpace(input.Name),
		Quantity:  input.Quantity,
		Price:     input.Price,
	}
	if err := s.repo.CreateOptions(ctx, []models.ProductOption{opt}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product option")
	}
	return s.findOptionDTO(ctx, opt.ID)
}

func (s *service) UpdateOption(ctx context.Context, id uuid.UUID, input UpdateOptionInput) (*OptionDTO, error) {
	opt, err := s.findOption(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Option != nil {
		opt.Option = strings.TrimSpace(*input.Option)
	}
	if input.Name != nil {
		opt.Name = strings.TrimSpace(*input.Name)
	}
	if input.Quantity != nil {
		opt.Quantity = *input.Quantity
	}
	if input.Price != nil {
		opt.Price = *input.Price
	}

	saved, err := s.repo.SaveOption(ctx, opt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product option")
	}
	return OptionFromModel(saved), nil
}

func (s *service) DeleteOption(ctx context.Context, id uuid.UUID) (*OptionDTO, error) {
	opt, err := s.findOption(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteOption(ctx, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product option")
	}
	return OptionFromModel(opt), nil
}

// ReplaceImage swaps the stored blob for an existing image row. The old blob
// is removed first; the row is only updated after a successful write.
func (s *service) ReplaceImage(ctx context.Context, imageID uuid.UUID, image FileUpload) (*ImageDTO, error) {
	img, err := s.repo.FindImageByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, imageNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product image")
	}

	if img.URL != "" {
		if err := s.blobs.Delete(img.URL); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete old image")
		}
	}

	path, err := s.blobs.Put(storageNamespace, image.Filename, image.Content)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store product image")
	}

	img.URL = path
	saved, err := s.repo.SaveImage(ctx, img)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product image")
	}
	return ImageFromModel(saved), nil
}

func (s *service) ensureCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, categoryNotFoundMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup category")
	}
	return nil
}

func (s *service) findProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, productNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	return product, nil
}

func (s *service) findOption(ctx context.Context, id uuid.UUID) (*models.ProductOption, error) {
	opt, err := s.repo.FindOptionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, optionNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product option")
	}
	return opt, nil
}

func (s *service) findOptionDTO(ctx context.Context, id uuid.UUID) (*OptionDTO, error) {
	opt, err := s.findOption(ctx, id)
	if err != nil {
		return nil, err
	}
	return OptionFromModel(opt), nil
}

func (s *service) storeImages(uploads []FileUpload) ([]string, error) {
	paths := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		path, err := s.blobs.Put(storageNamespace, upload.Filename, upload.Content)
		if err != nil {
			s.discardBlobs(paths)
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store product image")
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// discardBlobs is best effort; a failed cleanup only leaks a file.
func (s *service) discardBlobs(paths []string) {
	for _, path := range paths {
		_ = s.blobs.Delete(path)
	}
}

func flattenOptionGroups(productID uuid.UUID, groups []OptionGroupInput) []models.ProductOption {
	var rows []models.ProductOption
	for _, group := range groups {
		title := strings.TrimSpace(group.Title)
		for _, value := range group.Values {
			rows = append(rows, models.ProductOption{
				ProductID: productID,
				Option:    title,
				Name:      strings.TrimSpace(value.Name),
				Quantity:  value.Quantity,
				Price:     value.Price,
			})
		}
	}
	return rows
}

func imageRows(productID uuid.UUID, paths []string) []models.ProductImage {
	rows := make([]models.ProductImage, 0, len(paths))
	for _, path := range paths {
		rows = append(rows, models.ProductImage{
			ProductID: productID,
			URL:       path,
		})
	}
	return rows
}
