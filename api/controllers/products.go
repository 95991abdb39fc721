package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/shopkeeper-dev/storefront-backend/api/responses"
	"github.com/shopkeeper-dev/storefront-backend/api/validators"
	"github.com/shopkeeper-dev/storefront-backend/internal/products"
	"github.com/shopkeeper-dev/storefront-backend/pkg/config"
	pkgerrors "github.com/shopkeeper-dev/storefront-backend/pkg/errors"
	"github.com/shopkeeper-dev/storefront-backend/pkg/logger"
	"github.com/shopkeeper-dev/storefront-backend/pkg/pagination"
)

type createProductRequest struct {
	Name        string                      `json:"name" validate:"required,max=255"`
	Brand       string                      `json:"brand" validate:"required,max=255"`
	Description string                      `json:"description" validate:"required"`
	CategoryID  string                      `json:"category_id" validate:"required,uuid"`
	Options     []products.OptionGroupInput `json:"options" validate:"required,min=1,dive"`
}

type updateProductRequest struct {
	Name        *string    `json:"name" validate:"omitempty,max=255"`
	Brand       *string    `json:"brand" validate:"omitempty,max=255"`
	Description *string    `json:"description"`
	CategoryID  *uuid.UUID `json:"category_id"`
}

// ProductList returns the catalog, paginated when limit or cursor query
// params are present. Public.
func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		result, err := svc.List(ctx, pagination.Params{Limit: limit, Cursor: cursor})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		payload := responses.Payload{"products": result.Products}
		if result.NextCursor != nil {
			payload["next_cursor"] = *result.NextCursor
		}
		responses.WriteSuccess(w, payload)
	}
}

// ProductShow returns one product with its category, options and images.
// Public.
func ProductShow(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{"product": product})
	}
}

// ProductCreate accepts multipart form data: text fields, an options part
// holding a JSON array of option groups, and one or more image files. Admin
// only.
func ProductCreate(svc products.Service, cfg config.StorageConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		form, err := validators.DecodeMultipartForm(r, cfg.MaxUploadMB)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		req := createProductRequest{
			Name:        form.Value("name"),
			Brand:       form.Value("brand"),
			Description: form.Value("description"),
			CategoryID:  form.Value("category_id"),
		}
		if err := form.DecodeJSONValue("options", &req.Options); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := validators.ValidateStruct(&req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		uploads, err := form.Images("images")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if len(uploads) == 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string][]string{"images": {"The images field is required."}}))
			return
		}

		files := make([]products.FileUpload, 0, len(uploads))
		for _, upload := range uploads {
			file, err := upload.Open()
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open upload"))
				return
			}
			defer file.Close()
			files = append(files, products.FileUpload{Filename: upload.Filename, Content: file})
		}

		categoryID, _ := uuid.Parse(req.CategoryID)
		product, err := svc.Create(ctx, products.CreateProductInput{
			Name:        req.Name,
			Brand:       req.Brand,
			Description: req.Description,
			CategoryID:  categoryID,
			Options:     req.Options,
			Images:      files,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, responses.Payload{
			"message": "Product created successfully",
			"product": product,
		})
	}
}

// ProductUpdate mutates scalar fields. Fields left out of the payload keep
// their stored values. Admin only.
func ProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req updateProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.Update(ctx, id, products.UpdateProductInput{
			Name:        req.Name,
			Brand:       req.Brand,
			Description: req.Description,
			CategoryID:  req.CategoryID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{
			"message": "Product updated successfully",
			"product": product,
		})
	}
}

// ProductDelete removes a product along with its options, images and any cart
// lines pointing at it. Admin only.
func ProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.Delete(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{
			"message": "Product deleted successfully",
			"product": product,
		})
	}
}
