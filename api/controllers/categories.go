package controllers

import (
	"net/http"

	"github.com/shopkeeper-dev/storefront-backend/api/responses"
	"github.com/shopkeeper-dev/storefront-backend/api/validators"
	"github.com/shopkeeper-dev/storefront-backend/internal/categories"
	"github.com/shopkeeper-dev/storefront-backend/pkg/config"
	pkgerrors "github.com/shopkeeper-dev/storefront-backend/pkg/errors"
	"github.com/shopkeeper-dev/storefront-backend/pkg/logger"
)

type createCategoryRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type updateCategoryRequest struct {
	Name *string `json:"name" validate:"omitempty,max=255"`
}

// CategoryList returns every category. Public.
func CategoryList(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		cats, err := svc.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{"categories": cats})
	}
}

// CategoryShow returns a single category. Public.
func CategoryShow(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		cat, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{"category": cat})
	}
}

// CategoryCreate accepts multipart form data with a name field and an image
// file. Admin only.
func CategoryCreate(svc categories.Service, cfg config.StorageConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		form, err := validators.DecodeMultipartForm(r, cfg.MaxUploadMB)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		req := createCategoryRequest{Name: form.Value("name")}
		if err := validators.ValidateStruct(&req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		upload, err := form.Image("image")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if upload == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string][]string{"image": {"The image field is required."}}))
			return
		}

		file, err := upload.Open()
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open upload"))
			return
		}
		defer file.Close()

		cat, err := svc.Create(ctx, categories.CreateCategoryInput{
			Name:  req.Name,
			Image: categories.FileUpload{Filename: upload.Filename, Content: file},
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, responses.Payload{"category": cat})
	}
}

// CategoryUpdate renames a category. Fields left out of the payload keep
// their stored values. Admin only.
func CategoryUpdate(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req updateCategoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		cat, err := svc.Update(ctx, id, categories.UpdateCategoryInput{Name: req.Name})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{"category": cat})
	}
}

// CategoryUpdateImage swaps the category image for a new upload. Admin only.
func CategoryUpdateImage(svc categories.Service, cfg config.StorageConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		form, err := validators.DecodeMultipartForm(r, cfg.MaxUploadMB)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		upload, err := form.Image("image")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if upload == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string][]string{"image": {"The image field is required."}}))
			return
		}

		file, err := upload.Open()
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open upload"))
			return
		}
		defer file.Close()

		cat, err := svc.UpdateImage(ctx, id, categories.FileUpload{Filename: upload.Filename, Content: file})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{
			"message":  "Image updated successfully",
			"category": cat,
		})
	}
}

// CategoryDelete removes a category and returns the deleted record. Admin only.
func CategoryDelete(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		cat, err := svc.Delete(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{"category": cat})
	}
}
