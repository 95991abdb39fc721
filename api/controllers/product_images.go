package controllers

import (
	"net/http"

	"github.com/shopkeeper-dev/storefront-backend/api/responses"
	"github.com/shopkeeper-dev/storefront-backend/api/validators"
	"github.com/shopkeeper-dev/storefront-backend/internal/products"
	"github.com/shopkeeper-dev/storefront-backend/pkg/config"
	pkgerrors "github.com/shopkeeper-dev/storefront-backend/pkg/errors"
	"github.com/shopkeeper-dev/storefront-backend/pkg/logger"
)

// ProductImageUpdate swaps the stored file behind an existing image row.
// Admin only.
func ProductImageUpdate(svc products.Service, cfg config.StorageConfig, logg *logger.Logger) http.HandlerFunc {
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

		img, err := svc.ReplaceImage(ctx, id, products.FileUpload{Filename: upload.Filename, Content: file})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{
			"message": "Image updated successfully",
			"url":     img.URL,
		})
	}
}
