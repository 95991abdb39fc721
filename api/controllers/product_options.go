package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopkeeper-dev/storefront-backend/api/responses"
	"github.com/shopkeeper-dev/storefront-backend/api/validators"
	"github.com/shopkeeper-dev/storefront-backend/internal/products"
	pkgerrors "github.com/shopkeeper-dev/storefront-backend/pkg/errors"
	"github.com/shopkeeper-dev/storefront-backend/pkg/logger"
)

// Prices arrive as raw JSON so a non-numeric value 422s under the price key
// instead of surfacing as an unreadable body.
type createOptionRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Option    string          `json:"option" validate:"required,max=255"`
	Name      string          `json:"name" validate:"required,max=255"`
	Quantity  int             `json:"quantity" validate:"gte=0"`
	Price     json.RawMessage `json:"price" validate:"required"`
}

type updateOptionRequest struct {
	Option   *string         `json:"option" validate:"omitempty,max=255"`
	Name     *string         `json:"name" validate:"omitempty,max=255"`
	Quantity *int            `json:"quantity" validate:"omitempty,gte=0"`
	Price    json.RawMessage `json:"price"`
}

// parsePriceField accepts a JSON number or a numeric string, the same shapes
// Laravel's numeric rule admits.
func parsePriceField(raw json.RawMessage) (decimal.Decimal, error) {
	value := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	price, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string][]string{"price": {"The price must be a number."}})
	}
	return price, nil
}

func priceProvided(raw json.RawMessage) bool {
	return len(raw) > 0 && strings.TrimSpace(string(raw)) != "null"
}

// ProductOptionCreate adds one variant row to an existing product. Admin only.
func ProductOptionCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var req createOptionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		price, err := parsePriceField(req.Price)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		opt, err := svc.CreateOption(ctx, products.CreateOptionInput{
			ProductID: req.ProductID,
			Option:    req.Option,
			Name:      req.Name,
			Quantity:  req.Quantity,
			Price:     price,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, responses.Payload{
			"message": "Product Option created successfully",
			"option":  opt,
		})
	}
}

// ProductOptionUpdate mutates a variant row. Fields left out of the payload
// keep their stored values. Admin only.
func ProductOptionUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
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

		var req updateOptionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var price *decimal.Decimal
		if priceProvided(req.Price) {
			parsed, perr := parsePriceField(req.Price)
			if perr != nil {
				responses.WriteError(ctx, logg, w, perr)
				return
			}
			price = &parsed
		}

		opt, err := svc.UpdateOption(ctx, id, products.UpdateOptionInput{
			Option:   req.Option,
			Name:     req.Name,
			Quantity: req.Quantity,
			Price:    price,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{
			"message": "Product Option updated successfully",
			"option":  opt,
		})
	}
}

// ProductOptionDelete removes a variant row and returns it. Admin only.
func ProductOptionDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
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

		opt, err := svc.DeleteOption(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{
			"message": "Product Option deleted successfully",
			"option":  opt,
		})
	}
}
