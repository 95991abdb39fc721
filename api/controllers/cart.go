package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/shopkeeper-dev/storefront-backend/api/middleware"
	"github.com/shopkeeper-dev/storefront-backend/api/responses"
	"github.com/shopkeeper-dev/storefront-backend/api/validators"
	"github.com/shopkeeper-dev/storefront-backend/internal/cart"
	pkgerrors "github.com/shopkeeper-dev/storefront-backend/pkg/errors"
	"github.com/shopkeeper-dev/storefront-backend/pkg/logger"
	"github.com/shopkeeper-dev/storefront-backend/pkg/types"
)

// Options must be present but may be an empty array, the same contract as
// Laravel's required|array pair.
type addCartItemRequest struct {
	ProductID uuid.UUID              `json:"product_id" validate:"required"`
	Quantity  int                    `json:"quantity" validate:"required,gte=1"`
	Options   types.OptionSelections `json:"options" validate:"required"`
}

type updateCartOptionsRequest struct {
	Options types.OptionSelections `json:"options" validate:"required"`
}

type updateCartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// CartItemCreate adds a line to the caller's cart, creating the cart on
// first use.
func CartItemCreate(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var req addCartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.AddItem(ctx, middleware.ActorFromContext(ctx), cart.AddItemInput{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Options:   req.Options,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{
			"message":  "Item added to cart",
			"cartItem": item,
		})
	}
}

// CartItemUpdate replaces a line's option selection wholesale.
func CartItemUpdate(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req updateCartOptionsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.UpdateItemOptions(ctx, middleware.ActorFromContext(ctx), id, req.Options)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{
			"message":  "Item updated successfully",
			"cartItem": item,
		})
	}
}

// CartItemUpdateQuantity changes a line's quantity.
func CartItemUpdateQuantity(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req updateCartQuantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.UpdateItemQuantity(ctx, middleware.ActorFromContext(ctx), id, req.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{
			"message":  "Item updated successfully",
			"cartItem": item,
		})
	}
}

// CartItemDelete removes a line and returns it.
func CartItemDelete(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.RemoveItem(ctx, middleware.ActorFromContext(ctx), id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{
			"message":  "Item removed from cart",
			"cartItem": item,
		})
	}
}

// CartDelete removes an entire cart. The owner may always do this; admins may
// clear any user's cart.
func CartDelete(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		deleted, err := svc.DeleteCart(ctx, middleware.ActorFromContext(ctx), id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{"cart": deleted})
	}
}
