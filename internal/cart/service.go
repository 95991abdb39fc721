package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopkeeper-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/shopkeeper-dev/storefront-backend/pkg/errors"
	"github.com/shopkeeper-dev/storefront-backend/pkg/types"
)

const (
	cartNotFoundMessage = "Cart with id not found"
	itemNotFoundMessage = "Cart Item with id not found"
	forbiddenMessage    = "Unauthorized Request"
)

// Service exposes cart line management for the authenticated caller.
type Service interface {
	AddItem(ctx context.Context, actor types.Actor, input AddItemInput) (*CartItemDTO, error)
	UpdateItemOptions(ctx context.Context, actor types.Actor, itemID uuid.UUID, options types.OptionSelections) (*CartItemDTO, error)
	UpdateItemQuantity(ctx context.Context, actor types.Actor, itemID uuid.UUID, quantity int) (*CartItemDTO, error)
	RemoveItem(ctx context.Context, actor types.Actor, itemID uuid.UUID) (*CartItemDTO, error)
	DeleteCart(ctx context.Context, actor types.Actor, cartID uuid.UUID) (*CartDTO, error)
}

type service struct {
	repo *Repository
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	Repo *Repository
}

// NewService constructs a cart service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	return &service{repo: params.Repo}, nil
}

// AddItem appends a new line to the caller's cart, creating the cart on first
// use. Adding the same product twice yields two rows; lines are never merged.
func (s *service) AddItem(ctx context.Context, actor types.Actor, input AddItemInput) (*CartItemDTO, error) {
	exists, err := s.repo.ProductExists(ctx, input.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string][]string{"product_id": {"The selected product id is invalid."}})
	}

	cart, err := s.findOrCreateCart(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	options := input.Options
	if options == nil {
		options = types.OptionSelections{}
	}

	item, err := s.repo.CreateItem(ctx, &models.CartItem{
		CartID:    cart.ID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Options:   options,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart item")
	}
	return ItemFromModel(item), nil
}

// UpdateItemOptions replaces the stored selection wholesale. The ids are
// shape-checked upstream but never cross-checked against the product's real
// option rows.
func (s *service) UpdateItemOptions(ctx context.Context, actor types.Actor, itemID uuid.UUID, options types.OptionSelections) (*CartItemDTO, error) {
	item, err := s.findOwnedItem(ctx, actor, itemID)
	if err != nil {
		return nil, err
	}

	if options == nil {
		options = types.OptionSelections{}
	}
	item.Options = options

	saved, err := s.repo.SaveItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}
	return ItemFromModel(saved), nil
}

func (s *service) UpdateItemQuantity(ctx context.Context, actor types.Actor, itemID uuid.UUID, quantity int) (*CartItemDTO, error) {
	item, err := s.findOwnedItem(ctx, actor, itemID)
	if err != nil {
		return nil, err
	}

	item.Quantity = quantity

	saved, err := s.repo.SaveItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}
	return ItemFromModel(saved), nil
}

func (s *service) RemoveItem(ctx context.Context, actor types.Actor, itemID uuid.UUID) (*CartItemDTO, error) {
	item, err := s.findOwnedItem(ctx, actor, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart item")
	}
	return ItemFromModel(item), nil
}

// DeleteCart empties and removes the cart. The owner may always do this;
// admins may clear any user's cart.
func (s *service) DeleteCart(ctx context.Context, actor types.Actor, cartID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.FindCartByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, cartNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup cart")
	}

	if cart.UserID != actor.ID && !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, forbiddenMessage)
	}

	if err := s.repo.DeleteCart(ctx, cartID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart")
	}
	return FromModel(cart), nil
}

func (s *service) findOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindCartByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup cart")
	}

	created, err := s.repo.CreateCart(ctx, &models.Cart{UserID: userID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
	}
	return created, nil
}

// findOwnedItem enforces strict ownership on line rows: only the cart's owner
// may touch them, admin roles included.
func (s *service) findOwnedItem(ctx context.Context, actor types.Actor, itemID uuid.UUID) (*models.CartItem, error) {
	item, err := s.repo.FindItemWithCart(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, itemNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup cart item")
	}

	if item.Cart == nil || item.Cart.UserID != actor.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, forbiddenMessage)
	}
	return item, nil
}
