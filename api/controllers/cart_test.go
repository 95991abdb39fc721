package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shopkeeper-dev/storefront-backend/api/middleware"
	"github.com/shopkeeper-dev/storefront-backend/internal/cart"
	"github.com/shopkeeper-dev/storefront-backend/pkg/enums"
	"github.com/shopkeeper-dev/storefront-backend/pkg/types"
)

type stubCartService struct {
	addedBy   types.Actor
	added     *cart.AddItemInput
	quantity  int
	optionSet types.OptionSelections
}

func (s *stubCartService) AddItem(_ context.Context, actor types.Actor, input cart.AddItemInput) (*cart.CartItemDTO, error) {
	s.addedBy = actor
	s.added = &input
	return &cart.CartItemDTO{ID: uuid.New(), ProductID: input.ProductID, Quantity: input.Quantity}, nil
}

func (s *stubCartService) UpdateItemOptions(_ context.Context, _ types.Actor, _ uuid.UUID, options types.OptionSelections) (*cart.CartItemDTO, error) {
	s.optionSet = options
	return &cart.CartItemDTO{Options: options}, nil
}

func (s *stubCartService) UpdateItemQuantity(_ context.Context, _ types.Actor, _ uuid.UUID, quantity int) (*cart.CartItemDTO, error) {
	s.quantity = quantity
	return &cart.CartItemDTO{Quantity: quantity}, nil
}

func (s *stubCartService) RemoveItem(context.Context, types.Actor, uuid.UUID) (*cart.CartItemDTO, error) {
	return &cart.CartItemDTO{}, nil
}

func (s *stubCartService) DeleteCart(context.Context, types.Actor, uuid.UUID) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func actorContext(ctx context.Context) context.Context {
	return middleware.WithActor(ctx, types.Actor{ID: uuid.New(), Role: enums.UserRoleCustomer})
}

func withURLParam(req *http.Request, name, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(name, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCartItemCreate(t *testing.T) {
	stub := &stubCartService{}
	productID := uuid.New()
	payload := `{"product_id":"` + productID.String() + `","quantity":2,"options":[{"id":"` + uuid.NewString() + `"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/cart-items", strings.NewReader(payload))
	req = req.WithContext(actorContext(req.Context()))
	rec := httptest.NewRecorder()

	CartItemCreate(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.added == nil || stub.added.ProductID != productID || stub.added.Quantity != 2 {
		t.Fatalf("service not called with payload: %+v", stub.added)
	}
	if stub.addedBy.IsZero() {
		t.Fatal("actor not forwarded from context")
	}
	if len(stub.added.Options) != 1 {
		t.Fatalf("options not forwarded, got %v", stub.added.Options)
	}

	body := decodeBody(t, rec)
	if body["message"] != "Item added to cart" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	if _, ok := body["cartItem"]; !ok {
		t.Fatalf("expected cartItem key, got %v", body)
	}
}

func TestCartItemCreateRequiresOptions(t *testing.T) {
	stub := &stubCartService{}
	payload := `{"product_id":"` + uuid.NewString() + `","quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/cart-items", strings.NewReader(payload))
	req = req.WithContext(actorContext(req.Context()))
	rec := httptest.NewRecorder()

	CartItemCreate(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.added != nil {
		t.Fatal("service should not be called when options are missing")
	}
	body := decodeBody(t, rec)
	fields, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected field error map, got %v", body["error"])
	}
	if _, ok := fields["options"]; !ok {
		t.Fatalf("expected options error, got %v", fields)
	}
}

func TestCartItemCreateAcceptsEmptyOptions(t *testing.T) {
	stub := &stubCartService{}
	payload := `{"product_id":"` + uuid.NewString() + `","quantity":1,"options":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/cart-items", strings.NewReader(payload))
	req = req.WithContext(actorContext(req.Context()))
	rec := httptest.NewRecorder()

	CartItemCreate(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty options array, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.added == nil {
		t.Fatal("service not called")
	}
}

func TestCartItemCreateRejectsZeroQuantity(t *testing.T) {
	payload := `{"product_id":"` + uuid.NewString() + `","quantity":0}`
	req := httptest.NewRequest(http.MethodPost, "/api/cart-items", strings.NewReader(payload))
	req = req.WithContext(actorContext(req.Context()))
	rec := httptest.NewRecorder()

	CartItemCreate(&stubCartService{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestCartItemUpdateQuantity(t *testing.T) {
	stub := &stubCartService{}
	req := httptest.NewRequest(http.MethodPatch, "/api/cart-items/x/quantity", strings.NewReader(`{"quantity":5}`))
	req = withURLParam(req, "id", uuid.NewString())
	req = req.WithContext(actorContext(req.Context()))
	rec := httptest.NewRecorder()

	CartItemUpdateQuantity(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.quantity != 5 {
		t.Fatalf("expected quantity 5 forwarded, got %d", stub.quantity)
	}
}

func TestCartItemUpdateRequiresOptions(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/api/cart-items/x", strings.NewReader(`{}`))
	req = withURLParam(req, "id", uuid.NewString())
	req = req.WithContext(actorContext(req.Context()))
	rec := httptest.NewRecorder()

	CartItemUpdate(&stubCartService{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestCartItemUpdateReplacesOptions(t *testing.T) {
	stub := &stubCartService{}
	optionID := uuid.New()
	payload := `{"options":[{"id":"` + optionID.String() + `"}]}`
	req := httptest.NewRequest(http.MethodPatch, "/api/cart-items/x", strings.NewReader(payload))
	req = withURLParam(req, "id", uuid.NewString())
	req = req.WithContext(actorContext(req.Context()))
	rec := httptest.NewRecorder()

	CartItemUpdate(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(stub.optionSet) != 1 || stub.optionSet[0].ID != optionID {
		t.Fatalf("options not forwarded, got %v", stub.optionSet)
	}
}
