package controllers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/shopkeeper-dev/storefront-backend/internal/products"
	"github.com/shopkeeper-dev/storefront-backend/pkg/config"
	"github.com/shopkeeper-dev/storefront-backend/pkg/pagination"
)

type stubProductService struct {
	created       *products.CreateProductInput
	listParams    *pagination.Params
	optionCreated *products.CreateOptionInput
	optionUpdated *products.UpdateOptionInput
}

func (s *stubProductService) List(_ context.Context, params pagination.Params) (*products.ListResult, error) {
	s.listParams = &params
	return &products.ListResult{Products: []products.ProductDTO{}}, nil
}

func (s *stubProductService) Get(context.Context, uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: uuid.New()}, nil
}

func (s *stubProductService) Create(_ context.Context, input products.CreateProductInput) (*products.ProductDTO, error) {
	s.created = &input
	return &products.ProductDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (s *stubProductService) Update(context.Context, uuid.UUID, products.UpdateProductInput) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (s *stubProductService) Delete(context.Context, uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (s *stubProductService) CreateOption(_ context.Context, input products.CreateOptionInput) (*products.OptionDTO, error) {
	s.optionCreated = &input
	return &products.OptionDTO{}, nil
}

func (s *stubProductService) UpdateOption(_ context.Context, _ uuid.UUID, input products.UpdateOptionInput) (*products.OptionDTO, error) {
	s.optionUpdated = &input
	return &products.OptionDTO{}, nil
}

func (s *stubProductService) DeleteOption(context.Context, uuid.UUID) (*products.OptionDTO, error) {
	return &products.OptionDTO{}, nil
}

func (s *stubProductService) ReplaceImage(context.Context, uuid.UUID, products.FileUpload) (*products.ImageDTO, error) {
	return &products.ImageDTO{ID: uuid.New(), URL: "products/replaced.png"}, nil
}

func buildProductForm(t *testing.T, fields map[string]string, imageNames []string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	for _, name := range imageNames {
		part, err := writer.CreateFormFile("images", name)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		part.Write([]byte("pixels"))
	}
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func TestProductCreateMultipart(t *testing.T) {
	stub := &stubProductService{}
	categoryID := uuid.New()

	body, contentType := buildProductForm(t, map[string]string{
		"name":        "Rose Bouquet",
		"brand":       "Acme",
		"description": "A dozen roses",
		"category_id": categoryID.String(),
		"options":     `[{"title":"Color","values":[{"name":"Red","quantity":3,"price":"19.99"}]}]`,
	}, []string{"front.png", "back.jpg"})

	req := httptest.NewRequest(http.MethodPost, "/api/products", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	ProductCreate(stub, config.StorageConfig{MaxUploadMB: 10}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.created == nil {
		t.Fatal("service not called")
	}
	if stub.created.CategoryID != categoryID {
		t.Fatalf("category id not parsed, got %s", stub.created.CategoryID)
	}
	if len(stub.created.Options) != 1 || stub.created.Options[0].Title != "Color" {
		t.Fatalf("options part not decoded, got %+v", stub.created.Options)
	}
	if len(stub.created.Images) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(stub.created.Images))
	}

	envelope := decodeBody(t, rec)
	if envelope["message"] != "Product created successfully" {
		t.Fatalf("unexpected message: %v", envelope["message"])
	}
	if _, ok := envelope["product"]; !ok {
		t.Fatalf("expected product key, got %v", envelope)
	}
}

func TestProductCreateRejectsNonImageUpload(t *testing.T) {
	body, contentType := buildProductForm(t, map[string]string{
		"name":        "Rose Bouquet",
		"brand":       "Acme",
		"description": "A dozen roses",
		"category_id": uuid.New().String(),
		"options":     `[{"title":"Color","values":[{"name":"Red"}]}]`,
	}, []string{"malware.exe"})

	req := httptest.NewRequest(http.MethodPost, "/api/products", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	ProductCreate(&stubProductService{}, config.StorageConfig{MaxUploadMB: 10}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestProductCreateRequiresOptions(t *testing.T) {
	body, contentType := buildProductForm(t, map[string]string{
		"name":        "Rose Bouquet",
		"brand":       "Acme",
		"description": "A dozen roses",
		"category_id": uuid.New().String(),
	}, []string{"front.png"})

	req := httptest.NewRequest(http.MethodPost, "/api/products", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	ProductCreate(&stubProductService{}, config.StorageConfig{MaxUploadMB: 10}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body2 := decodeBody(t, rec)
	errs, ok := body2["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected field error map, got %v", body2["error"])
	}
	if _, present := errs["options"]; !present {
		t.Fatalf("expected options error, got %v", errs)
	}
}

func TestProductListForwardsPaginationParams(t *testing.T) {
	stub := &stubProductService{}
	req := httptest.NewRequest(http.MethodGet, "/api/products?limit=10&cursor=abc", nil)
	rec := httptest.NewRecorder()

	ProductList(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.listParams == nil || stub.listParams.Limit != 10 || stub.listParams.Cursor != "abc" {
		t.Fatalf("pagination params not forwarded: %+v", stub.listParams)
	}
}

func TestProductListWithoutParams(t *testing.T) {
	stub := &stubProductService{}
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()

	ProductList(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.listParams == nil || stub.listParams.Limit != 0 || stub.listParams.Cursor != "" {
		t.Fatalf("expected zero params for the full listing, got %+v", stub.listParams)
	}
}

func TestProductShowInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	ProductShow(&stubProductService{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}
