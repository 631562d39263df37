package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/festivawin/festiva-backend/internal/catalog"
	"github.com/festivawin/festiva-backend/pkg/db/models"
)

type stubCatalogService struct {
	lastFilter catalog.ListFilter
	listResult []models.DepositItem
	listErr    error
	getResult  *models.DepositItem
	getErr     error
}

func (s *stubCatalogService) Create(ctx context.Context, input catalog.CreateItemInput) (*models.DepositItem, error) {
	return nil, nil
}

func (s *stubCatalogService) GetByID(ctx context.Context, id uuid.UUID) (*models.DepositItem, error) {
	return s.getResult, s.getErr
}

func (s *stubCatalogService) ListAvailable(ctx context.Context, filter catalog.ListFilter) ([]models.DepositItem, error) {
	s.lastFilter = filter
	return s.listResult, s.listErr
}

func (s *stubCatalogService) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.DepositItem, error) {
	return s.listResult, s.listErr
}

func (s *stubCatalogService) Patch(ctx context.Context, vendorID, id uuid.UUID, input catalog.PatchItemInput) (*models.DepositItem, error) {
	return s.getResult, s.getErr
}

func (s *stubCatalogService) SoftDelete(ctx context.Context, vendorID, id uuid.UUID) error {
	return s.getErr
}

func (s *stubCatalogService) Restore(ctx context.Context, vendorID, id uuid.UUID) error {
	return s.getErr
}

func TestCatalogListParsesFilters(t *testing.T) {
	svc := &stubCatalogService{}
	handler := CatalogList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog?q=catan&min_price=5&max_price=20.50&availability=in_stock&limit=25", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastFilter.Query != "catan" {
		t.Fatalf("unexpected query %q", svc.lastFilter.Query)
	}
	if svc.lastFilter.MinPrice == nil || !svc.lastFilter.MinPrice.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("unexpected min price %v", svc.lastFilter.MinPrice)
	}
	if svc.lastFilter.MaxPrice == nil || svc.lastFilter.MaxPrice.String() != "20.5" {
		t.Fatalf("unexpected max price %v", svc.lastFilter.MaxPrice)
	}
	if svc.lastFilter.Availability != catalog.AvailabilityInStock {
		t.Fatalf("unexpected availability %q", svc.lastFilter.Availability)
	}
	if svc.lastFilter.Limit != 25 {
		t.Fatalf("unexpected limit %d", svc.lastFilter.Limit)
	}
}

func TestCatalogListRejectsBadPrice(t *testing.T) {
	handler := CatalogList(&stubCatalogService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog?min_price=abc", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCatalogListDerivesSoldOut(t *testing.T) {
	svc := &stubCatalogService{
		listResult: []models.DepositItem{
			{ID: uuid.New(), Name: "Catan", QtyAvailable: 0, QtySold: 3},
			{ID: uuid.New(), Name: "Azul", QtyAvailable: 2},
		},
	}
	handler := CatalogList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var envelope struct {
		Data []struct {
			Name    string `json:"Name"`
			SoldOut bool   `json:"sold_out"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 items got %d", len(envelope.Data))
	}
	if !envelope.Data[0].SoldOut {
		t.Fatal("expected first item sold out")
	}
	if envelope.Data[1].SoldOut {
		t.Fatal("expected second item in stock")
	}
}
