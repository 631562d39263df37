package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/festivawin/festiva-backend/api/responses"
	"github.com/festivawin/festiva-backend/api/validators"
	"github.com/festivawin/festiva-backend/internal/catalog"
	"github.com/festivawin/festiva-backend/pkg/db/models"
	pkgerrors "github.com/festivawin/festiva-backend/pkg/errors"
	"github.com/festivawin/festiva-backend/pkg/logger"
)

const (
	maxCatalogQueryLen  = 120
	maxCatalogPageLimit = 200
)

type catalogItem struct {
	models.DepositItem
	SoldOut bool `json:"sold_out"`
}

func toCatalogItem(item models.DepositItem) catalogItem {
	return catalogItem{DepositItem: item, SoldOut: item.SoldOut()}
}

// CatalogList serves the public browsing surface with optional filters.
func CatalogList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		filter, err := catalogFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListAvailable(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]catalogItem, 0, len(items))
		for _, item := range items {
			out = append(out, toCatalogItem(item))
		}
		responses.WriteSuccess(w, out)
	}
}

// CatalogItem serves a single listing.
func CatalogItem(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCatalogItem(*item))
	}
}

func catalogFilterFromQuery(r *http.Request) (catalog.ListFilter, error) {
	filter := catalog.ListFilter{
		Query: validators.SanitizeString(r.URL.Query().Get("q"), maxCatalogQueryLen),
	}

	minPrice, err := parseQueryDecimal(r, "min_price")
	if err != nil {
		return catalog.ListFilter{}, err
	}
	filter.MinPrice = minPrice

	maxPrice, err := parseQueryDecimal(r, "max_price")
	if err != nil {
		return catalog.ListFilter{}, err
	}
	filter.MaxPrice = maxPrice

	if raw := strings.TrimSpace(r.URL.Query().Get("availability")); raw != "" {
		filter.Availability = catalog.Availability(raw)
	}

	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, maxCatalogPageLimit)
	if err != nil {
		return catalog.ListFilter{}, err
	}
	filter.Limit = limit
	return filter, nil
}

func parseQueryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a decimal number").
			WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}
