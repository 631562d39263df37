package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/festivawin/festiva-backend/api/responses"
	"github.com/festivawin/festiva-backend/api/validators"
	"github.com/festivawin/festiva-backend/internal/catalog"
	pkgerrors "github.com/festivawin/festiva-backend/pkg/errors"
	"github.com/festivawin/festiva-backend/pkg/logger"
)

type patchItemRequest struct {
	Name         *string          `json:"name,omitempty"`
	Publisher    *string          `json:"publisher,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	QtyAvailable *int             `json:"qty_available,omitempty" validate:"omitempty,min=0"`
	DiscountPct  *decimal.Decimal `json:"discount_pct,omitempty"`
}

// VendorListItems returns every listing the vendor has deposited, removed
// ones included.
func VendorListItems(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		vendorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListByVendor(r.Context(), vendorID)
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

// VendorPatchItem updates only the fields present in the request body.
func VendorPatchItem(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		vendorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload patchItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Patch(r.Context(), vendorID, itemID, catalog.PatchItemInput{
			Name:         payload.Name,
			Publisher:    payload.Publisher,
			Price:        payload.Price,
			QtyAvailable: payload.QtyAvailable,
			DiscountPct:  payload.DiscountPct,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCatalogItem(*item))
	}
}

// VendorDeleteItem soft-deletes a listing; the row survives for settlement
// history.
func VendorDeleteItem(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		vendorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SoftDelete(r.Context(), vendorID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

// VendorRestoreItem relists a soft-deleted listing.
func VendorRestoreItem(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		vendorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Restore(r.Context(), vendorID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "available"})
	}
}
