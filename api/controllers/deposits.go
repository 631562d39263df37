package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/festivawin/festiva-backend/api/responses"
	"github.com/festivawin/festiva-backend/api/validators"
	"github.com/festivawin/festiva-backend/internal/settlement"
	pkgerrors "github.com/festivawin/festiva-backend/pkg/errors"
	"github.com/festivawin/festiva-backend/pkg/logger"
)

type depositRequest struct {
	Items []depositItemRequest `json:"items" validate:"required,min=1,dive"`
}

type depositItemRequest struct {
	Name        string          `json:"name" validate:"required"`
	Publisher   string          `json:"publisher"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Qty         int             `json:"qty" validate:"required,min=1"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
}

// VendorDeposit settles a vendor's intake batch: catalog listings, per-item
// deposit fees, and one ledger delta for the batch.
func VendorDeposit(svc settlement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settlement service unavailable"))
			return
		}

		vendorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload depositRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		batch := make([]settlement.DepositLine, 0, len(payload.Items))
		for _, item := range payload.Items {
			batch = append(batch, settlement.DepositLine{
				Name:        validators.SanitizeString(item.Name, 0),
				Publisher:   validators.SanitizeString(item.Publisher, 0),
				Price:       item.Price,
				Qty:         item.Qty,
				DiscountPct: item.DiscountPct,
			})
		}

		result, err := svc.SettleDeposit(r.Context(), settlement.DepositInput{
			VendorID: vendorID,
			Batch:    batch,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
