package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/festivawin/festiva-backend/api/responses"
	"github.com/festivawin/festiva-backend/api/validators"
	"github.com/festivawin/festiva-backend/internal/settlement"
	pkgerrors "github.com/festivawin/festiva-backend/pkg/errors"
	"github.com/festivawin/festiva-backend/pkg/logger"
)

type checkoutRequest struct {
	VendorID uuid.UUID             `json:"vendor_id" validate:"required"`
	Cart     []checkoutLineRequest `json:"cart" validate:"required,min=1,dive"`
}

type checkoutLineRequest struct {
	DepositItemID uuid.UUID       `json:"deposit_item_id" validate:"required"`
	Qty           int             `json:"qty" validate:"required,min=1"`
	UnitPrice     decimal.Decimal `json:"unit_price" validate:"required"`
}

// Checkout settles a buyer's cart against one vendor: the sale record, the
// per-line stock movements, and the vendor's ledger delta.
func Checkout(svc settlement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settlement service unavailable"))
			return
		}

		buyerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart := make([]settlement.CartLine, 0, len(payload.Cart))
		for _, line := range payload.Cart {
			cart = append(cart, settlement.CartLine{
				DepositItemID: line.DepositItemID,
				Qty:           line.Qty,
				UnitPrice:     line.UnitPrice,
			})
		}

		result, err := svc.SettleSale(r.Context(), settlement.SaleInput{
			BuyerID:  buyerID,
			VendorID: payload.VendorID,
			Cart:     cart,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
