package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/festivawin/festiva-backend/internal/catalog"
	"github.com/festivawin/festiva-backend/internal/ledger"
	"github.com/festivawin/festiva-backend/internal/sales"
	"github.com/festivawin/festiva-backend/pkg/db/models"
	"github.com/festivawin/festiva-backend/pkg/enums"
)

// SessionProvider supplies the session whose rates a settlement freezes.
type SessionProvider interface {
	Active(ctx context.Context) (*models.Session, error)
}

// ItemCreator lists a deposited game in the catalog.
type ItemCreator interface {
	Create(ctx context.Context, input catalog.CreateItemInput) (*models.DepositItem, error)
}

// StockUpdater applies one sale line's stock movement.
type StockUpdater interface {
	ReserveAndSell(ctx context.Context, lineID, itemID uuid.UUID, qty int) (*models.DepositItem, error)
}

// SaleCreator records a sale together with its lines.
type SaleCreator interface {
	Create(ctx context.Context, input sales.CreateSaleInput) (*models.Sale, error)
}

// LedgerApplier lands one settlement's delta on the vendor's ledger.
type LedgerApplier interface {
	ApplyDelta(ctx context.Context, vendorID uuid.UUID, delta ledger.Delta) (*models.VendorLedger, error)
}

// CartLine is one entry of a buyer's cart, priced at cart-build time.
type CartLine struct {
	DepositItemID uuid.UUID       `json:"deposit_item_id" validate:"required"`
	Qty           int             `json:"qty" validate:"required,gte=1"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
}

// SaleInput is a checkout request. All lines belong to one vendor.
type SaleInput struct {
	BuyerID  uuid.UUID
	VendorID uuid.UUID
	Cart     []CartLine
}

// LineResult reports how one line's stock update went. A failed line never
// rolls back its siblings or the sale itself.
type LineResult struct {
	LineID        uuid.UUID         `json:"line_id"`
	DepositItemID uuid.UUID         `json:"deposit_item_id"`
	Qty           int               `json:"qty"`
	Outcome       enums.LineOutcome `json:"outcome"`
	Message       string            `json:"message,omitempty"`
}

// SaleResult is the outward-facing record of one sale settlement.
type SaleResult struct {
	Sale          *models.Sale `json:"sale"`
	Lines         []LineResult `json:"lines"`
	LedgerApplied bool         `json:"ledger_applied"`
}

// DepositLine describes one game a vendor hands in.
type DepositLine struct {
	Name        string          `json:"name" validate:"required"`
	Publisher   string          `json:"publisher"`
	Price       decimal.Decimal `json:"price"`
	Qty         int             `json:"qty" validate:"required,gte=1"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
}

// DepositInput is a vendor's intake batch.
type DepositInput struct {
	VendorID uuid.UUID
	Batch    []DepositLine
}

// ItemResult reports how one batch item's create went. Failed creates are
// reported, not retried.
type ItemResult struct {
	Index   int                 `json:"index"`
	Item    *models.DepositItem `json:"item,omitempty"`
	Fee     decimal.Decimal     `json:"fee"`
	Outcome enums.LineOutcome   `json:"outcome"`
	Message string              `json:"message,omitempty"`
}

// DepositResult is the outward-facing record of one deposit settlement.
type DepositResult struct {
	Items           []ItemResult    `json:"items"`
	BatchFeeApplied decimal.Decimal `json:"batch_fee_applied"`
	LedgerApplied   bool            `json:"ledger_applied"`
}
