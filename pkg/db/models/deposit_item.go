package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/festivawin/festiva-backend/pkg/enums"
)

// DepositItem is a vendor's game listed for resale during a session.
// Rows are never hard-deleted; soft deletion toggles Status to removed.
type DepositItem struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID     uuid.UUID        `gorm:"column:vendor_id;type:uuid;not null;index"`
	Name         string           `gorm:"column:name;not null"`
	Publisher    string           `gorm:"column:publisher;not null"`
	Price        decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	QtyAvailable int              `gorm:"column:qty_available;not null;default:0;check:qty_available >= 0"`
	QtySold      int              `gorm:"column:qty_sold;not null;default:0"`
	Status       enums.ItemStatus `gorm:"column:status;type:text;not null;default:'available'"`
	DepositFee   decimal.Decimal  `gorm:"column:deposit_fee;type:numeric(12,2);not null"`
	DiscountPct  decimal.Decimal  `gorm:"column:discount_pct;type:numeric(5,2);not null"`
	DepositedAt  time.Time        `gorm:"column:deposited_at;not null"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// SoldOut reports whether the item has no stock left. Derived on read so the
// quantity columns stay the single source of truth.
func (d DepositItem) SoldOut() bool {
	return d.QtyAvailable == 0
}
