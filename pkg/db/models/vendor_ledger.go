package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VendorLedger accumulates one vendor's running totals across settlements.
// Version is the optimistic-concurrency token: writers update absolute
// amounts conditionally on the version they read, so two concurrent
// settlements for the same vendor can never silently drop a delta.
type VendorLedger struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID         uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex"`
	AmountOwed       decimal.Decimal `gorm:"column:amount_owed;type:numeric(12,2);not null"`
	TotalFees        decimal.Decimal `gorm:"column:total_fees;type:numeric(12,2);not null"`
	TotalCommissions decimal.Decimal `gorm:"column:total_commissions;type:numeric(12,2);not null"`
	GrossProceeds    decimal.Decimal `gorm:"column:gross_proceeds;type:numeric(12,2);not null"`
	Version          int64           `gorm:"column:version;not null;default:0"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
