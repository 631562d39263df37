package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale records a confirmed checkout. Immutable after creation; the ledger,
// not inventory bookkeeping, treats it as the source of truth for money owed.
type Sale struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID          uuid.UUID       `gorm:"column:buyer_id;type:uuid;not null;index"`
	VendorID         uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;index"`
	CommissionAmount decimal.Decimal `gorm:"column:commission_amount;type:numeric(12,2);not null"`
	TotalAmount      decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Lines            []SaleLine      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
}
