package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/festivawin/festiva-backend/pkg/enums"
)

// Session is the bounded window during which deposits and sales are
// permitted. It carries the deposit-fee and commission percentages that
// settlements freeze for the duration of one orchestrated operation.
type Session struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StartsAt      time.Time           `gorm:"column:starts_at;not null"`
	EndsAt        time.Time           `gorm:"column:ends_at;not null"`
	DepositFeePct decimal.Decimal     `gorm:"column:deposit_fee_pct;type:numeric(5,2);not null"`
	CommissionPct decimal.Decimal     `gorm:"column:commission_pct;type:numeric(5,2);not null"`
	Status        enums.SessionStatus `gorm:"column:status;type:text;not null;default:'planned'"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
