package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleLine snapshots one cart line inside a sale. UnitPrice is the price at
// cart-build time. StockApplied flips exactly once when the inventory
// decrement for this line lands, making stock updates retry-safe.
type SaleLine struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SaleID        uuid.UUID       `gorm:"column:sale_id;type:uuid;not null;index"`
	DepositItemID uuid.UUID       `gorm:"column:deposit_item_id;type:uuid;not null"`
	Qty           int             `gorm:"column:qty;not null"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	StockApplied  bool            `gorm:"column:stock_applied;not null;default:false"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
