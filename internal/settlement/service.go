package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/festivawin/festiva-backend/pkg/logger"
	"github.com/festivawin/festiva-backend/pkg/metrics"
)

const defaultCompletionTimeout = 30 * time.Second

// Service orchestrates deposit and sale settlements: a sequence of
// independent store calls with no multi-object transaction available.
type Service interface {
	SettleDeposit(ctx context.Context, input DepositInput) (*DepositResult, error)
	SettleSale(ctx context.Context, input SaleInput) (*SaleResult, error)
}

// Options tune orchestration behavior.
type Options struct {
	// CompletionTimeout bounds the post-creation phase of a sale settlement,
	// which runs on a detached context once the sale exists.
	CompletionTimeout time.Duration
}

type service struct {
	sessions          SessionProvider
	catalog           ItemCreator
	stock             StockUpdater
	sales             SaleCreator
	ledgers           LedgerApplier
	metrics           *metrics.SettlementMetrics
	logg              *logger.Logger
	completionTimeout time.Duration
}

// NewService wires a settlement orchestrator with its collaborating stores.
func NewService(
	sessions SessionProvider,
	catalogSvc ItemCreator,
	stock StockUpdater,
	salesSvc SaleCreator,
	ledgers LedgerApplier,
	settlementMetrics *metrics.SettlementMetrics,
	logg *logger.Logger,
	opts Options,
) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session provider required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if stock == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if salesSvc == nil {
		return nil, fmt.Errorf("sales service required")
	}
	if ledgers == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	timeout := opts.CompletionTimeout
	if timeout <= 0 {
		timeout = defaultCompletionTimeout
	}
	return &service{
		sessions:          sessions,
		catalog:           catalogSvc,
		stock:             stock,
		sales:             salesSvc,
		ledgers:           ledgers,
		metrics:           settlementMetrics,
		logg:              logg,
		completionTimeout: timeout,
	}, nil
}
