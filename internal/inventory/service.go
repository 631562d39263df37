package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/festivawin/festiva-backend/pkg/db/models"
	pkgerrors "github.com/festivawin/festiva-backend/pkg/errors"
)

// Service applies sale-line stock updates. Correctness under concurrent
// buyers rests entirely on the store's conditional decrement, never on a
// quantity the caller read earlier.
type Service interface {
	ReserveAndSell(ctx context.Context, lineID, itemID uuid.UUID, qty int) (*models.DepositItem, error)
}

type service struct {
	repo Repository
}

// NewService wires an inventory service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ReserveAndSell(ctx context.Context, lineID, itemID uuid.UUID, qty int) (*models.DepositItem, error) {
	if lineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale line id is required")
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deposit item id is required")
	}
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be positive")
	}
	return s.repo.ApplyLine(ctx, lineID, itemID, qty)
}
