package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/festivawin/festiva-backend/pkg/db/models"
	pkgerrors "github.com/festivawin/festiva-backend/pkg/errors"
)

// Service exposes the session rates consumed by settlements. Callers fetch
// the session once per orchestrated operation and hold its rates fixed for
// the duration, so fee and ledger math never see a mid-operation rate change.
type Service interface {
	Active(ctx context.Context) (*models.Session, error)
	Next(ctx context.Context) (*models.Session, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires a session service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("session repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Active(ctx context.Context) (*models.Session, error) {
	session, err := s.repo.FindActive(ctx, s.now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading active session")
	}
	return session, nil
}

func (s *service) Next(ctx context.Context) (*models.Session, error) {
	session, err := s.repo.FindNext(ctx, s.now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no upcoming session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading next session")
	}
	return session, nil
}
