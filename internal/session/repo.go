package session

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/festivawin/festiva-backend/pkg/db/models"
	"github.com/festivawin/festiva-backend/pkg/enums"
)

// Repository reads session windows and their rates.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActive(ctx context.Context, now time.Time) (*models.Session, error)
	FindNext(ctx context.Context, now time.Time) (*models.Session, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a session repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindActive(ctx context.Context, now time.Time) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Where("status = ? AND starts_at <= ? AND ends_at > ?", enums.SessionStatusActive, now, now).
		Order("starts_at ASC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *repository) FindNext(ctx context.Context, now time.Time) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Where("status = ? AND starts_at > ?", enums.SessionStatusPlanned, now).
		Order("starts_at ASC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}
