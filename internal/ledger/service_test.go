package ledger

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/festivawin/festiva-backend/pkg/db/models"
	pkgerrors "github.com/festivawin/festiva-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:ledger_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.VendorLedger{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newFileTestDB backs the store with a real file so concurrent writers
// contend on actual sqlite locks instead of a shared in-memory page cache.
func newFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "ledger.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.VendorLedger{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestApplyDeltaCreatesLedgerLazily(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc, err := NewService(NewRepository(db), Options{})
	require.NoError(t, err)

	vendorID := uuid.New()
	ledger, err := svc.ApplyDelta(context.Background(), vendorID, Delta{
		Fees: dec("3.50"),
		Owed: dec("3.50"),
	})
	require.NoError(t, err)
	assert.True(t, ledger.TotalFees.Equal(dec("3.50")))
	assert.True(t, ledger.AmountOwed.Equal(dec("3.50")))
	assert.True(t, ledger.TotalCommissions.IsZero())
	assert.True(t, ledger.GrossProceeds.IsZero())
	assert.Equal(t, int64(1), ledger.Version)
}

func TestApplyDeltaAccumulatesFees(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc, err := NewService(NewRepository(db), Options{})
	require.NoError(t, err)

	vendorID := uuid.New()
	fees := []string{"1.00", "2.50", "0.75"}
	for _, f := range fees {
		_, err := svc.ApplyDelta(context.Background(), vendorID, Delta{Fees: dec(f), Owed: dec(f)})
		require.NoError(t, err)
	}

	ledger, err := svc.GetByVendor(context.Background(), vendorID)
	require.NoError(t, err)
	assert.True(t, ledger.TotalFees.Equal(dec("4.25")), "total fees must equal the sum of all deposit fees, got %s", ledger.TotalFees)
	assert.True(t, ledger.AmountOwed.Equal(dec("4.25")))
}

func TestApplyDeltaResolvesVersionConflict(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(&conflictOnceRepo{Repository: repo}, Options{})
	require.NoError(t, err)

	vendorID := uuid.New()
	require.NoError(t, repo.Create(context.Background(), &models.VendorLedger{
		VendorID:   vendorID,
		AmountOwed: dec("10.00"),
	}))

	ledger, err := svc.ApplyDelta(context.Background(), vendorID, Delta{Owed: dec("5.00")})
	require.NoError(t, err)
	assert.True(t, ledger.AmountOwed.Equal(dec("15.00")), "delta must land on the fresh row after a conflict")
}

func TestApplyDeltaSurfacesConflictWhenRetriesExhaust(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(&alwaysStaleRepo{Repository: repo}, Options{ApplyAttempts: 3, ApplyBackoff: 1})
	require.NoError(t, err)

	vendorID := uuid.New()
	require.NoError(t, repo.Create(context.Background(), &models.VendorLedger{VendorID: vendorID}))

	_, err = svc.ApplyDelta(context.Background(), vendorID, Delta{Owed: dec("1.00")})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestConcurrentDeltasNeverLoseUpdates(t *testing.T) {
	t.Parallel()

	db := newFileTestDB(t)
	svc, err := NewService(NewRepository(db), Options{ApplyAttempts: 20, ApplyBackoff: 1})
	require.NoError(t, err)

	vendorID := uuid.New()
	_, err = svc.ApplyDelta(context.Background(), vendorID, Delta{Owed: dec("0")})
	require.NoError(t, err)

	const writers = 6
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ApplyDelta(context.Background(), vendorID, Delta{Owed: dec("1.00")})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "writer %d", i)
	}

	ledger, err := svc.GetByVendor(context.Background(), vendorID)
	require.NoError(t, err)
	assert.True(t, ledger.AmountOwed.Equal(dec("6.00")), "every delta must land exactly once, got %s", ledger.AmountOwed)
}

func TestGetByVendorNotFound(t *testing.T) {
	t.Parallel()

	svc, err := NewService(NewRepository(newTestDB(t)), Options{})
	require.NoError(t, err)

	_, err = svc.GetByVendor(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

// conflictOnceRepo makes the first conditional write report staleness, as if
// another settlement committed between the read and the write.
type conflictOnceRepo struct {
	Repository
	fired bool
}

func (r *conflictOnceRepo) UpdateVersioned(ctx context.Context, ledger *models.VendorLedger, expectedVersion int64) (bool, error) {
	if !r.fired {
		r.fired = true
		return false, nil
	}
	return r.Repository.UpdateVersioned(ctx, ledger, expectedVersion)
}

type alwaysStaleRepo struct {
	Repository
}

func (r *alwaysStaleRepo) UpdateVersioned(context.Context, *models.VendorLedger, int64) (bool, error) {
	return false, nil
}
