package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/core/types"
	"sitestock/internal/domain/ledger"
	"sitestock/internal/infrastructure/storage/memory"
)

func qty(t *testing.T, s string) types.Quantity {
	t.Helper()
	q, err := types.ParseQuantity(s)
	require.NoError(t, err)
	return q
}

func newService(policy ledger.EnforcementPolicy) *ledger.Service {
	return ledger.NewService(memory.NewLedgerRepository(), memory.NewTxManager(), policy)
}

func attach(t *testing.T, svc *ledger.Service, assigned string) *ledger.ProjectMaterial {
	t.Helper()
	pm, err := svc.Attach(context.Background(), id.New(), id.New(), qty(t, assigned))
	require.NoError(t, err)
	return pm
}

func TestRecordUsageDecrementsRemaining(t *testing.T) {
	svc := newService(ledger.StrictEnforcement{})
	pm := attach(t, svc, "100")

	remaining, err := svc.RecordUsage(context.Background(), pm.ID, qty(t, "20"))
	require.NoError(t, err)
	assert.Equal(t, qty(t, "80"), remaining)
}

func TestRecordUsageRejectsOverdrawWithoutPartialWrite(t *testing.T) {
	svc := newService(ledger.StrictEnforcement{})
	pm := attach(t, svc, "100")

	_, err := svc.RecordUsage(context.Background(), pm.ID, qty(t, "20"))
	require.NoError(t, err)

	_, err = svc.RecordUsage(context.Background(), pm.ID, qty(t, "90"))
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	remaining, err := svc.Remaining(context.Background(), pm.ID)
	require.NoError(t, err)
	assert.Equal(t, qty(t, "80"), remaining, "failed usage must leave the ledger untouched")
}

func TestRecordUsageRejectsNonPositiveQuantity(t *testing.T) {
	svc := newService(ledger.StrictEnforcement{})
	pm := attach(t, svc, "100")

	for _, q := range []string{"0", "-5"} {
		_, err := svc.RecordUsage(context.Background(), pm.ID, qty(t, q))
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidQuantity), "quantity %s", q)
	}
}

func TestAdvisoryEnforcementAllowsOverdraw(t *testing.T) {
	svc := newService(ledger.AdvisoryEnforcement{})
	pm := attach(t, svc, "50")

	remaining, err := svc.RecordUsage(context.Background(), pm.ID, qty(t, "70"))
	require.NoError(t, err)
	assert.Equal(t, qty(t, "-20"), remaining)
}

func TestAdjustAssignedCannotDropBelowUsed(t *testing.T) {
	svc := newService(ledger.StrictEnforcement{})
	pm := attach(t, svc, "100")

	_, err := svc.RecordUsage(context.Background(), pm.ID, qty(t, "60"))
	require.NoError(t, err)

	_, err = svc.AdjustAssigned(context.Background(), pm.ID, qty(t, "-50"))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidAdjustment))

	updated, err := svc.GetByID(context.Background(), pm.ID)
	require.NoError(t, err)
	assert.Equal(t, qty(t, "100"), updated.Assigned)
}

func TestAttachRejectsDuplicatePair(t *testing.T) {
	svc := newService(ledger.StrictEnforcement{})
	projectID, materialID := id.New(), id.New()

	_, err := svc.Attach(context.Background(), projectID, materialID, qty(t, "10"))
	require.NoError(t, err)

	_, err = svc.Attach(context.Background(), projectID, materialID, qty(t, "10"))
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
}

func TestConcurrentAttachCreatesOneRow(t *testing.T) {
	svc := newService(ledger.StrictEnforcement{})
	projectID, materialID := id.New(), id.New()

	const workers = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Attach(context.Background(), projectID, materialID, qty(t, "10"))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !apperror.IsCode(err, apperror.CodeConflict) {
				t.Errorf("loser must see CONFLICT, got: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded, "exactly one attach may create the row")

	pm, err := svc.GetByProjectAndMaterial(context.Background(), projectID, materialID)
	require.NoError(t, err)
	assert.Equal(t, qty(t, "10"), pm.Assigned)
}

func TestRecordUsageOnRetiredRowFails(t *testing.T) {
	svc := newService(ledger.StrictEnforcement{})
	pm := attach(t, svc, "100")

	require.NoError(t, svc.Retire(context.Background(), pm.ID))
	// Retire is idempotent.
	require.NoError(t, svc.Retire(context.Background(), pm.ID))

	_, err := svc.RecordUsage(context.Background(), pm.ID, qty(t, "1"))
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
}

func TestConcurrentUsageNeverOverdraws(t *testing.T) {
	svc := newService(ledger.StrictEnforcement{})
	pm := attach(t, svc, "100")

	const workers = 30
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordUsage(context.Background(), pm.ID, qty(t, "10"))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !apperror.IsInsufficientStock(err) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded, "exactly assigned/qty submissions may pass")

	remaining, err := svc.Remaining(context.Background(), pm.ID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(0), remaining)
}

func TestRestoreUsageCreditsBack(t *testing.T) {
	svc := newService(ledger.StrictEnforcement{})
	pm := attach(t, svc, "100")

	_, err := svc.RecordUsage(context.Background(), pm.ID, qty(t, "30"))
	require.NoError(t, err)

	require.NoError(t, svc.RestoreUsage(context.Background(), pm.ID, qty(t, "30")))

	remaining, err := svc.Remaining(context.Background(), pm.ID)
	require.NoError(t, err)
	assert.Equal(t, qty(t, "100"), remaining)

	err = svc.RestoreUsage(context.Background(), pm.ID, qty(t, "1"))
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidAdjustment), "restore beyond used must fail")
}
