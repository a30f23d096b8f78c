package usage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitestock/internal/core/apperror"
	appcontext "sitestock/internal/core/context"
	"sitestock/internal/core/id"
	"sitestock/internal/core/types"
	"sitestock/internal/domain/ledger"
	"sitestock/internal/domain/notification"
	"sitestock/internal/domain/usage"
	"sitestock/internal/infrastructure/storage/memory"
)

type fixture struct {
	usage         *usage.Service
	ledger        *ledger.Service
	usageRepo     *memory.UsageRepository
	notifications *memory.NotificationRepository
	pm            *ledger.ProjectMaterial
}

func qty(t *testing.T, s string) types.Quantity {
	t.Helper()
	q, err := types.ParseQuantity(s)
	require.NoError(t, err)
	return q
}

func engineerCtx(userID string) context.Context {
	return appcontext.WithUser(context.Background(), &appcontext.UserContext{UserID: userID})
}

func newFixture(t *testing.T, policy ledger.EnforcementPolicy, assigned string) *fixture {
	t.Helper()

	txm := memory.NewTxManager()
	ledgerSvc := ledger.NewService(memory.NewLedgerRepository(), txm, policy)
	usageRepo := memory.NewUsageRepository()
	notifRepo := memory.NewNotificationRepository()
	dispatcher := notification.NewDispatcher(notifRepo)

	rule, err := usage.NewLowStockRule("", 0.10)
	require.NoError(t, err)

	pm, err := ledgerSvc.Attach(context.Background(), id.New(), id.New(), qty(t, assigned))
	require.NoError(t, err)

	return &fixture{
		usage:         usage.NewService(usageRepo, ledgerSvc, txm, dispatcher, rule),
		ledger:        ledgerSvc,
		usageRepo:     usageRepo,
		notifications: notifRepo,
		pm:            pm,
	}
}

func TestSubmitDecrementsAndAppendsLog(t *testing.T) {
	f := newFixture(t, ledger.StrictEnforcement{}, "100")
	ctx := engineerCtx("eng-1")

	result, err := f.usage.Submit(ctx, f.pm.ID, qty(t, "20"), "slab pour")
	require.NoError(t, err)
	assert.Equal(t, qty(t, "80"), result.Remaining)
	assert.Equal(t, "eng-1", result.Log.EngineerID)
	assert.Equal(t, "slab pour", result.Log.Remarks)

	sum, err := f.usageRepo.SumQuantity(ctx, f.pm.ID)
	require.NoError(t, err)
	assert.Equal(t, qty(t, "20"), sum, "sum of logs must equal used")
}

func TestSubmitRequiresIdentity(t *testing.T) {
	f := newFixture(t, ledger.StrictEnforcement{}, "100")

	_, err := f.usage.Submit(context.Background(), f.pm.ID, qty(t, "10"), "")
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
}

func TestSubmitOverdrawLeavesNoLog(t *testing.T) {
	f := newFixture(t, ledger.StrictEnforcement{}, "100")
	ctx := engineerCtx("eng-1")

	_, err := f.usage.Submit(ctx, f.pm.ID, qty(t, "20"), "")
	require.NoError(t, err)

	_, err = f.usage.Submit(ctx, f.pm.ID, qty(t, "90"), "")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	sum, err := f.usageRepo.SumQuantity(ctx, f.pm.ID)
	require.NoError(t, err)
	assert.Equal(t, qty(t, "20"), sum, "rejected submission must not leave a log")

	remaining, err := f.ledger.Remaining(ctx, f.pm.ID)
	require.NoError(t, err)
	assert.Equal(t, qty(t, "80"), remaining)
}

func TestSubmitEmitsLowStockWarning(t *testing.T) {
	f := newFixture(t, ledger.StrictEnforcement{}, "100")
	ctx := engineerCtx("eng-1")

	// 95 used leaves 5 remaining, below the 10% threshold.
	_, err := f.usage.Submit(ctx, f.pm.ID, qty(t, "95"), "")
	require.NoError(t, err)

	feed, err := f.notifications.ListByUser(ctx, "eng-1", notification.FeedFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, notification.TypeWarning, feed[0].Type)
	assert.Contains(t, feed[0].Message, "low stock")
}

func TestSubmitAdvisoryOverdrawWarns(t *testing.T) {
	f := newFixture(t, ledger.AdvisoryEnforcement{}, "50")
	ctx := engineerCtx("eng-2")

	result, err := f.usage.Submit(ctx, f.pm.ID, qty(t, "70"), "")
	require.NoError(t, err)
	assert.Equal(t, qty(t, "-20"), result.Remaining)

	feed, err := f.notifications.ListByUser(ctx, "eng-2", notification.FeedFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, notification.TypeWarning, feed[0].Type)
	assert.Contains(t, feed[0].Message, "overdrawn")
}

func TestVoidRestoresLedgerAndSumInvariant(t *testing.T) {
	f := newFixture(t, ledger.StrictEnforcement{}, "100")
	ctx := engineerCtx("eng-1")

	result, err := f.usage.Submit(ctx, f.pm.ID, qty(t, "40"), "")
	require.NoError(t, err)

	require.NoError(t, f.usage.Void(ctx, result.Log.ID, "double entry"))

	remaining, err := f.ledger.Remaining(ctx, f.pm.ID)
	require.NoError(t, err)
	assert.Equal(t, qty(t, "100"), remaining)

	sum, err := f.usageRepo.SumQuantity(ctx, f.pm.ID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(0), sum)

	err = f.usage.Void(ctx, result.Log.ID, "again")
	assert.True(t, apperror.IsAlreadyProcessed(err), "second void must fail")
}

func TestHistoryExcludesVoidedByDefault(t *testing.T) {
	f := newFixture(t, ledger.StrictEnforcement{}, "100")
	ctx := engineerCtx("eng-1")

	_, err := f.usage.Submit(ctx, f.pm.ID, qty(t, "10"), "keep")
	require.NoError(t, err)
	voided, err := f.usage.Submit(ctx, f.pm.ID, qty(t, "10"), "void me")
	require.NoError(t, err)
	require.NoError(t, f.usage.Void(ctx, voided.Log.ID, "mistake"))

	history, err := f.usage.History(ctx, f.pm.ID, usage.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, history.Items, 1)
	assert.Equal(t, "keep", history.Items[0].Remarks)
	assert.Equal(t, int64(1), history.TotalCount)

	all, err := f.usage.History(ctx, f.pm.ID, usage.HistoryFilter{IncludeVoided: true})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
	assert.Equal(t, int64(2), all.TotalCount)
}

func TestHistoryCountsBeyondPage(t *testing.T) {
	f := newFixture(t, ledger.StrictEnforcement{}, "100")
	ctx := engineerCtx("eng-1")

	for i := 0; i < 3; i++ {
		_, err := f.usage.Submit(ctx, f.pm.ID, qty(t, "5"), "")
		require.NoError(t, err)
	}

	page, err := f.usage.History(ctx, f.pm.ID, usage.HistoryFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(3), page.TotalCount, "count must cover all matching entries, not the page")
	assert.Equal(t, 1, page.Limit)
}

func TestLowStockRuleRejectsBadExpression(t *testing.T) {
	_, err := usage.NewLowStockRule("remaining +", 0.1)
	require.Error(t, err)

	_, err = usage.NewLowStockRule("remaining + assigned", 0.1)
	require.Error(t, err, "non-bool rule must be rejected")
}
