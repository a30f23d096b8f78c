package request_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitestock/internal/core/apperror"
	appcontext "sitestock/internal/core/context"
	"sitestock/internal/core/id"
	"sitestock/internal/core/numerator"
	"sitestock/internal/core/types"
	"sitestock/internal/domain/ledger"
	"sitestock/internal/domain/notification"
	"sitestock/internal/domain/request"
	"sitestock/internal/infrastructure/storage/memory"
)

type fixture struct {
	requests      *request.Service
	ledger        *ledger.Service
	notifications *memory.NotificationRepository
}

func qty(t *testing.T, s string) types.Quantity {
	t.Helper()
	q, err := types.ParseQuantity(s)
	require.NoError(t, err)
	return q
}

func userCtx(userID string) context.Context {
	return appcontext.WithUser(context.Background(), &appcontext.UserContext{UserID: userID})
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	txm := memory.NewTxManager()
	ledgerSvc := ledger.NewService(memory.NewLedgerRepository(), txm, ledger.StrictEnforcement{})
	notifRepo := memory.NewNotificationRepository()

	svc := request.NewService(
		memory.NewRequestRepository(),
		ledgerSvc,
		txm,
		notification.NewDispatcher(notifRepo),
		&numerator.MockGenerator{},
	)
	return &fixture{requests: svc, ledger: ledgerSvc, notifications: notifRepo}
}

func TestSubmitAssignsDocumentNumber(t *testing.T) {
	f := newFixture(t)

	req, err := f.requests.Submit(userCtx("site-1"), id.New(), id.New(), qty(t, "25"), "foundation work")
	require.NoError(t, err)

	assert.Equal(t, request.StatusPending, req.Status)
	assert.Equal(t, "site-1", req.RequesterID)
	assert.Regexp(t, `^REQ-\d{4}-\d{5}$`, req.Number)
}

func TestSubmitRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)

	_, err := f.requests.Submit(userCtx("site-1"), id.New(), id.New(), qty(t, "0"), "")
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidQuantity))
}

func TestApproveCreditsLedgerExactlyOnce(t *testing.T) {
	f := newFixture(t)
	projectID, materialID := id.New(), id.New()

	req, err := f.requests.Submit(userCtx("site-1"), projectID, materialID, qty(t, "25"), "")
	require.NoError(t, err)

	approved, err := f.requests.Approve(userCtx("pm-1"), req.ID)
	require.NoError(t, err)
	assert.Equal(t, request.StatusApproved, approved.Status)
	assert.Equal(t, "pm-1", approved.ResolvedBy)
	require.NotNil(t, approved.ResolvedAt)

	pm, err := f.ledger.GetByProjectAndMaterial(context.Background(), projectID, materialID)
	require.NoError(t, err)
	assert.Equal(t, qty(t, "25"), pm.Assigned, "approval auto-attaches a new pair")

	// Second approval fails and the ledger is credited exactly once.
	_, err = f.requests.Approve(userCtx("pm-1"), req.ID)
	assert.True(t, apperror.IsAlreadyProcessed(err))

	pm, err = f.ledger.GetByID(context.Background(), pm.ID)
	require.NoError(t, err)
	assert.Equal(t, qty(t, "25"), pm.Assigned)

	feed, err := f.notifications.ListByUser(context.Background(), "site-1", notification.FeedFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, notification.TypeSuccess, feed[0].Type)
}

func TestApproveAdjustsExistingLedgerRow(t *testing.T) {
	f := newFixture(t)
	projectID, materialID := id.New(), id.New()

	existing, err := f.ledger.Attach(context.Background(), projectID, materialID, qty(t, "100"))
	require.NoError(t, err)

	req, err := f.requests.Submit(userCtx("site-1"), projectID, materialID, qty(t, "40"), "")
	require.NoError(t, err)
	_, err = f.requests.Approve(userCtx("pm-1"), req.ID)
	require.NoError(t, err)

	pm, err := f.ledger.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, qty(t, "140"), pm.Assigned)
}

func TestConcurrentApprovalsOfNewPairBothCredit(t *testing.T) {
	f := newFixture(t)
	projectID, materialID := id.New(), id.New()

	first, err := f.requests.Submit(userCtx("site-1"), projectID, materialID, qty(t, "30"), "")
	require.NoError(t, err)
	second, err := f.requests.Submit(userCtx("site-2"), projectID, materialID, qty(t, "20"), "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, reqID := range []id.ID{first.ID, second.ID} {
		wg.Add(1)
		go func(reqID id.ID) {
			defer wg.Done()
			if _, err := f.requests.Approve(userCtx("pm-1"), reqID); err != nil {
				t.Errorf("approve %s: %v", reqID, err)
			}
		}(reqID)
	}
	wg.Wait()

	pm, err := f.ledger.GetByProjectAndMaterial(context.Background(), projectID, materialID)
	require.NoError(t, err)
	assert.Equal(t, qty(t, "50"), pm.Assigned, "both approvals must credit the single row")
}

func TestRejectHasNoLedgerEffect(t *testing.T) {
	f := newFixture(t)
	projectID, materialID := id.New(), id.New()

	req, err := f.requests.Submit(userCtx("site-1"), projectID, materialID, qty(t, "25"), "")
	require.NoError(t, err)

	rejected, err := f.requests.Reject(userCtx("pm-1"), req.ID, "budget exhausted")
	require.NoError(t, err)
	assert.Equal(t, request.StatusRejected, rejected.Status)
	assert.Equal(t, "budget exhausted", rejected.RejectReason)

	_, err = f.ledger.GetByProjectAndMaterial(context.Background(), projectID, materialID)
	assert.True(t, apperror.IsNotFound(err), "rejection must not touch the ledger")

	feed, err := f.notifications.ListByUser(context.Background(), "site-1", notification.FeedFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, notification.TypeError, feed[0].Type)
	assert.Contains(t, feed[0].Message, "budget exhausted")

	// A second rejection is workflow re-entry, not a no-op.
	_, err = f.requests.Reject(userCtx("pm-1"), req.ID, "again")
	assert.True(t, apperror.IsAlreadyProcessed(err))
}

func TestRejectRequiresReason(t *testing.T) {
	f := newFixture(t)

	req, err := f.requests.Submit(userCtx("site-1"), id.New(), id.New(), qty(t, "5"), "")
	require.NoError(t, err)

	_, err = f.requests.Reject(userCtx("pm-1"), req.ID, "")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestApproveUnknownRequestFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.requests.Approve(userCtx("pm-1"), id.New())
	assert.True(t, apperror.IsNotFound(err))
}
