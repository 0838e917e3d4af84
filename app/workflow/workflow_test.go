package workflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodrun/app/gateway"
	"github.com/shashiranjanraj/foodrun/app/models"
	"github.com/shashiranjanraj/foodrun/app/reconciler"
	"github.com/shashiranjanraj/foodrun/app/session"
	"github.com/shashiranjanraj/foodrun/app/workflow"
	"github.com/shashiranjanraj/foodrun/pkg/apierr"
	fhttp "github.com/shashiranjanraj/foodrun/pkg/http"
	"github.com/shashiranjanraj/foodrun/pkg/kvstore"
	"github.com/shashiranjanraj/foodrun/pkg/testkit"
)

type fixture struct {
	gw   *gateway.Client
	rec  *reconciler.Reconciler
	sess *session.Store
	mt   *testkit.MockTransport
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mt := testkit.NewMockTransport()
	fhttp.DefaultClient.Transport = mt
	t.Cleanup(fhttp.ResetTransport)

	sess := session.NewStore(kvstore.NewMemory())
	require.NoError(t, sess.Save(models.Session{
		User:  models.User{ID: 1, Username: "me@ncsu.edu"},
		Token: "tok",
	}))

	gw := gateway.New("http://api.test", sess)
	rec := reconciler.New(gw)
	t.Cleanup(rec.Close)

	return &fixture{gw: gw, rec: rec, sess: sess, mt: mt}
}

func activeRun(runner string) models.Run {
	return models.Run{
		ID: 5, Restaurant: "Taco Bell", RunnerUsername: runner,
		SeatsRemaining: 2, Status: models.RunActive,
	}
}

func stubRefresh(mt *testkit.MockTransport) {
	mt.StubJSON("GET", "/runs/available", 200, []models.Run{})
	mt.StubJSON("GET", "/runs/joined", 200, []models.Run{})
}

// ─── Join ─────────────────────────────────────────────────────────────────────

func TestJoin_FullFlowSurfacesPinOnce(t *testing.T) {
	f := newFixture(t)
	f.mt.StubJSON("POST", "/runs/5/orders", 201, models.Order{
		ID: 42, Items: "1x Burger", Amount: 10, Pin: "4821", Status: models.OrderPending,
	})
	stubRefresh(f.mt)

	join := workflow.NewJoin(f.gw, f.rec, f.sess)
	require.NoError(t, join.Open(activeRun("alice@ncsu.edu")))
	join.Cart().Add(1, "Burger", 10)

	pin, err := join.Confirm(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "4821", pin)
	assert.Equal(t, workflow.Succeeded, join.State())
	assert.Nil(t, join.Cart(), "cart is discarded after success")

	call := f.mt.CallsTo("/runs/5/orders")[0]
	testkit.AssertBodyField(t, &call, "items", "1x Burger")
	testkit.AssertBodyField(t, &call, "amount", 10.0)
	assert.Len(t, f.mt.CallsTo("/runs/available"), 1, "success triggers a refresh")
}

func TestJoin_OwnRunBlockedAtOpen(t *testing.T) {
	f := newFixture(t)
	join := workflow.NewJoin(f.gw, f.rec, f.sess)

	err := join.Open(activeRun("me@ncsu.edu"))

	require.True(t, apierr.IsValidation(err))
	assert.Equal(t, workflow.Idle, join.State())
	assert.Empty(t, f.mt.Calls)
}

func TestJoin_FullRunBlockedAtOpen(t *testing.T) {
	f := newFixture(t)
	join := workflow.NewJoin(f.gw, f.rec, f.sess)

	run := activeRun("alice@ncsu.edu")
	run.SeatsRemaining = 0

	require.True(t, apierr.IsValidation(join.Open(run)))
}

func TestJoin_EmptyCartRejected(t *testing.T) {
	f := newFixture(t)
	join := workflow.NewJoin(f.gw, f.rec, f.sess)
	require.NoError(t, join.Open(activeRun("alice@ncsu.edu")))

	_, err := join.Confirm(context.Background())

	require.True(t, apierr.IsValidation(err))
	assert.Equal(t, workflow.MenuOpen, join.State())
	assert.Empty(t, f.mt.Calls)
}

func TestJoin_FailureKeepsCartForRetry(t *testing.T) {
	f := newFixture(t)
	f.mt.StubJSON("POST", "/runs/5/orders", 400, map[string]string{"detail": "Run is full"})

	join := workflow.NewJoin(f.gw, f.rec, f.sess)
	require.NoError(t, join.Open(activeRun("alice@ncsu.edu")))
	join.Cart().Add(1, "Burger", 10)
	join.Cart().Add(2, "Fries", 3)

	_, err := join.Confirm(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Run is full", apierr.Display(err))
	assert.Equal(t, workflow.MenuOpen, join.State())
	require.NotNil(t, join.Cart())
	assert.Len(t, join.Cart().Items(), 2, "cart survives for retry")
	assert.Empty(t, f.mt.CallsTo("/runs/available"), "failure must not refresh")
}

func TestJoin_CancelDiscardsCartLocally(t *testing.T) {
	f := newFixture(t)
	join := workflow.NewJoin(f.gw, f.rec, f.sess)
	require.NoError(t, join.Open(activeRun("alice@ncsu.edu")))
	join.Cart().Add(1, "Burger", 10)

	join.Cancel()

	assert.Equal(t, workflow.Idle, join.State())
	assert.Nil(t, join.Cart())
	assert.Empty(t, f.mt.Calls, "cancel never calls the backend")
}

// ─── PIN verification ─────────────────────────────────────────────────────────

func TestVerify_SuccessRefreshesDetail(t *testing.T) {
	f := newFixture(t)
	f.mt.Stub("POST", "/runs/5/orders/42/verify-pin", 200, []byte(`{"status":"delivered"}`))
	f.mt.StubJSON("GET", "/runs/id/5", 200, models.Run{
		ID: 5, Status: models.RunActive,
		Orders: []models.Order{{ID: 42, Status: models.OrderDelivered}},
	})

	v := workflow.NewPinVerifier(f.gw, f.rec)
	run, err := v.Verify(context.Background(),
		activeRun("me@ncsu.edu"),
		models.Order{ID: 42, Status: models.OrderPending},
		"4821")

	require.NoError(t, err)
	require.Len(t, run.Orders, 1)
	assert.Equal(t, models.OrderDelivered, run.Orders[0].Status)
	testkit.AssertMocksAllCalled(t, f.mt)
}

func TestVerify_MalformedPinNeverHitsNetwork(t *testing.T) {
	f := newFixture(t)
	v := workflow.NewPinVerifier(f.gw, f.rec)

	for _, pin := range []string{"12", "12345", "abcd", "12a4", ""} {
		_, err := v.Verify(context.Background(),
			activeRun("me@ncsu.edu"),
			models.Order{ID: 42, Status: models.OrderPending},
			pin)
		require.True(t, apierr.IsValidation(err), "pin %q must fail locally", pin)
	}
	assert.Empty(t, f.mt.Calls)
}

func TestVerify_WrongPinLeavesOrderPending(t *testing.T) {
	f := newFixture(t)
	f.mt.StubJSON("POST", "/runs/5/orders/42/verify-pin", 400, map[string]string{"detail": "Incorrect PIN"})

	v := workflow.NewPinVerifier(f.gw, f.rec)
	order := models.Order{ID: 42, Status: models.OrderPending}
	_, err := v.Verify(context.Background(), activeRun("me@ncsu.edu"), order, "0000")

	require.Error(t, err)
	assert.Equal(t, "Incorrect PIN", apierr.Display(err))
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Empty(t, f.mt.CallsTo("/runs/id/"), "no detail refresh on mismatch")
}

func TestVerify_DeliveredOrderRejected(t *testing.T) {
	f := newFixture(t)
	v := workflow.NewPinVerifier(f.gw, f.rec)

	_, err := v.Verify(context.Background(),
		activeRun("me@ncsu.edu"),
		models.Order{ID: 42, Status: models.OrderDelivered},
		"4821")

	require.True(t, apierr.IsValidation(err))
	assert.Empty(t, f.mt.Calls)
}

func TestVerify_InactiveRunRejected(t *testing.T) {
	f := newFixture(t)
	v := workflow.NewPinVerifier(f.gw, f.rec)

	run := activeRun("me@ncsu.edu")
	run.Status = models.RunCompleted

	_, err := v.Verify(context.Background(), run,
		models.Order{ID: 42, Status: models.OrderPending}, "4821")

	require.True(t, apierr.IsValidation(err))
	assert.Empty(t, f.mt.Calls)
}
