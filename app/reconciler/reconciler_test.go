package reconciler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodrun/app/gateway"
	"github.com/shashiranjanraj/foodrun/app/models"
	"github.com/shashiranjanraj/foodrun/app/reconciler"
	fhttp "github.com/shashiranjanraj/foodrun/pkg/http"
	"github.com/shashiranjanraj/foodrun/pkg/testkit"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newReconciler(t *testing.T) (*reconciler.Reconciler, *testkit.MockTransport) {
	t.Helper()

	mt := testkit.NewMockTransport()
	fhttp.DefaultClient.Transport = mt
	t.Cleanup(fhttp.ResetTransport)

	r := reconciler.New(gateway.New("http://api.test", staticToken("tok")))
	t.Cleanup(r.Close)
	return r, mt
}

func TestRefresh_CommitsBothLists(t *testing.T) {
	r, mt := newReconciler(t)
	mt.StubJSON("GET", "/runs/available", 200, []models.Run{
		{ID: 1, Restaurant: "Taco Bell", SeatsRemaining: 3, Status: models.RunActive},
	})
	mt.StubJSON("GET", "/runs/joined", 200, []models.Run{
		{ID: 2, Restaurant: "Chipotle", Status: models.RunActive,
			MyOrder: &models.Order{ID: 9, Pin: "1234"}},
	})

	view, err := r.Refresh(context.Background())

	require.NoError(t, err)
	require.Len(t, view.Available, 1)
	require.Len(t, view.Joined, 1)
	assert.False(t, view.UpdatedAt.IsZero())
	testkit.AssertMocksAllCalled(t, mt)
}

func TestRefresh_OneFailureCommitsNothing(t *testing.T) {
	r, mt := newReconciler(t)

	// First refresh succeeds and seeds the view.
	mt.StubJSON("GET", "/runs/available", 200, []models.Run{{ID: 1, SeatsRemaining: 2}})
	mt.StubJSON("GET", "/runs/joined", 200, []models.Run{})
	seeded, err := r.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, seeded.Available, 1)

	// Second refresh: joined fails, so the seeded view must survive.
	mt2 := testkit.NewMockTransport()
	fhttp.DefaultClient.Transport = mt2
	mt2.StubJSON("GET", "/runs/available", 200, []models.Run{})
	mt2.StubJSON("GET", "/runs/joined", 500, map[string]string{"detail": "boom"})

	_, err = r.Refresh(context.Background())

	require.Error(t, err)
	assert.Len(t, r.Snapshot().Available, 1, "failed refresh must not clobber the view")
}

func TestUnjoin_RefetchesAfterMutation(t *testing.T) {
	r, mt := newReconciler(t)
	mt.Stub("DELETE", "/runs/5/orders/me", 204, nil)
	mt.StubJSON("GET", "/runs/available", 200, []models.Run{{ID: 5, SeatsRemaining: 1}})
	mt.StubJSON("GET", "/runs/joined", 200, []models.Run{})

	view, err := r.Unjoin(context.Background(), 5)

	require.NoError(t, err)
	assert.Empty(t, view.Joined)
	assert.Len(t, mt.CallsTo("/runs/available"), 1, "mutation must trigger a re-fetch")
}

func TestComplete_ReturnsPointsAndRefreshes(t *testing.T) {
	r, mt := newReconciler(t)
	mt.StubJSON("PUT", "/runs/7/complete", 200, models.CompleteResult{
		Status: models.RunCompleted, PointsEarned: 10,
	})
	mt.StubJSON("GET", "/runs/available", 200, []models.Run{})
	mt.StubJSON("GET", "/runs/joined", 200, []models.Run{})

	result, err := r.Complete(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 10, result.PointsEarned)
	testkit.AssertMocksAllCalled(t, mt)
}

func TestCancel_FailureSkipsRefresh(t *testing.T) {
	r, mt := newReconciler(t)
	mt.StubJSON("PUT", "/runs/7/cancel", 403, map[string]string{"detail": "Not your run"})

	_, err := r.Cancel(context.Background(), 7)

	require.Error(t, err)
	assert.Empty(t, mt.CallsTo("/runs/available"), "failed mutation must not re-fetch")
}

func TestFilterAvailable_ExcludesOwnRuns(t *testing.T) {
	runs := []models.Run{
		{ID: 1, RunnerUsername: "me@ncsu.edu", SeatsRemaining: 3},
		{ID: 2, RunnerUsername: "alice@ncsu.edu", SeatsRemaining: 3},
	}

	got := reconciler.FilterAvailable(runs, "me@ncsu.edu", nil)

	require.Len(t, got, 1)
	assert.Equal(t, uint(2), got[0].ID)
}

func TestFilterAvailable_ExcludesJoinedAndFull(t *testing.T) {
	runs := []models.Run{
		{ID: 1, RunnerUsername: "alice@ncsu.edu", SeatsRemaining: 0},
		{ID: 2, RunnerUsername: "alice@ncsu.edu", SeatsRemaining: 2},
		{ID: 3, RunnerUsername: "bob@ncsu.edu", SeatsRemaining: 1},
	}
	joined := []models.Run{{ID: 3}}

	got := reconciler.FilterAvailable(runs, "me@ncsu.edu", joined)

	require.Len(t, got, 1)
	assert.Equal(t, uint(2), got[0].ID)
}
