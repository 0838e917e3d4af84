// Package reconciler keeps the locally-held run lists consistent with the
// backend. It never patches cached state after a mutation: every change
// goes through a full re-fetch, and the available/joined pair is fetched
// in parallel but committed atomically.
package reconciler

import (
	"context"
	"sync"
	"time"

	"github.com/shashiranjanraj/foodrun/app/gateway"
	"github.com/shashiranjanraj/foodrun/app/models"
	"github.com/shashiranjanraj/foodrun/pkg/collection"
	"github.com/shashiranjanraj/foodrun/pkg/event"
	"github.com/shashiranjanraj/foodrun/pkg/logger"
	"github.com/shashiranjanraj/foodrun/pkg/workerpool"
)

// RefreshedEvent fires after every committed refresh. Payload is the new View.
const RefreshedEvent = "runs.refreshed"

// View is one consistent snapshot of the remote run lists.
type View struct {
	Available []models.Run
	Joined    []models.Run
	UpdatedAt time.Time
}

// Reconciler holds the cached view and drives refreshes through a small
// worker pool so concurrent fetches stay bounded.
type Reconciler struct {
	gw   *gateway.Client
	pool *workerpool.Pool

	mu   sync.RWMutex
	view View
}

func New(gw *gateway.Client) *Reconciler {
	return &Reconciler{
		gw:   gw,
		pool: workerpool.New(4),
	}
}

// Close releases the fetch pool.
func (r *Reconciler) Close() {
	r.pool.Shutdown()
}

// Snapshot returns the last committed view. The zero View means no refresh
// has succeeded yet.
func (r *Reconciler) Snapshot() View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view
}

// Refresh fetches available and joined in parallel and commits them as one
// view. If either fetch fails, nothing is committed and the previous view
// stays in place.
func (r *Reconciler) Refresh(ctx context.Context) (View, error) {
	var (
		wg        sync.WaitGroup
		available []models.Run
		joined    []models.Run
		availErr  error
		joinedErr error
	)

	wg.Add(1)
	if err := r.pool.SubmitWait(func() {
		defer wg.Done()
		available, availErr = r.gw.AvailableRuns(ctx)
	}); err != nil {
		wg.Done()
		return r.Snapshot(), err
	}

	wg.Add(1)
	if err := r.pool.SubmitWait(func() {
		defer wg.Done()
		joined, joinedErr = r.gw.JoinedRuns(ctx)
	}); err != nil {
		wg.Done()
		wg.Wait()
		return r.Snapshot(), err
	}

	wg.Wait()

	if availErr != nil {
		return r.Snapshot(), availErr
	}
	if joinedErr != nil {
		return r.Snapshot(), joinedErr
	}

	view := View{
		Available: available,
		Joined:    joined,
		UpdatedAt: time.Now(),
	}

	r.mu.Lock()
	r.view = view
	r.mu.Unlock()

	logger.Debug("reconciler: refreshed",
		"available", len(available), "joined", len(joined))
	event.Fire(RefreshedEvent, view)
	return view, nil
}

// Mine lists the caller's own active runs.
func (r *Reconciler) Mine(ctx context.Context) ([]models.Run, error) {
	return r.gw.MyRuns(ctx)
}

// MineHistory lists the caller's completed and cancelled runs.
func (r *Reconciler) MineHistory(ctx context.Context) ([]models.Run, error) {
	return r.gw.MyRunHistory(ctx)
}

// JoinedHistory lists finished runs the caller had joined.
func (r *Reconciler) JoinedHistory(ctx context.Context) ([]models.Run, error) {
	return r.gw.JoinedRunHistory(ctx)
}

// Detail fetches one run fresh from the backend.
func (r *Reconciler) Detail(ctx context.Context, runID uint) (models.Run, error) {
	return r.gw.RunByID(ctx, runID)
}

// ─── Mutate-then-refresh ──────────────────────────────────────────────────────
//
// Mutations never touch the cached view directly. Each helper performs the
// write and then re-fetches; the caller gets the post-mutation view.

// Unjoin removes the caller's order from the run and refreshes.
func (r *Reconciler) Unjoin(ctx context.Context, runID uint) (View, error) {
	if err := r.gw.UnjoinRun(ctx, runID); err != nil {
		return r.Snapshot(), err
	}
	return r.Refresh(ctx)
}

// RemoveOrder drops an order from a run the caller owns, then refreshes.
func (r *Reconciler) RemoveOrder(ctx context.Context, runID, orderID uint) (View, error) {
	if err := r.gw.RemoveOrder(ctx, runID, orderID); err != nil {
		return r.Snapshot(), err
	}
	return r.Refresh(ctx)
}

// Complete marks the caller's run completed, then refreshes.
func (r *Reconciler) Complete(ctx context.Context, runID uint) (models.CompleteResult, error) {
	result, err := r.gw.CompleteRun(ctx, runID)
	if err != nil {
		return result, err
	}
	_, err = r.Refresh(ctx)
	return result, err
}

// Cancel cancels the caller's run, then refreshes.
func (r *Reconciler) Cancel(ctx context.Context, runID uint) (View, error) {
	if err := r.gw.CancelRun(ctx, runID); err != nil {
		return r.Snapshot(), err
	}
	return r.Refresh(ctx)
}

// ─── Derived filters ──────────────────────────────────────────────────────────

// FilterAvailable restates the backend's availability rule on cached data:
// a run is joinable only when the user is not its runner, holds no order on
// it, and seats remain. Used to sanity-check stale snapshots before the
// next refresh lands.
func FilterAvailable(runs []models.Run, username string, joined []models.Run) []models.Run {
	joinedByID := collection.KeyBy(joined, func(run models.Run) uint { return run.ID })

	return collection.Filter(runs, func(run models.Run) bool {
		if run.RunnerUsername == username {
			return false
		}
		if _, already := joinedByID[run.ID]; already {
			return false
		}
		return run.SeatsRemaining > 0
	})
}
