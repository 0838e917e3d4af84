// Package workflow drives the two user-facing flows with real failure
// modes: joining a run (menu, cart, order, PIN) and runner-side PIN
// verification.
package workflow

import (
	"context"

	"github.com/shashiranjanraj/foodrun/app/gateway"
	"github.com/shashiranjanraj/foodrun/app/models"
	"github.com/shashiranjanraj/foodrun/app/reconciler"
	"github.com/shashiranjanraj/foodrun/app/session"
	"github.com/shashiranjanraj/foodrun/pkg/apierr"
	"github.com/shashiranjanraj/foodrun/pkg/logger"
)

// JoinState is the join workflow's position.
type JoinState int

const (
	Idle JoinState = iota
	MenuOpen
	Submitting
	Succeeded
)

// Join walks one user through ordering onto a run. One instance per
// attempt; the cart lives only inside it.
type Join struct {
	gw      *gateway.Client
	rec     *reconciler.Reconciler
	session *session.Store

	state JoinState
	run   models.Run
	cart  *models.Cart
}

func NewJoin(gw *gateway.Client, rec *reconciler.Reconciler, sess *session.Store) *Join {
	return &Join{gw: gw, rec: rec, session: sess, state: Idle}
}

// State returns the current position in the flow.
func (j *Join) State() JoinState { return j.state }

// Cart returns the in-progress cart, or nil before Open.
func (j *Join) Cart() *models.Cart { return j.cart }

// Run returns the run being joined.
func (j *Join) Run() models.Run { return j.run }

// Open starts the flow against run with a fresh cart. Owning the run, a
// finished run, or a full run is rejected here so no request is wasted.
func (j *Join) Open(run models.Run) error {
	if j.state == Submitting {
		return apierr.Validation("A join is already in progress")
	}

	current := j.session.Current()
	if current == nil {
		return apierr.NotAuthenticated()
	}
	if run.RunnerUsername == current.User.Username {
		return apierr.Validation("You cannot join your own run")
	}
	if !run.Active() {
		return apierr.Validation("This run is no longer active")
	}
	if run.SeatsRemaining <= 0 {
		return apierr.Validation("This run is full")
	}

	j.run = run
	j.cart = models.NewCart()
	j.state = MenuOpen
	return nil
}

// Confirm packages the cart and places the order. On success it returns
// the assigned pickup PIN; the caller must show it immediately, it is not
// retained anywhere client-side. On failure the flow returns to MenuOpen
// with the cart intact so the user can retry.
func (j *Join) Confirm(ctx context.Context) (string, error) {
	if j.state != MenuOpen {
		return "", apierr.Validation("No menu is open")
	}
	if j.cart.Empty() {
		return "", apierr.Validation("Add at least one item before confirming")
	}

	items := j.cart.Description()
	amount := j.cart.Total()

	j.state = Submitting
	order, err := j.gw.JoinRun(ctx, j.run.ID, items, amount)
	if err != nil {
		j.state = MenuOpen
		return "", err
	}

	j.state = Succeeded
	j.cart = nil

	logger.Info("workflow: joined run",
		"run", j.run.ID, "order", order.ID, "amount", amount)

	if j.rec != nil {
		if _, err := j.rec.Refresh(ctx); err != nil {
			// The order went through; a stale list is the only consequence.
			logger.Warn("workflow: post-join refresh failed", "error", err)
		}
	}

	return order.Pin, nil
}

// Cancel abandons the flow and discards the cart. Never touches the
// backend: nothing was committed before Confirm.
func (j *Join) Cancel() {
	if j.state == Submitting {
		return
	}
	j.cart = nil
	j.state = Idle
}
