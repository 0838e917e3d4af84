// Package gateway is the typed wrapper over the backend REST surface.
// One method per endpoint; every method normalizes failures into the
// apierr taxonomy so callers never parse response bodies themselves.
package gateway

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shashiranjanraj/foodrun/app/models"
	"github.com/shashiranjanraj/foodrun/pkg/apierr"
	fhttp "github.com/shashiranjanraj/foodrun/pkg/http"
	"github.com/shashiranjanraj/foodrun/pkg/metrics"
)

// TokenSource yields the current bearer token, or "" when logged out.
// The session store implements this.
type TokenSource interface {
	Token() string
}

// Client talks to one backend instance.
type Client struct {
	base   string
	tokens TokenSource
}

// New builds a client against base (no trailing slash needed).
func New(base string, tokens TokenSource) *Client {
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return &Client{base: base, tokens: tokens}
}

func (c *Client) url(path string) string {
	return c.base + path
}

// token returns the current bearer token or an AuthError. Authenticated
// operations call this before touching the network.
func (c *Client) token() (string, error) {
	t := c.tokens.Token()
	if t == "" {
		return "", apierr.NotAuthenticated()
	}
	return t, nil
}

// send executes the request and decodes a 2xx body into dest (skipped when
// dest is nil or the response is empty). Non-2xx responses become
// RemoteError; requests that never complete become TransportError.
func (c *Client) send(op string, req *fhttp.Request, dest interface{}) error {
	start := time.Now()

	resp, err := req.Send()
	if err != nil {
		metrics.ObserveAPICall(op, "transport", start)
		return &apierr.TransportError{Err: err}
	}
	metrics.ObserveAPICall(op, strconv.Itoa(resp.StatusCode), start)

	if !resp.OK() {
		return normalize(resp)
	}
	if dest == nil || resp.NoContent() {
		return nil
	}
	return resp.JSON(dest)
}

// ─── Auth ─────────────────────────────────────────────────────────────────────

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session. Invalid credentials surface as
// a RemoteError carrying the backend's message.
func (c *Client) Login(ctx context.Context, email, password string) (models.Session, error) {
	var session models.Session
	err := c.send("login",
		fhttp.Post(c.url("/auth/login")).
			Body(credentials{Email: email, Password: password}).
			WithContext(ctx),
		&session)
	return session, err
}

// Register creates an account and returns the fresh session.
func (c *Client) Register(ctx context.Context, email, password string) (models.Session, error) {
	var session models.Session
	err := c.send("register",
		fhttp.Post(c.url("/auth/register")).
			Body(credentials{Email: email, Password: password}).
			WithContext(ctx),
		&session)
	return session, err
}

// Me returns the account behind the current token.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	token, err := c.token()
	if err != nil {
		return user, err
	}
	err = c.send("me",
		fhttp.Get(c.url("/auth/me")).Bearer(token).WithContext(ctx),
		&user)
	return user, err
}

// ─── Points ───────────────────────────────────────────────────────────────────

// Points returns the current balance and its redeemable value.
func (c *Client) Points(ctx context.Context) (models.PointsSummary, error) {
	var summary models.PointsSummary
	token, err := c.token()
	if err != nil {
		return summary, err
	}
	err = c.send("points",
		fhttp.Get(c.url("/points")).Bearer(token).WithContext(ctx),
		&summary)
	return summary, err
}

// RedeemPoints converts the balance into credit. The backend rejects the
// call with a 400 when the balance is too low.
func (c *Client) RedeemPoints(ctx context.Context) (models.RedeemResult, error) {
	var result models.RedeemResult
	token, err := c.token()
	if err != nil {
		return result, err
	}
	err = c.send("redeem_points",
		fhttp.Post(c.url("/points/redeem")).Bearer(token).WithContext(ctx),
		&result)
	return result, err
}

// ─── Runs ─────────────────────────────────────────────────────────────────────

// CreateRun broadcasts a new run owned by the current user.
func (c *Client) CreateRun(ctx context.Context, draft models.RunDraft) (models.Run, error) {
	var run models.Run
	token, err := c.token()
	if err != nil {
		return run, err
	}
	err = c.send("create_run",
		fhttp.Post(c.url("/runs")).Bearer(token).Body(draft).WithContext(ctx),
		&run)
	return run, err
}

func (c *Client) listRuns(ctx context.Context, op, path string) ([]models.Run, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}
	var runs []models.Run
	err = c.send(op,
		fhttp.Get(c.url(path)).Bearer(token).WithContext(ctx),
		&runs)
	return runs, err
}

// AvailableRuns lists joinable runs: not owned by the caller, not already
// joined, seats remaining. The backend applies the filter; see the
// reconciler for the client-side restatement used on cached data.
func (c *Client) AvailableRuns(ctx context.Context) ([]models.Run, error) {
	return c.listRuns(ctx, "available_runs", "/runs/available")
}

// MyRuns lists active runs the caller owns.
func (c *Client) MyRuns(ctx context.Context) ([]models.Run, error) {
	return c.listRuns(ctx, "my_runs", "/runs/mine")
}

// JoinedRuns lists active runs the caller has an order on. Each entry's
// MyOrder carries the caller's own order, pin included.
func (c *Client) JoinedRuns(ctx context.Context) ([]models.Run, error) {
	return c.listRuns(ctx, "joined_runs", "/runs/joined")
}

// MyRunHistory lists the caller's completed and cancelled runs.
func (c *Client) MyRunHistory(ctx context.Context) ([]models.Run, error) {
	return c.listRuns(ctx, "my_run_history", "/runs/mine/history")
}

// JoinedRunHistory lists finished runs the caller had joined.
func (c *Client) JoinedRunHistory(ctx context.Context) ([]models.Run, error) {
	return c.listRuns(ctx, "joined_run_history", "/runs/joined/history")
}

// AllRuns lists every active run.
func (c *Client) AllRuns(ctx context.Context) ([]models.Run, error) {
	return c.listRuns(ctx, "all_runs", "/runs")
}

// RunByID fetches one run with its order list.
func (c *Client) RunByID(ctx context.Context, id uint) (models.Run, error) {
	var run models.Run
	token, err := c.token()
	if err != nil {
		return run, err
	}
	err = c.send("run_by_id",
		fhttp.Get(c.url(fmt.Sprintf("/runs/id/%d", id))).Bearer(token).WithContext(ctx),
		&run)
	return run, err
}

// ─── Orders ───────────────────────────────────────────────────────────────────

type joinBody struct {
	Items  string  `json:"items"`
	Amount float64 `json:"amount"`
}

// JoinRun places an order on the run. The response carries the assigned
// pickup PIN.
func (c *Client) JoinRun(ctx context.Context, runID uint, items string, amount float64) (models.Order, error) {
	var order models.Order
	token, err := c.token()
	if err != nil {
		return order, err
	}
	err = c.send("join_run",
		fhttp.Post(c.url(fmt.Sprintf("/runs/%d/orders", runID))).
			Bearer(token).
			Body(joinBody{Items: items, Amount: amount}).
			WithContext(ctx),
		&order)
	return order, err
}

// UnjoinRun removes the caller's own order from the run.
func (c *Client) UnjoinRun(ctx context.Context, runID uint) error {
	token, err := c.token()
	if err != nil {
		return err
	}
	return c.send("unjoin_run",
		fhttp.Delete(c.url(fmt.Sprintf("/runs/%d/orders/me", runID))).
			Bearer(token).WithContext(ctx),
		nil)
}

// RemoveOrder removes any order from a run the caller owns.
func (c *Client) RemoveOrder(ctx context.Context, runID, orderID uint) error {
	token, err := c.token()
	if err != nil {
		return err
	}
	return c.send("remove_order",
		fhttp.Delete(c.url(fmt.Sprintf("/runs/%d/orders/%d", runID, orderID))).
			Bearer(token).WithContext(ctx),
		nil)
}

type pinBody struct {
	Pin string `json:"pin"`
}

// VerifyPin submits a pickup PIN for the order. A match transitions the
// order to delivered; a mismatch comes back as a RemoteError.
func (c *Client) VerifyPin(ctx context.Context, runID, orderID uint, pin string) error {
	token, err := c.token()
	if err != nil {
		return err
	}
	return c.send("verify_pin",
		fhttp.Post(c.url(fmt.Sprintf("/runs/%d/orders/%d/verify-pin", runID, orderID))).
			Bearer(token).
			Body(pinBody{Pin: pin}).
			WithContext(ctx),
		nil)
}

// CompleteRun marks the caller's run completed and reports the points earned.
func (c *Client) CompleteRun(ctx context.Context, runID uint) (models.CompleteResult, error) {
	var result models.CompleteResult
	token, err := c.token()
	if err != nil {
		return result, err
	}
	err = c.send("complete_run",
		fhttp.Put(c.url(fmt.Sprintf("/runs/%d/complete", runID))).
			Bearer(token).WithContext(ctx),
		&result)
	return result, err
}

// CancelRun cancels the caller's run and drops its orders.
func (c *Client) CancelRun(ctx context.Context, runID uint) error {
	token, err := c.token()
	if err != nil {
		return err
	}
	return c.send("cancel_run",
		fhttp.Put(c.url(fmt.Sprintf("/runs/%d/cancel", runID))).
			Bearer(token).WithContext(ctx),
		nil)
}
