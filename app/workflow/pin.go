package workflow

import (
	"context"
	"regexp"

	"github.com/shashiranjanraj/foodrun/app/gateway"
	"github.com/shashiranjanraj/foodrun/app/models"
	"github.com/shashiranjanraj/foodrun/app/reconciler"
	"github.com/shashiranjanraj/foodrun/pkg/apierr"
	"github.com/shashiranjanraj/foodrun/pkg/logger"
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// PinVerifier is the runner-side handoff confirmation: match a submitted
// PIN against an order and flip it to delivered.
type PinVerifier struct {
	gw  *gateway.Client
	rec *reconciler.Reconciler
}

func NewPinVerifier(gw *gateway.Client, rec *reconciler.Reconciler) *PinVerifier {
	return &PinVerifier{gw: gw, rec: rec}
}

// Verify checks pin against the order and, on a match, returns the run
// re-fetched so the caller sees the delivered status. Malformed input and
// state guards are resolved locally, before any network call.
func (v *PinVerifier) Verify(ctx context.Context, run models.Run, order models.Order, pin string) (models.Run, error) {
	if order.Status == models.OrderDelivered {
		return run, apierr.Validation("Order already delivered")
	}
	if !run.Active() {
		return run, apierr.Validation("Run is not active")
	}
	if !pinPattern.MatchString(pin) {
		return run, apierr.Validation("PIN must be exactly 4 digits")
	}

	if err := v.gw.VerifyPin(ctx, run.ID, order.ID, pin); err != nil {
		return run, err
	}

	logger.Info("workflow: order delivered", "run", run.ID, "order", order.ID)
	return v.rec.Detail(ctx, run.ID)
}
