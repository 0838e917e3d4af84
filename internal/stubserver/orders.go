package stubserver

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/foodrun/app/models"
	"github.com/shashiranjanraj/foodrun/pkg/collection"
	"github.com/shashiranjanraj/foodrun/pkg/response"
)

type orderBody struct {
	Items  string  `json:"items"`
	Amount float64 `json:"amount"`
}

func decodeJSON(r *http.Request, dest interface{}) error {
	return json.NewDecoder(r.Body).Decode(dest)
}

// newPin draws a 4-digit pickup code.
func newPin() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// crypto/rand failing means the platform is broken; a fixed pin
		// keeps the stub usable regardless.
		return "0000"
	}
	return fmt.Sprintf("%04d", n.Int64())
}

func (s *Server) joinRun(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}

	var body orderBody
	if err := decodeJSON(r, &body); err != nil {
		response.BadRequest(w, "Malformed JSON body")
		return
	}

	if run.Status != models.RunActive {
		response.BadRequest(w, "Run is not active")
		return
	}
	if run.RunnerID == user.ID {
		response.BadRequest(w, "You cannot join your own run")
		return
	}
	if collection.Contains(run.Orders, func(o Order) bool { return o.UserID == user.ID }) {
		response.BadRequest(w, "Already joined")
		return
	}
	if run.Capacity-len(run.Orders) <= 0 {
		response.BadRequest(w, "Run is full")
		return
	}
	if body.Items == "" {
		response.BadRequest(w, "Order must contain items")
		return
	}
	if body.Amount < 0 {
		response.BadRequest(w, "Amount cannot be negative")
		return
	}

	order := Order{
		RunID:  run.ID,
		UserID: user.ID,
		Items:  body.Items,
		Amount: body.Amount,
		Pin:    newPin(),
		Status: models.OrderPending,
	}
	if err := s.db.Create(&order).Error; err != nil {
		response.Detail(w, http.StatusInternalServerError, "Could not create order")
		return
	}

	users := s.usersFor([]Run{run})
	users[user.ID] = user
	response.Created(w, orderJSON(order, users))
}

func (s *Server) unjoinRun(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}

	var order Order
	if err := s.db.Where("run_id = ? AND user_id = ?", run.ID, user.ID).
		First(&order).Error; err != nil {
		response.NotFound(w, "Order not found")
		return
	}

	if err := s.db.Delete(&order).Error; err != nil {
		response.Detail(w, http.StatusInternalServerError, "Could not remove order")
		return
	}
	response.NoContent(w)
}

func (s *Server) removeOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	if run.RunnerID != user.ID {
		response.Detail(w, http.StatusForbidden, "Not your run")
		return
	}

	order, ok := s.loadOrder(w, r, run)
	if !ok {
		return
	}

	if err := s.db.Delete(&order).Error; err != nil {
		response.Detail(w, http.StatusInternalServerError, "Could not remove order")
		return
	}
	response.NoContent(w)
}

func (s *Server) verifyPin(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	if run.RunnerID != user.ID {
		response.Detail(w, http.StatusForbidden, "Not your run")
		return
	}

	order, ok := s.loadOrder(w, r, run)
	if !ok {
		return
	}
	if order.Status == models.OrderDelivered {
		response.BadRequest(w, "Order already delivered")
		return
	}

	var body struct {
		Pin string `json:"pin"`
	}
	if err := decodeJSON(r, &body); err != nil {
		response.BadRequest(w, "Malformed JSON body")
		return
	}
	if body.Pin != order.Pin {
		response.BadRequest(w, "Incorrect PIN")
		return
	}

	if err := s.db.Model(&Order{}).Where("id = ?", order.ID).
		Update("status", models.OrderDelivered).Error; err != nil {
		response.Detail(w, http.StatusInternalServerError, "Could not update order")
		return
	}

	response.Success(w, map[string]string{"status": models.OrderDelivered})
}

// loadOrder parses {orderId} and fetches the order, requiring it to belong
// to run.
func (s *Server) loadOrder(w http.ResponseWriter, r *http.Request, run Run) (Order, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil {
		response.NotFound(w, "Order not found")
		return Order{}, false
	}

	var order Order
	if err := s.db.First(&order, uint(id)).Error; err != nil || order.RunID != run.ID {
		response.NotFound(w, "Order not found")
		return Order{}, false
	}
	return order, true
}
