package stubserver

import (
	"time"

	"github.com/shashiranjanraj/foodrun/app/models"
	"github.com/shashiranjanraj/foodrun/pkg/collection"
)

// User is the persisted account row.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;size:255"`
	PasswordHash string
	Points       int
	CreatedAt    time.Time
}

// Run is the persisted run row. Seats are never stored: they derive from
// capacity minus the order count.
type Run struct {
	ID         uint `gorm:"primaryKey"`
	Restaurant string
	DropPoint  string
	Eta        string
	Capacity   int
	RunnerID   uint
	Status     string
	Orders     []Order
	CreatedAt  time.Time
}

// Order is one user's order on a run.
type Order struct {
	ID        uint `gorm:"primaryKey"`
	RunID     uint `gorm:"index"`
	UserID    uint `gorm:"index"`
	Items     string
	Amount    float64
	Pin       string
	Status    string
	CreatedAt time.Time
}

// userJSON renders a user the way the wire format expects: username
// carries the email.
func userJSON(u User) models.User {
	return models.User{ID: u.ID, Username: u.Email, Points: u.Points}
}

// runJSON renders a run for viewer. PINs are only exposed on the viewer's
// own order; my_order is attached when the viewer has one.
func runJSON(run Run, runner User, usersByID map[uint]User, viewer User) models.Run {
	orders := collection.Map(run.Orders, func(o Order) models.Order {
		out := orderJSON(o, usersByID)
		if o.UserID != viewer.ID {
			out.Pin = ""
		}
		return out
	})

	out := models.Run{
		ID:             run.ID,
		Restaurant:     run.Restaurant,
		DropPoint:      run.DropPoint,
		Eta:            run.Eta,
		Capacity:       run.Capacity,
		SeatsRemaining: run.Capacity - len(run.Orders),
		RunnerUsername: runner.Email,
		Status:         run.Status,
		Orders:         orders,
	}

	if mine, ok := collection.First(run.Orders, func(o Order) bool { return o.UserID == viewer.ID }); ok {
		my := orderJSON(mine, usersByID)
		out.MyOrder = &my
	}
	return out
}

// orderJSON renders an order with its pin included; callers strip the pin
// when the viewer is not entitled to it.
func orderJSON(o Order, usersByID map[uint]User) models.Order {
	email := ""
	if u, ok := usersByID[o.UserID]; ok {
		email = u.Email
	}
	return models.Order{
		ID:        o.ID,
		UserEmail: email,
		Items:     o.Items,
		Amount:    o.Amount,
		Pin:       o.Pin,
		Status:    o.Status,
	}
}
