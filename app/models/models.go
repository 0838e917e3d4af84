package models

// User is the authenticated account as the backend reports it.
// Username carries the account email.
type User struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Points   int    `json:"points"`
}

// Session pairs the logged-in user with their bearer token.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Run statuses as the backend emits them.
const (
	RunActive    = "active"
	RunPaid      = "paid"
	RunArrived   = "arrived"
	RunCompleted = "completed"
	RunCancelled = "cancelled"
)

// Order statuses.
const (
	OrderPending   = "pending"
	OrderDelivered = "delivered"
)

// Order is one joining user's selection attached to a run.
// Pin is only populated on responses the caller is entitled to see it on
// (their own order, or orders on a run they own).
type Order struct {
	ID        uint    `json:"id"`
	UserEmail string  `json:"user_email"`
	Items     string  `json:"items"`
	Amount    float64 `json:"amount"`
	Pin       string  `json:"pin,omitempty"`
	Status    string  `json:"status"`
}

// Run is a broadcast food-pickup trip. The backend owns it; clients hold
// a read-mostly cached copy and re-fetch rather than patch.
type Run struct {
	ID             uint    `json:"id"`
	Restaurant     string  `json:"restaurant"`
	DropPoint      string  `json:"drop_point"`
	Eta            string  `json:"eta"`
	Capacity       int     `json:"capacity"`
	SeatsRemaining int     `json:"seats_remaining"`
	RunnerUsername string  `json:"runner_username"`
	Status         string  `json:"status"`
	Orders         []Order `json:"orders,omitempty"`

	// MyOrder is set on "joined" listings: the requesting user's own order,
	// pin included.
	MyOrder *Order `json:"my_order,omitempty"`
}

// Active reports whether the run still accepts pickups.
func (r Run) Active() bool {
	return r.Status == RunActive
}

// PointsSummary is the GET /points payload.
type PointsSummary struct {
	Points      int `json:"points"`
	PointsValue int `json:"points_value"`
}

// RedeemResult is the POST /points/redeem payload.
type RedeemResult struct {
	PointsRedeemed  int `json:"points_redeemed"`
	PointsRemaining int `json:"points_remaining"`
}

// CompleteResult is the PUT /runs/{id}/complete payload.
type CompleteResult struct {
	Status       string `json:"status"`
	PointsEarned int    `json:"points_earned"`
}

// RunDraft is the client-side input for creating a run.
type RunDraft struct {
	Restaurant string `json:"restaurant" validate:"required,max=100"`
	DropPoint  string `json:"drop_point" validate:"required,max=100"`
	Eta        string `json:"eta"        validate:"required"`
	Capacity   int    `json:"capacity"   validate:"required,gte=1,lte=20"`
}
