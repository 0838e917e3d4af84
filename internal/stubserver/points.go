package stubserver

import (
	"net/http"

	"github.com/shashiranjanraj/foodrun/app/models"
	"github.com/shashiranjanraj/foodrun/pkg/response"
)

// pointsPerDollar converts the balance into redeemable credit.
// Redemption happens in whole dollars only.
const pointsPerDollar = 10

func (s *Server) points(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}
	response.Success(w, models.PointsSummary{
		Points:      user.Points,
		PointsValue: user.Points / pointsPerDollar,
	})
}

func (s *Server) redeemPoints(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	redeemable := user.Points - user.Points%pointsPerDollar
	if redeemable < pointsPerDollar {
		response.BadRequest(w, "Insufficient points")
		return
	}

	remaining := user.Points - redeemable
	if err := s.db.Model(&User{}).Where("id = ?", user.ID).
		Update("points", remaining).Error; err != nil {
		response.Detail(w, http.StatusInternalServerError, "Could not redeem points")
		return
	}

	response.Success(w, models.RedeemResult{
		PointsRedeemed:  redeemable,
		PointsRemaining: remaining,
	})
}
