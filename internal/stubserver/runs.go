package stubserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodrun/app/models"
	"github.com/shashiranjanraj/foodrun/pkg/collection"
	"github.com/shashiranjanraj/foodrun/pkg/response"
	"github.com/shashiranjanraj/foodrun/pkg/validate"
)

var finishedStatuses = []string{models.RunCompleted, models.RunCancelled}

// completionPoints is the flat award for finishing a run.
const completionPoints = 10

type runBody struct {
	Restaurant string `json:"restaurant" validate:"required,max=100"`
	DropPoint  string `json:"drop_point" validate:"required,max=100"`
	Eta        string `json:"eta"        validate:"required"`
	Capacity   int    `json:"capacity"   validate:"required,gte=1,lte=20"`
}

func (s *Server) createRun(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	var body runBody
	if err := decodeJSON(r, &body); err != nil {
		response.BadRequest(w, "Malformed JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationFailed(w, errs)
		return
	}

	run := Run{
		Restaurant: body.Restaurant,
		DropPoint:  body.DropPoint,
		Eta:        body.Eta,
		Capacity:   body.Capacity,
		RunnerID:   user.ID,
		Status:     models.RunActive,
	}
	if err := s.db.Create(&run).Error; err != nil {
		response.Detail(w, http.StatusInternalServerError, "Could not create run")
		return
	}

	response.Created(w, s.render(run, user))
}

func (s *Server) allRuns(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	var runs []Run
	if err := s.db.Preload("Orders").
		Where("status NOT IN ?", finishedStatuses).
		Find(&runs).Error; err != nil {
		response.Detail(w, http.StatusInternalServerError, "Could not list runs")
		return
	}
	s.renderList(w, runs, user)
}

func (s *Server) availableRuns(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	var runs []Run
	if err := s.db.Preload("Orders").
		Where("status = ?", models.RunActive).
		Where("runner_id <> ?", user.ID).
		Find(&runs).Error; err != nil {
		response.Detail(w, http.StatusInternalServerError, "Could not list runs")
		return
	}

	joinable := collection.Filter(runs, func(run Run) bool {
		if run.Capacity-len(run.Orders) <= 0 {
			return false
		}
		return !collection.Contains(run.Orders, func(o Order) bool { return o.UserID == user.ID })
	})
	s.renderList(w, joinable, user)
}

func (s *Server) myRuns(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	var runs []Run
	if err := s.db.Preload("Orders").
		Where("runner_id = ?", user.ID).
		Where("status NOT IN ?", finishedStatuses).
		Find(&runs).Error; err != nil {
		response.Detail(w, http.StatusInternalServerError, "Could not list runs")
		return
	}
	s.renderList(w, runs, user)
}

func (s *Server) myRunHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	var runs []Run
	if err := s.db.Preload("Orders").
		Where("runner_id = ?", user.ID).
		Where("status IN ?", finishedStatuses).
		Find(&runs).Error; err != nil {
		response.Detail(w, http.StatusInternalServerError, "Could not list runs")
		return
	}
	s.renderList(w, runs, user)
}

func (s *Server) joinedRuns(w http.ResponseWriter, r *http.Request) {
	s.listJoined(w, r, false)
}

func (s *Server) joinedRunHistory(w http.ResponseWriter, r *http.Request) {
	s.listJoined(w, r, true)
}

func (s *Server) listJoined(w http.ResponseWriter, r *http.Request, history bool) {
	user, ok := s.currentUser(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	query := s.db.Preload("Orders").
		Where("id IN (?)", s.db.Model(&Order{}).Select("run_id").Where("user_id = ?", user.ID))
	if history {
		query = query.Where("status IN ?", finishedStatuses)
	} else {
		query = query.Where("status NOT IN ?", finishedStatuses)
	}

	var runs []Run
	if err := query.Find(&runs).Error; err != nil {
		response.Detail(w, http.StatusInternalServerError, "Could not list runs")
		return
	}
	s.renderList(w, runs, user)
}

func (s *Server) runByID(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	response.Success(w, s.render(run, user))
}

func (s *Server) completeRun(w http.ResponseWriter, r *http.Request) {
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
	if containsString(finishedStatuses, run.Status) {
		response.BadRequest(w, "Run already finished")
		return
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Run{}).Where("id = ?", run.ID).
			Update("status", models.RunCompleted).Error; err != nil {
			return err
		}
		return tx.Model(&User{}).Where("id = ?", user.ID).
			Update("points", gorm.Expr("points + ?", completionPoints)).Error
	})
	if err != nil {
		response.Detail(w, http.StatusInternalServerError, "Could not complete run")
		return
	}

	response.Success(w, models.CompleteResult{
		Status:       models.RunCompleted,
		PointsEarned: completionPoints,
	})
}

func (s *Server) cancelRun(w http.ResponseWriter, r *http.Request) {
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
	if containsString(finishedStatuses, run.Status) {
		response.BadRequest(w, "Run already finished")
		return
	}

	// Cancelling drops every order with it.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id = ?", run.ID).Delete(&Order{}).Error; err != nil {
			return err
		}
		return tx.Model(&Run{}).Where("id = ?", run.ID).
			Update("status", models.RunCancelled).Error
	})
	if err != nil {
		response.Detail(w, http.StatusInternalServerError, "Could not cancel run")
		return
	}

	response.Success(w, map[string]string{"status": models.RunCancelled})
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

// loadRun parses {id} and fetches the run with its orders, answering 404
// itself when missing.
func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) (Run, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.NotFound(w, "Run not found")
		return Run{}, false
	}

	var run Run
	if err := s.db.Preload("Orders").First(&run, uint(id)).Error; err != nil {
		response.NotFound(w, "Run not found")
		return Run{}, false
	}
	return run, true
}

// usersFor loads every user referenced by the runs (runners and order owners).
func (s *Server) usersFor(runs []Run) map[uint]User {
	ids := make(map[uint]struct{})
	for _, run := range runs {
		ids[run.RunnerID] = struct{}{}
		for _, o := range run.Orders {
			ids[o.UserID] = struct{}{}
		}
	}

	idList := make([]uint, 0, len(ids))
	for id := range ids {
		idList = append(idList, id)
	}

	var users []User
	s.db.Where("id IN ?", idList).Find(&users)
	return collection.KeyBy(users, func(u User) uint { return u.ID })
}

func (s *Server) render(run Run, viewer User) models.Run {
	users := s.usersFor([]Run{run})
	return runJSON(run, users[run.RunnerID], users, viewer)
}

func (s *Server) renderList(w http.ResponseWriter, runs []Run, viewer User) {
	users := s.usersFor(runs)
	out := collection.Map(runs, func(run Run) models.Run {
		return runJSON(run, users[run.RunnerID], users, viewer)
	})
	response.Success(w, out)
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
