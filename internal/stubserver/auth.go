package stubserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodrun/pkg/auth"
	"github.com/shashiranjanraj/foodrun/pkg/middleware"
	"github.com/shashiranjanraj/foodrun/pkg/response"
	"github.com/shashiranjanraj/foodrun/pkg/validate"
)

type credentialsBody struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// currentUser resolves the authenticated account from the JWT claims.
func (s *Server) currentUser(r *http.Request) (User, bool) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		return User{}, false
	}
	var user User
	if err := s.db.First(&user, claims.UserID).Error; err != nil {
		return User{}, false
	}
	return user, true
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Malformed JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationFailed(w, errs)
		return
	}

	var existing User
	if err := s.db.Where("email = ?", body.Email).First(&existing).Error; err == nil {
		response.Conflict(w, "Email already registered")
		return
	}

	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		response.Detail(w, http.StatusInternalServerError, "Could not hash password")
		return
	}

	user := User{Email: body.Email, PasswordHash: hash}
	if err := s.db.Create(&user).Error; err != nil {
		response.Detail(w, http.StatusInternalServerError, "Could not create user")
		return
	}

	s.sessionResponse(w, user, http.StatusCreated)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Malformed JSON body")
		return
	}

	var user User
	err := s.db.Where("email = ?", body.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !auth.CheckPassword(user.PasswordHash, body.Password)) {
		response.Unauthorized(w, "Invalid credentials")
		return
	}
	if err != nil {
		response.Detail(w, http.StatusInternalServerError, "Lookup failed")
		return
	}

	s.sessionResponse(w, user, http.StatusOK)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}
	response.Success(w, userJSON(user))
}

// sessionResponse issues a token and writes the {user, token} pair.
func (s *Server) sessionResponse(w http.ResponseWriter, user User, status int) {
	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		response.Detail(w, http.StatusInternalServerError, "Could not issue token")
		return
	}
	response.JSON(w, status, map[string]interface{}{
		"user":  userJSON(user),
		"token": token,
	})
}
