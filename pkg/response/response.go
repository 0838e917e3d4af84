package response

import (
	"encoding/json"
	"net/http"
)

// FieldError is one entry in a 422 validation response.
type FieldError struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

func write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// JSON sends an arbitrary payload with the given status.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, data)
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, data)
}

// Created sends a 201 JSON response with data.
func Created(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusCreated, data)
}

// NoContent sends a bare 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Detail sends an error response shaped as {"detail": message}.
func Detail(w http.ResponseWriter, status int, message string) {
	write(w, status, map[string]string{"detail": message})
}

// ValidationFailed sends a 422 whose detail is a list of field errors.
func ValidationFailed(w http.ResponseWriter, errs map[string]string) {
	fields := make([]FieldError, 0, len(errs))
	for field, msg := range errs {
		fields = append(fields, FieldError{Loc: []string{"body", field}, Msg: msg})
	}
	write(w, http.StatusUnprocessableEntity, map[string]interface{}{"detail": fields})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	Detail(w, http.StatusUnauthorized, message)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	Detail(w, http.StatusNotFound, message)
}

// Conflict sends a 409.
func Conflict(w http.ResponseWriter, message string) {
	Detail(w, http.StatusConflict, message)
}

// BadRequest sends a 400.
func BadRequest(w http.ResponseWriter, message string) {
	Detail(w, http.StatusBadRequest, message)
}
