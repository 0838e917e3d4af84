// Package stubserver is a self-contained rendition of the coordination
// backend, used by `foodrun dev` and the integration tests. It mirrors the
// production API's routes, status codes and error bodies so the client
// stack can be exercised end to end without the real service.
package stubserver

import (
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodrun/config"
	"github.com/shashiranjanraj/foodrun/pkg/database"
	"github.com/shashiranjanraj/foodrun/pkg/logger"
	"github.com/shashiranjanraj/foodrun/pkg/metrics"
	"github.com/shashiranjanraj/foodrun/pkg/middleware"
	"github.com/shashiranjanraj/foodrun/pkg/router"
)

// Server carries the DB handle and the wired router.
type Server struct {
	db     *gorm.DB
	router *router.Router
}

// New wires all routes on top of db. Migrations must already have run;
// see Migrate.
func New(db *gorm.DB) *Server {
	s := &Server{db: db, router: router.New()}

	r := s.router
	r.Use(middleware.Recovery)
	r.Use(metrics.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))

	auth := r.Group("/auth")
	auth.Post("/register", "auth.register", s.register)
	auth.Post("/login", "auth.login", s.login)
	auth.Get("/me", "auth.me", s.me, middleware.Auth)

	points := r.Group("/points", middleware.Auth)
	points.Get("", "points.show", s.points)
	points.Post("/redeem", "points.redeem", s.redeemPoints)

	runs := r.Group("/runs", middleware.Auth)
	runs.Post("", "runs.create", s.createRun)
	runs.Get("", "runs.all", s.allRuns)
	runs.Get("/available", "runs.available", s.availableRuns)
	runs.Get("/mine", "runs.mine", s.myRuns)
	runs.Get("/joined", "runs.joined", s.joinedRuns)
	runs.Get("/mine/history", "runs.mine.history", s.myRunHistory)
	runs.Get("/joined/history", "runs.joined.history", s.joinedRunHistory)
	runs.Get("/id/{id}", "runs.show", s.runByID)
	runs.Put("/{id}/complete", "runs.complete", s.completeRun)
	runs.Put("/{id}/cancel", "runs.cancel", s.cancelRun)
	runs.Post("/{id}/orders", "orders.create", s.joinRun)
	runs.Delete("/{id}/orders/me", "orders.unjoin", s.unjoinRun)
	runs.Delete("/{id}/orders/{orderId}", "orders.remove", s.removeOrder)
	runs.Post("/{id}/orders/{orderId}/verify-pin", "orders.verify", s.verifyPin)

	r.Get("/metrics", "metrics", metrics.Handler())

	return s
}

// Handler returns the root handler, suitable for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.router.Handler()
}

// Migrate creates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Run{}, &Order{})
}

// Start boots a standalone instance on APP_PORT. Used by `foodrun dev`.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := database.Connect(); err != nil {
		return err
	}
	if err := Migrate(database.DB); err != nil {
		return err
	}

	srv := New(database.DB)
	addr := ":" + config.AppPort()
	logger.Info("stubserver: listening", "addr", addr)
	fmt.Println("foodrun dev backend on " + addr)
	return http.ListenAndServe(addr, srv.Handler())
}
