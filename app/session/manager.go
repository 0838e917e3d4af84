package session

import (
	"context"

	"github.com/shashiranjanraj/foodrun/app/gateway"
	"github.com/shashiranjanraj/foodrun/app/models"
	"github.com/shashiranjanraj/foodrun/pkg/apierr"
	"github.com/shashiranjanraj/foodrun/pkg/logger"
	"github.com/shashiranjanraj/foodrun/pkg/validate"
)

// Manager orchestrates login, register and logout against the gateway,
// persisting the result through the Store.
type Manager struct {
	store *Store
	gw    *gateway.Client
}

func NewManager(store *Store, gw *gateway.Client) *Manager {
	return &Manager{store: store, gw: gw}
}

// Store exposes the underlying session store for read access.
func (m *Manager) Store() *Store { return m.store }

type credentialsInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Login validates input locally, exchanges credentials, and persists the
// resulting session. Input problems surface as ValidationError without a
// network round trip.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if errs := validate.Struct(credentialsInput{Email: email, Password: password}); validate.HasErrors(errs) {
		return nil, &apierr.ValidationError{Fields: errs}
	}

	session, err := m.gw.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := m.store.Save(session); err != nil {
		return nil, err
	}

	logger.Info("session: logged in", "user", session.User.Username)
	return m.store.Current(), nil
}

// Register creates the account and persists the returned session, so a
// fresh signup is immediately logged in.
func (m *Manager) Register(ctx context.Context, email, password string) (*models.Session, error) {
	if errs := validate.Struct(credentialsInput{Email: email, Password: password}); validate.HasErrors(errs) {
		return nil, &apierr.ValidationError{Fields: errs}
	}

	session, err := m.gw.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := m.store.Save(session); err != nil {
		return nil, err
	}

	logger.Info("session: registered", "user", session.User.Username)
	return m.store.Current(), nil
}

// Logout clears the persisted session. Purely local: the backend holds no
// server-side session state to revoke.
func (m *Manager) Logout() error {
	user := ""
	if s := m.store.Current(); s != nil {
		user = s.User.Username
	}
	if err := m.store.Clear(); err != nil {
		return err
	}
	logger.Info("session: logged out", "user", user)
	return nil
}
