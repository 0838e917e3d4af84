package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodrun/app/gateway"
	"github.com/shashiranjanraj/foodrun/app/models"
	"github.com/shashiranjanraj/foodrun/app/session"
	"github.com/shashiranjanraj/foodrun/pkg/apierr"
	"github.com/shashiranjanraj/foodrun/pkg/event"
	fhttp "github.com/shashiranjanraj/foodrun/pkg/http"
	"github.com/shashiranjanraj/foodrun/pkg/kvstore"
	"github.com/shashiranjanraj/foodrun/pkg/testkit"
)

func newManager(t *testing.T) (*session.Manager, *session.Store, *testkit.MockTransport) {
	t.Helper()

	mt := testkit.NewMockTransport()
	fhttp.DefaultClient.Transport = mt
	t.Cleanup(fhttp.ResetTransport)

	store := session.NewStore(kvstore.NewMemory())
	gw := gateway.New("http://api.test", store)
	return session.NewManager(store, gw), store, mt
}

func TestLogin_PersistsSessionAndFiresEvent(t *testing.T) {
	mgr, store, mt := newManager(t)
	mt.StubJSON("POST", "/auth/login", 200, models.Session{
		User:  models.User{ID: 1, Username: "user@ncsu.edu"},
		Token: "tok-abc",
	})

	var observed *models.Session
	event.Listen(session.ChangedEvent, func(payload interface{}) {
		observed, _ = payload.(*models.Session)
	})

	got, err := mgr.Login(context.Background(), "user@ncsu.edu", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "tok-abc", got.Token)
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "tok-abc", store.Token())
	require.NotNil(t, observed)
	assert.Equal(t, "user@ncsu.edu", observed.User.Username)
}

func TestLogin_LocalValidationSkipsNetwork(t *testing.T) {
	mgr, _, mt := newManager(t)

	_, err := mgr.Login(context.Background(), "not-an-email", "secret123")

	require.True(t, apierr.IsValidation(err))
	assert.Empty(t, mt.Calls)
}

func TestLogin_ShortPasswordRejectedLocally(t *testing.T) {
	mgr, _, mt := newManager(t)

	_, err := mgr.Login(context.Background(), "user@ncsu.edu", "abc")

	require.True(t, apierr.IsValidation(err))
	assert.Empty(t, mt.Calls)
}

func TestLogin_BadCredentialsLeaveStoreLoggedOut(t *testing.T) {
	mgr, store, mt := newManager(t)
	mt.StubJSON("POST", "/auth/login", 401, map[string]string{"detail": "Invalid credentials"})

	_, err := mgr.Login(context.Background(), "user@ncsu.edu", "wrong-pass")

	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", apierr.Display(err))
	assert.False(t, store.IsAuthenticated())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	mgr, _, mt := newManager(t)
	mt.StubJSON("POST", "/auth/register", 409, map[string]string{"detail": "Email already registered"})

	_, err := mgr.Register(context.Background(), "user@ncsu.edu", "secret123")

	require.Error(t, err)
	assert.Equal(t, "Email already registered (409)", err.Error())
}

func TestLogout_ThenAuthenticatedCallFails(t *testing.T) {
	mgr, store, mt := newManager(t)
	mt.StubJSON("POST", "/auth/login", 200, models.Session{
		User:  models.User{ID: 1, Username: "user@ncsu.edu"},
		Token: "tok-abc",
	})

	_, err := mgr.Login(context.Background(), "user@ncsu.edu", "secret123")
	require.NoError(t, err)
	require.NoError(t, mgr.Logout())

	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())

	gw := gateway.New("http://api.test", store)
	_, err = gw.AvailableRuns(context.Background())
	require.True(t, apierr.IsAuth(err))
	assert.Equal(t, "Not authenticated", err.Error())
}

func TestNewStore_RestoresPersistedSession(t *testing.T) {
	kv := kvstore.NewMemory()
	require.NoError(t, kv.Set("auth", models.Session{
		User:  models.User{ID: 2, Username: "back@ncsu.edu"},
		Token: "tok-persisted",
	}))

	store := session.NewStore(kv)

	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "tok-persisted", store.Token())
}

func TestNewStore_EmptyStoreIsLoggedOut(t *testing.T) {
	store := session.NewStore(kvstore.NewMemory())

	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.Current())
}
