package gateway_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodrun/app/gateway"
	"github.com/shashiranjanraj/foodrun/app/models"
	"github.com/shashiranjanraj/foodrun/pkg/apierr"
	fhttp "github.com/shashiranjanraj/foodrun/pkg/http"
	"github.com/shashiranjanraj/foodrun/pkg/testkit"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newClient(t *testing.T, token string) (*gateway.Client, *testkit.MockTransport) {
	t.Helper()

	mt := testkit.NewMockTransport()
	fhttp.DefaultClient.Transport = mt
	t.Cleanup(fhttp.ResetTransport)

	return gateway.New("http://api.test", staticToken(token)), mt
}

func TestLogin_Success(t *testing.T) {
	client, mt := newClient(t, "")
	mt.StubJSON("POST", "/auth/login", 200, models.Session{
		User:  models.User{ID: 7, Username: "user@ncsu.edu"},
		Token: "tok-123",
	})

	session, err := client.Login(context.Background(), "user@ncsu.edu", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "tok-123", session.Token)
	assert.Equal(t, "user@ncsu.edu", session.User.Username)
	testkit.AssertBodyField(t, mt.LastCall(), "email", "user@ncsu.edu")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	client, mt := newClient(t, "")
	mt.StubJSON("POST", "/auth/login", 401, map[string]string{"detail": "Invalid credentials"})

	_, err := client.Login(context.Background(), "user@ncsu.edu", "wrong")

	var remote *apierr.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "Invalid credentials (401)", err.Error())
	assert.Equal(t, "Invalid credentials", apierr.Display(err))
	assert.Equal(t, 401, remote.StatusCode)
}

func TestRegister_ValidationArrayJoined(t *testing.T) {
	client, mt := newClient(t, "")
	mt.StubJSON("POST", "/auth/register", 422, map[string]interface{}{
		"detail": []map[string]string{
			{"msg": "Invalid email"},
			{"msg": "Password too short"},
		},
	})

	_, err := client.Register(context.Background(), "bad", "x")

	require.Error(t, err)
	assert.Equal(t, "Invalid email; Password too short (422)", err.Error())
}

func TestSend_UnparseableBodyFallsBack(t *testing.T) {
	client, mt := newClient(t, "tok")
	mt.Stub("GET", "/runs/available", 500, []byte("<html>boom</html>"))

	_, err := client.AvailableRuns(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Request failed (500)", err.Error())
}

func TestAuthedCall_NoTokenFailsBeforeNetwork(t *testing.T) {
	client, mt := newClient(t, "")

	_, err := client.AvailableRuns(context.Background())

	var authErr *apierr.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Not authenticated", err.Error())
	assert.Empty(t, mt.Calls, "no request must be issued without a token")
}

func TestTransportError_PropagatesUnchanged(t *testing.T) {
	client, mt := newClient(t, "tok")
	mt.StubError("GET", "/runs/joined", errors.New("dial tcp: connection refused"))

	_, err := client.JoinedRuns(context.Background())

	var transport *apierr.TransportError
	require.ErrorAs(t, err, &transport)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestJoinRun_SendsItemsAndAmount(t *testing.T) {
	client, mt := newClient(t, "tok")
	mt.StubJSON("POST", "/runs/5/orders", 201, models.Order{
		ID: 42, Items: "1x Burger", Amount: 10, Pin: "4821", Status: models.OrderPending,
	})

	order, err := client.JoinRun(context.Background(), 5, "1x Burger", 10)

	require.NoError(t, err)
	assert.Equal(t, "4821", order.Pin)
	call := mt.LastCall()
	testkit.AssertBodyField(t, call, "items", "1x Burger")
	testkit.AssertBodyField(t, call, "amount", 10.0)
	assert.Equal(t, "Bearer tok", call.Header.Get("Authorization"))
}

func TestUnjoinRun_NoContent(t *testing.T) {
	client, mt := newClient(t, "tok")
	mt.Stub("DELETE", "/runs/5/orders/me", 204, nil)

	err := client.UnjoinRun(context.Background(), 5)

	require.NoError(t, err)
	testkit.AssertMocksAllCalled(t, mt)
}

func TestVerifyPin_WrongPinSurfacesDetail(t *testing.T) {
	client, mt := newClient(t, "tok")
	mt.StubJSON("POST", "/runs/5/orders/42/verify-pin", 400, map[string]string{"detail": "Incorrect PIN"})

	err := client.VerifyPin(context.Background(), 5, 42, "0000")

	require.Error(t, err)
	assert.Equal(t, "Incorrect PIN", apierr.Display(err))
}

func TestCompleteRun_DecodesPointsEarned(t *testing.T) {
	client, mt := newClient(t, "tok")
	mt.StubJSON("PUT", "/runs/9/complete", 200, models.CompleteResult{
		Status: models.RunCompleted, PointsEarned: 10,
	})

	result, err := client.CompleteRun(context.Background(), 9)

	require.NoError(t, err)
	assert.Equal(t, 10, result.PointsEarned)
}

func TestListRuns_Decode(t *testing.T) {
	client, mt := newClient(t, "tok")
	mt.StubJSON("GET", "/runs/joined", 200, []models.Run{
		{
			ID: 3, Restaurant: "Taco Bell", RunnerUsername: "alice@ncsu.edu",
			SeatsRemaining: 2, Status: models.RunActive,
			MyOrder: &models.Order{ID: 42, Pin: "7311", Status: models.OrderPending},
		},
	})

	runs, err := client.JoinedRuns(context.Background())

	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.NotNil(t, runs[0].MyOrder)
	assert.Equal(t, "7311", runs[0].MyOrder.Pin)
}

func TestErrorField_FallbackKeys(t *testing.T) {
	client, mt := newClient(t, "tok")
	mt.StubJSON("GET", "/runs/mine", 403, map[string]string{"error": "Forbidden action"})

	_, err := client.MyRuns(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Forbidden action (403)", err.Error())
}
