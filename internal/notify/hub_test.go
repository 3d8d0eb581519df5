package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"localmart-be/internal/auth"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsURL(ts *httptest.Server, token string) string {
	u := "ws" + strings.TrimPrefix(ts.URL, "http")
	if token != "" {
		u += "?token=" + token
	}
	return u
}

func TestHub_RejectsUnauthenticated(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hub := NewHub()
	ts := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer ts.Close()

	t.Run("NoToken", func(t *testing.T) {
		resp, err := http.Get(ts.URL)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("BadToken", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, "garbage"), nil)
		assert.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestHub_PublishReachesSubscriber(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hub := NewHub()
	ts := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer ts.Close()

	token, err := auth.GenerateJWT(7, "vendor@example.com", "vendor")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, token), nil)
	require.NoError(t, err)
	defer conn.Close()

	// Wait for registration before publishing.
	require.Eventually(t, func() bool {
		return hub.ConnectionCount(7) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish(7, Event{Type: EventNewOrder, Data: map[string]interface{}{"orderId": 42}})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got Event
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, EventNewOrder, got.Type)

	data := got.Data.(map[string]interface{})
	assert.Equal(t, float64(42), data["orderId"])
}

func TestHub_PublishToOtherUserNotDelivered(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hub := NewHub()
	ts := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer ts.Close()

	token, err := auth.GenerateJWT(7, "vendor@example.com", "vendor")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, token), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.ConnectionCount(7) == 1
	}, time.Second, 10*time.Millisecond)

	// Event for a different user must not arrive on this connection.
	hub.Publish(99, Event{Type: EventOrderStatusUpdated})

	_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestHub_PublishWithoutSubscribersIsNoop(t *testing.T) {
	hub := NewHub()
	// Must not block or panic.
	hub.Publish(1, Event{Type: EventNewOrder})
	assert.Equal(t, 0, hub.ConnectionCount(1))
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	p.Publish(1, Event{Type: EventNewOrder})
}
