package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestPublishReachesTopicSubscribersOnly(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(4)
	a := hub.Subscribe(1)
	b := hub.Subscribe(1)
	other := hub.Subscribe(2)
	defer a.Close()
	defer b.Close()
	defer other.Close()

	assert.Equal(t, 2, hub.Publish(1, []byte("hello")))
	assert.Equal(t, "hello", string(<-a.C))
	assert.Equal(t, "hello", string(<-b.C))

	select {
	case msg := <-other.C:
		t.Fatalf("unexpected message on other topic: %s", msg)
	default:
	}
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(1)
	slow := hub.Subscribe(7)

	assert.Equal(t, 1, hub.Publish(7, []byte("one")))
	assert.Equal(t, 0, hub.Publish(7, []byte("two")))
	assert.Equal(t, 0, hub.Subscribers(7))

	msg, ok := <-slow.C
	require.True(t, ok)
	assert.Equal(t, "one", string(msg))
	_, ok = <-slow.C
	assert.False(t, ok, "channel should be closed after drop")

	// closing an already dropped subscription is a no-op
	slow.Close()
}

func TestCloseIsIdempotent(t *testing.T) {
	hub := NewHub(0)
	sub := hub.Subscribe(3)
	assert.Equal(t, 1, hub.Subscribers(3))
	sub.Close()
	sub.Close()
	assert.Equal(t, 0, hub.Subscribers(3))
	assert.Equal(t, 0, hub.Publish(3, []byte("nobody")))
}

func TestServeWSStreamsPublishedMessages(t *testing.T) {
	hub := NewHub(4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, 42)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers(42) == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(42, []byte(`{"Content":"hi"}`))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, kind)
	assert.JSONEq(t, `{"Content":"hi"}`, string(msg))

	conn.Close()
	require.Eventually(t, func() bool { return hub.Subscribers(42) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServeWSChecksOrigin(t *testing.T) {
	hub := NewHub(4, "http://localhost:3000")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, 9)
	}))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	dial := func(origin string) (*websocket.Conn, *http.Response, error) {
		header := http.Header{}
		if origin != "" {
			header.Set("Origin", origin)
		}
		return websocket.DefaultDialer.Dial(url, header)
	}

	conn, resp, err := dial("https://evil.example")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Nil(t, conn)

	for _, origin := range []string{"", "http://localhost:3000", "HTTP://LOCALHOST:3000/", srv.URL} {
		conn, _, err := dial(origin)
		require.NoError(t, err, origin)
		conn.Close()
	}

	require.Eventually(t, func() bool { return hub.Subscribers(9) == 0 }, 2*time.Second, 10*time.Millisecond)
}
