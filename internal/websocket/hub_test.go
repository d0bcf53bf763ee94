package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()

	hub := NewHub(zerolog.Nop())
	hub.SetSnapshot("watchlist:snapshot", func() interface{} {
		return map[string]int{"movies": 2}
	})

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	e := echo.New()
	e.GET("/ws", hub.HandleWebSocket)
	server := httptest.NewServer(e)

	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	return hub, "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHub_SnapshotAndBroadcast(t *testing.T) {
	hub, url := startHub(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	msg := readMessage(t, conn)
	assert.Equal(t, "watchlist:snapshot", msg.Type)
	assert.NotEmpty(t, msg.Timestamp)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Broadcast("watchlist:added", map[string]string{"name": "Heat"}))
	msg = readMessage(t, conn)
	assert.Equal(t, "watchlist:added", msg.Type)
	payload, ok := msg.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Heat", payload["name"])
}

func TestHub_Sync(t *testing.T) {
	_, url := startHub(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(Message{Type: SyncMessageType}))
	msg := readMessage(t, conn)
	assert.Equal(t, "watchlist:snapshot", msg.Type)
}

func TestHub_UnregisterOnClose(t *testing.T) {
	hub, url := startHub(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastNeverBlocks(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	var queueFull bool
	for i := 0; i < 300; i++ {
		if err := hub.Broadcast("tick", i); err != nil {
			assert.ErrorIs(t, err, ErrBroadcastQueueFull)
			queueFull = true
			break
		}
	}
	assert.True(t, queueFull)
}
