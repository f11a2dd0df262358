package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversPublishedEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/ws", func(c *gin.Context) { ServeWs(hub, c) })
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	// registration happens asynchronously, keep publishing until the client sees one
	var got Event
	deadline := time.Now().Add(3 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))
	received := make(chan error, 1)
	go func() {
		_, data, err := conn.ReadMessage()
		if err == nil {
			err = json.Unmarshal(data, &got)
		}
		received <- err
	}()

	for {
		hub.Publish("invoice.recorded", map[string]int{"invoice_id": 7})
		select {
		case err := <-received:
			require.NoError(t, err)
			assert.Equal(t, "invoice.recorded", got.Event)
			return
		case <-time.After(50 * time.Millisecond):
			require.True(t, time.Now().Before(deadline), "no event received")
		}
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub()
	for i := 0; i < broadcastBuffer*2; i++ {
		hub.Publish("export.built", i)
	}
	assert.Len(t, hub.Broadcast, broadcastBuffer)
}

func TestRunStopsOnCancel(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- hub.Run(ctx) }()

	cancel()
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	_, open := <-hub.done
	assert.False(t, open)
}
