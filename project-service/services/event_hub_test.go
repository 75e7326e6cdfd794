package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, allowedOrigins ...string) (*EventHub, *httptest.Server, func(actor Actor, header http.Header) (*websocket.Conn, *http.Response, error)) {
	t.Helper()
	hub := NewEventHub(allowedOrigins, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	var actors sync.Map
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, _ := actors.Load(r.URL.Query().Get("as"))
		_ = hub.Serve(w, r, actor.(Actor))
	}))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	dial := func(actor Actor, header http.Header) (*websocket.Conn, *http.Response, error) {
		name := uuid.NewString()
		actors.Store(name, actor)
		url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?as=" + name
		conn, resp, err := websocket.DefaultDialer.Dial(url, header)
		if conn != nil {
			t.Cleanup(func() { conn.Close() })
		}
		return conn, resp, err
	}
	return hub, server, dial
}

func readMessage(t *testing.T, conn *websocket.Conn, timeout time.Duration) (map[string]interface{}, error) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(timeout)))
	var msg map[string]interface{}
	err := conn.ReadJSON(&msg)
	return msg, err
}

func TestEventHubDeliversToSameOrganizationOnly(t *testing.T) {
	hub, _, dial := startHub(t)
	orgA, orgB := uuid.New(), uuid.New()

	connA, _, err := dial(Actor{UserID: uuid.New(), OrganizationID: orgA}, nil)
	require.NoError(t, err)
	connB, _, err := dial(Actor{UserID: uuid.New(), OrganizationID: orgB}, nil)
	require.NoError(t, err)

	for _, conn := range []*websocket.Conn{connA, connB} {
		welcome, err := readMessage(t, conn, time.Second)
		require.NoError(t, err)
		assert.Equal(t, "connection", welcome["type"])
	}
	assert.Equal(t, 1, hub.ConnectionCount(orgA))

	projectID := uuid.New()
	hub.Publish(ProjectEvent{Type: EventProjectCreated, OrganizationID: orgA, ProjectID: projectID, Timestamp: time.Now()})

	msg, err := readMessage(t, connA, time.Second)
	require.NoError(t, err)
	assert.Equal(t, string(EventProjectCreated), msg["type"])
	assert.Equal(t, projectID.String(), msg["projectId"])

	_, err = readMessage(t, connB, 200*time.Millisecond)
	assert.Error(t, err)
}

func TestEventHubAnswersPing(t *testing.T) {
	_, _, dial := startHub(t)
	conn, _, err := dial(Actor{UserID: uuid.New(), OrganizationID: uuid.New()}, nil)
	require.NoError(t, err)

	_, err = readMessage(t, conn, time.Second)
	require.NoError(t, err)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	msg, err := readMessage(t, conn, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "pong", msg["type"])
}

func TestEventHubRejectsUnknownOrigin(t *testing.T) {
	_, _, dial := startHub(t, "http://localhost:5173")

	header := http.Header{}
	header.Set("Origin", "http://evil.example")
	_, resp, err := dial(Actor{UserID: uuid.New(), OrganizationID: uuid.New()}, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "http://localhost:5173")
	conn, _, err := dial(Actor{UserID: uuid.New(), OrganizationID: uuid.New()}, header)
	require.NoError(t, err)
	assert.NotNil(t, conn)
}

func TestEventHubUnregistersOnClose(t *testing.T) {
	hub, _, dial := startHub(t)
	orgID := uuid.New()
	conn, _, err := dial(Actor{UserID: uuid.New(), OrganizationID: orgID}, nil)
	require.NoError(t, err)
	_, err = readMessage(t, conn, time.Second)
	require.NoError(t, err)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ConnectionCount(orgID) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestProjectEventJSON(t *testing.T) {
	data, err := json.Marshal(ProjectEvent{Type: EventProjectDeleted})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"project.deleted"`)
}

func TestPublishDropsWhenQueueFull(t *testing.T) {
	hub := NewEventHub(nil, nil)
	for i := 0; i < cap(hub.broadcast)+10; i++ {
		hub.Publish(ProjectEvent{Type: EventProjectUpdated})
	}
	assert.Len(t, hub.broadcast, cap(hub.broadcast))
}
