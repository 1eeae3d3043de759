package controller

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sharetube/seekguard/internal/repository/connection/inmemory"
	playerRedis "github.com/sharetube/seekguard/internal/repository/player/redis"
	"github.com/sharetube/seekguard/internal/service/player"
	"github.com/sharetube/seekguard/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = "https://cdn.example.com/lesson.mp4"

type testOutput struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type mountedPayload struct {
	SessionID     string   `json:"session_id"`
	ViewToken     string   `json:"view_token"`
	PreventedKeys []string `json:"prevented_keys"`
}

type playerPayload struct {
	Player struct {
		IsDragging      bool    `json:"is_dragging"`
		CurrentTime     float64 `json:"current_time"`
		Duration        float64 `json:"duration"`
		FurthestReached float64 `json:"furthest_reached"`
	} `json:"player"`
}

type connCloser interface {
	CloseAll(context.Context)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv, _ := newTestServerWithService(t)
	return srv
}

func newTestServerWithService(t *testing.T) (*httptest.Server, connCloser) {
	t.Helper()

	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { rc.Close() })

	resolver, err := source.NewResolver(context.Background(), source.Config{})
	require.NoError(t, err)

	svc := player.NewService(
		playerRedis.NewRepo(rc, time.Hour),
		inmemory.NewRepo(slog.Default()),
		resolver,
		&player.Config{Secret: "test-secret", TokenTTL: time.Hour},
		slog.Default(),
	)

	srv := httptest.NewServer(NewController(svc, slog.Default()).GetMux())
	t.Cleanup(srv.Close)

	return srv, svc
}

func playerURL(srv *httptest.Server, mediaSource string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/player?source=" + url.QueryEscape(mediaSource)
}

func mount(t *testing.T, srv *httptest.Server) (*websocket.Conn, mountedPayload) {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(playerURL(srv, testSource), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var mounted mountedPayload
	readPayload(t, conn, "PLAYER_MOUNTED", &mounted)
	require.NotEmpty(t, mounted.SessionID)
	require.NotEmpty(t, mounted.ViewToken)

	return conn, mounted
}

func send(t *testing.T, conn *websocket.Conn, messageType string, payload any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]any{"type": messageType, "payload": payload}))
}

// next reads the next output, failing the test if none arrives in time.
func next(t *testing.T, conn *websocket.Conn) testOutput {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var output testOutput
	require.NoError(t, conn.ReadJSON(&output))
	return output
}

// readPayload skips outputs until one of messageType arrives.
func readPayload(t *testing.T, conn *websocket.Conn, messageType string, dst any) {
	t.Helper()

	for {
		output := next(t, conn)
		if output.Type != messageType {
			continue
		}
		if dst != nil {
			require.NoError(t, json.Unmarshal(output.Payload, dst))
		}
		return
	}
}

// playTo loads metadata and reports playback in small steps up to furthest.
func playTo(t *testing.T, conn *websocket.Conn, duration, furthest float64) {
	t.Helper()

	send(t, conn, "LOADED_METADATA", map[string]any{"duration": duration})
	readPayload(t, conn, "PLAYER_UPDATED", nil)

	for tick := 0.5; tick <= furthest; tick += 0.5 {
		send(t, conn, "TIME_UPDATE", map[string]any{"current_time": tick})
		readPayload(t, conn, "PLAYER_UPDATED", nil)
	}
}

func TestMountPlayer(t *testing.T) {
	srv := newTestServer(t)

	_, mounted := mount(t, srv)
	assert.Contains(t, mounted.PreventedKeys, "ArrowRight")
}

func TestMountPlayerBadSource(t *testing.T) {
	srv := newTestServer(t)

	for _, mediaSource := range []string{"", "ftp://cdn.example.com/a.mp4", "s3://lesson.mp4"} {
		resp, err := http.Get(srv.URL + "/api/v1/ws/player?source=" + url.QueryEscape(mediaSource))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "source %q", mediaSource)
	}
}

func TestCloseAllUnmountsPlayers(t *testing.T) {
	srv, svc := newTestServerWithService(t)
	conn, mounted := mount(t, srv)

	svc.CloseAll(context.Background())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "unexpected error: %v", err)

	assert.Eventually(t, func() bool {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/player/"+mounted.SessionID, nil)
		if err != nil {
			return false
		}
		req.Header.Set("Authorization", "Bearer "+mounted.ViewToken)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusNotFound
	}, 2*time.Second, 20*time.Millisecond)
}

func TestOverflowingDragIsDropped(t *testing.T) {
	srv := newTestServer(t)
	conn, _ := mount(t, srv)
	playTo(t, conn, 100, 20)

	send(t, conn, "BEGIN_DRAG", map[string]any{"pointer_x": 1e308, "bar_left": -1e308, "bar_width": 1})
	send(t, conn, "KEY_DOWN", map[string]any{"key": "ArrowRight"})

	output := next(t, conn)
	require.Equal(t, "PREVENT_DEFAULT", output.Type)
	assert.JSONEq(t, `{"event":"keydown","key":"ArrowRight"}`, string(output.Payload))
}

func TestForwardSkipIsReset(t *testing.T) {
	srv := newTestServer(t)
	conn, _ := mount(t, srv)
	playTo(t, conn, 100, 20)

	send(t, conn, "TIME_UPDATE", map[string]any{"current_time": 45})

	output := next(t, conn)
	require.Equal(t, "SEEK_TO", output.Type)
	assert.JSONEq(t, `{"time":20}`, string(output.Payload))
}

func TestSeekingIsClamped(t *testing.T) {
	srv := newTestServer(t)
	conn, _ := mount(t, srv)
	playTo(t, conn, 100, 10)

	send(t, conn, "SEEKING", map[string]any{"current_time": 80})

	output := next(t, conn)
	require.Equal(t, "SEEK_TO", output.Type)
	assert.JSONEq(t, `{"time":10}`, string(output.Payload))
}

func TestPreventedInput(t *testing.T) {
	srv := newTestServer(t)
	conn, _ := mount(t, srv)

	send(t, conn, "KEY_DOWN", map[string]any{"key": "ArrowRight"})
	output := next(t, conn)
	require.Equal(t, "PREVENT_DEFAULT", output.Type)
	assert.JSONEq(t, `{"event":"keydown","key":"ArrowRight"}`, string(output.Payload))

	send(t, conn, "VIDEO_CLICK", nil)
	output = next(t, conn)
	require.Equal(t, "PREVENT_DEFAULT", output.Type)
	assert.JSONEq(t, `{"event":"click"}`, string(output.Payload))

	send(t, conn, "RATE_CHANGE", map[string]any{"playback_rate": 2})
	output = next(t, conn)
	require.Equal(t, "SET_PLAYBACK_RATE", output.Type)
	assert.JSONEq(t, `{"playback_rate":1}`, string(output.Payload))
}

func TestInvalidPayload(t *testing.T) {
	srv := newTestServer(t)
	conn, _ := mount(t, srv)

	send(t, conn, "KEY_DOWN", map[string]any{"key": ""})
	output := next(t, conn)
	assert.Equal(t, "ERROR", output.Type)

	send(t, conn, "LOADED_METADATA", "not an object")
	output = next(t, conn)
	assert.Equal(t, "ERROR", output.Type)

	send(t, conn, "LOADED_METADATA", map[string]any{"duration": 1e300})
	output = next(t, conn)
	require.Equal(t, "ERROR", output.Type)
	assert.Contains(t, string(output.Payload), "duration must be at most 604800")

	send(t, conn, "FAST_FORWARD", nil)
	output = next(t, conn)
	assert.Equal(t, "ERROR", output.Type)

	// connection stays usable
	send(t, conn, "KEY_DOWN", map[string]any{"key": "l"})
	assert.Equal(t, "PREVENT_DEFAULT", next(t, conn).Type)
}

func TestDragListeners(t *testing.T) {
	srv := newTestServer(t)
	conn, _ := mount(t, srv)
	playTo(t, conn, 100, 20)

	// no drag in progress, move is dropped without an error
	send(t, conn, "DRAG_MOVE", map[string]any{"pointer_x": 10, "bar_left": 0, "bar_width": 100})
	send(t, conn, "KEY_DOWN", map[string]any{"key": "."})
	require.Equal(t, "PREVENT_DEFAULT", next(t, conn).Type)

	send(t, conn, "BEGIN_DRAG", map[string]any{"pointer_x": 50, "bar_left": 0, "bar_width": 100})
	output := next(t, conn)
	require.Equal(t, "DRAG_REJECTED", output.Type)
	assert.JSONEq(t, `{"requested_time":50,"furthest_reached":20}`, string(output.Payload))

	send(t, conn, "BEGIN_DRAG", map[string]any{"pointer_x": 15, "bar_left": 0, "bar_width": 100})
	output = next(t, conn)
	require.Equal(t, "SEEK_TO", output.Type)
	assert.JSONEq(t, `{"time":15}`, string(output.Payload))
	var state playerPayload
	readPayload(t, conn, "PLAYER_UPDATED", &state)
	assert.True(t, state.Player.IsDragging)

	// reports are ignored while dragging
	send(t, conn, "TIME_UPDATE", map[string]any{"current_time": 90})
	send(t, conn, "DRAG_MOVE", map[string]any{"pointer_x": 5, "bar_left": 0, "bar_width": 100})
	output = next(t, conn)
	require.Equal(t, "SEEK_TO", output.Type)
	assert.JSONEq(t, `{"time":5}`, string(output.Payload))
	readPayload(t, conn, "PLAYER_UPDATED", &state)
	assert.Equal(t, 5.0, state.Player.CurrentTime)
	assert.Equal(t, 20.0, state.Player.FurthestReached)

	send(t, conn, "DRAG_END", nil)
	readPayload(t, conn, "PLAYER_UPDATED", &state)
	assert.False(t, state.Player.IsDragging)

	// listeners are detached again
	send(t, conn, "DRAG_MOVE", map[string]any{"pointer_x": 10, "bar_left": 0, "bar_width": 100})
	send(t, conn, "KEY_DOWN", map[string]any{"key": ">"})
	require.Equal(t, "PREVENT_DEFAULT", next(t, conn).Type)
}

func TestRewind(t *testing.T) {
	srv := newTestServer(t)
	conn, _ := mount(t, srv)
	playTo(t, conn, 100, 30)

	send(t, conn, "REWIND", nil)
	output := next(t, conn)
	require.Equal(t, "SEEK_TO", output.Type)
	assert.JSONEq(t, `{"time":20}`, string(output.Payload))

	var state playerPayload
	readPayload(t, conn, "PLAYER_UPDATED", &state)
	assert.Equal(t, 20.0, state.Player.CurrentTime)
	assert.Equal(t, 20.0, state.Player.FurthestReached)
}

func TestGetPlayer(t *testing.T) {
	srv := newTestServer(t)
	conn, mounted := mount(t, srv)
	playTo(t, conn, 100, 5)

	get := func(sessionID, token string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/player/"+sessionID, nil)
		require.NoError(t, err)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := get(mounted.SessionID, mounted.ViewToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Player struct {
			Progress float64 `json:"progress"`
			Elapsed  string  `json:"elapsed"`
			Total    string  `json:"total"`
		} `json:"player"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 5.0, body.Player.Progress)
	assert.Equal(t, "0:05", body.Player.Elapsed)
	assert.Equal(t, "1:40", body.Player.Total)

	assert.Equal(t, http.StatusUnauthorized, get(mounted.SessionID, "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, get(mounted.SessionID, "garbage").StatusCode)

	_, other := mount(t, srv)
	assert.Equal(t, http.StatusUnauthorized, get(mounted.SessionID, other.ViewToken).StatusCode)

	// closing the connection unmounts the player
	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool {
		return get(mounted.SessionID, mounted.ViewToken).StatusCode == http.StatusNotFound
	}, 2*time.Second, 20*time.Millisecond)
}
