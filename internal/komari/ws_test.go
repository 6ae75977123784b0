package komari

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

// snapshotServer upgrades /api/clients, expects one "get" frame and
// answers with the given payload.
func snapshotServer(t *testing.T, payload string, gotOrigin *string) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/clients" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if gotOrigin != nil {
			*gotOrigin = r.Header.Get("Origin")
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		mt, frame, err := conn.ReadMessage()
		if err != nil {
			t.Errorf("read: %v", err)
			return
		}
		if mt != websocket.TextMessage || string(frame) != "get" {
			t.Errorf("expected text frame \"get\", got type %d %q", mt, frame)
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte(payload))
	}))
}

func wsURL(s *httptest.Server) string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func TestFetchClients(t *testing.T) {
	t.Parallel()

	payload := `{"status":"success","data":{
		"online":["a-node"],
		"data":{"a-node":{
			"cpu":{"usage":42.5},
			"ram":{"total":1024,"used":512},
			"swap":{"total":0,"used":0},
			"load":{"load1":1.5,"load5":1.0,"load15":0.5},
			"disk":{"total":2048,"used":1024},
			"network":{"up":100,"down":200,"totalUp":1000,"totalDown":2000},
			"connections":{"tcp":3,"udp":1},
			"uptime":360,
			"process":42
		}}
	}}`

	var origin string
	s := snapshotServer(t, payload, &origin)
	defer s.Close()

	snap, err := FetchClients("http://dashboard.example", wsURL(s))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if origin != "http://dashboard.example" {
		t.Errorf("origin = %q, want the paired HTTP base URL", origin)
	}
	if len(snap.Online) != 1 || snap.Online[0] != "a-node" {
		t.Fatalf("online = %v", snap.Online)
	}
	m, ok := snap.Data["a-node"]
	if !ok {
		t.Fatal("a-node metrics missing")
	}
	if m.CPU.Usage != 42.5 || m.Network.TotalDown != 2000 || m.Uptime != 360 || m.Process != 42 {
		t.Fatalf("metrics decoded wrong: %+v", m)
	}
}

func TestFetchClients_BadPayload(t *testing.T) {
	t.Parallel()

	s := snapshotServer(t, "definitely not json", nil)
	defer s.Close()

	if _, err := FetchClients("http://x", wsURL(s)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFetchClients_DialFailure(t *testing.T) {
	t.Parallel()

	// Port 0 can never be dialed.
	if _, err := FetchClients("http://x", "ws://127.0.0.1:0"); err == nil {
		t.Fatal("expected dial error")
	}
}
