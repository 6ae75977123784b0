package komari

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
)

// FetchClients opens a short-lived WebSocket session to
// {wsURL}/api/clients, requests one status snapshot with a "get" text
// frame, decodes the single reply and closes. The Origin header is set
// to the paired HTTP base URL so the handshake looks like the dashboard
// frontend. Each call dials a fresh socket; there is no reconnect or
// keep-alive reuse.
func FetchClients(httpURL, wsURL string) (ClientsSnapshot, error) {
	var zero ClientsSnapshot

	header := http.Header{}
	header.Set("Origin", httpURL)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"/api/clients", header)
	if err != nil {
		return zero, fmt.Errorf("cannot reach the websocket endpoint: %w", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("get")); err != nil {
		return zero, fmt.Errorf("sending snapshot request: %w", err)
	}

	_, frame, err := conn.ReadMessage()
	if err != nil {
		return zero, fmt.Errorf("reading snapshot: %w", err)
	}

	var env envelope[ClientsSnapshot]
	if err := json.Unmarshal(frame, &env); err != nil {
		return zero, fmt.Errorf("decoding snapshot: %w", err)
	}
	return env.Data, nil
}
