package websocket

import "encoding/json"

// Envelope is the wire format for inbound client events: a named event and
// a raw payload the owning module decodes.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Reserved outbound event names emitted by the bridge itself.
const (
	EventConnectionReady = "connectionReady"
	EventError           = "error"
)

// ConnectionReady is sent to a client immediately after the upgrade
// completes, carrying the connection ID it can use to correlate direct
// errors.
type ConnectionReady struct {
	ConnectionID string `json:"connectionId"`
	Username     string `json:"username"`
}

// errorEvent builds the payload for a bridge-level error sent to one client.
func errorEvent(message string) ([]byte, error) {
	return json.Marshal(struct {
		Event   string `json:"event"`
		Payload any    `json:"payload"`
	}{
		Event:   EventError,
		Payload: map[string]string{"message": message},
	})
}
