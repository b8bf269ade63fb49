package events

import "time"

// Event types carried on a delivery channel.
const (
	TypeConnected    = "connected"
	TypeNotification = "notification"
)

// Event is a single payload pushed to a live delivery channel. Payloads
// are serialized as one JSON object per line on the stream endpoint.
type Event struct {
	Type    string    `json:"type"`
	Payload any       `json:"payload,omitempty"`
	Time    time.Time `json:"time"`
}
