package streaming

import (
	"encoding/json"
)

// Message type constants matching the relay protocol.
const (
	TypeHello      = "hello"
	TypeSaveZones  = "save_zones"
	TypeSavePiers  = "save_piers"
	TypeSaveSlots  = "save_slots"
	TypeSaveBoats  = "save_boats"
	TypeLoadLayout = "load_layout"
	TypeLayout     = "layout"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// HelloPayload identifies this editor instance to the relay.
type HelloPayload struct {
	Client  string `json:"client"`
	Version string `json:"version"`
}
