package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/havenplan/layout/pkg/core"
	"github.com/havenplan/layout/pkg/streaming"
)

// Version reported in the hello handshake.
const clientVersion = "1.0.0"

// Config holds WebSocket backend configuration.
type Config struct {
	URL    string
	Secret string
}

// Backend relays layout collections over WebSocket so several editors can
// share one live layout. It implements storage.Backend and storage.Watcher
// but not storage.Snapshotter.
type Backend struct {
	conn *connection
	cfg  Config
}

// New creates a new WebSocket storage backend.
func New(cfg Config) *Backend {
	return &Backend{
		conn: newConnection(slog.Default()),
		cfg:  cfg,
	}
}

// Init connects to the relay and performs the hello handshake.
func (b *Backend) Init() error {
	if err := b.conn.dial(b.cfg.URL, b.cfg.Secret); err != nil {
		return err
	}

	data, err := marshalEnvelope(streaming.TypeHello, streaming.HelloPayload{
		Client:  "havenplan",
		Version: clientVersion,
	})
	if err != nil {
		return err
	}

	// Cache for reconnect replay.
	b.conn.mu.Lock()
	b.conn.cachedHelloMsg = data
	b.conn.mu.Unlock()

	return b.conn.sendAndWait(data, streaming.TypeHello, ackTimeout)
}

// Close disconnects from the relay.
func (b *Backend) Close() error {
	return b.conn.close()
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// sendEnvelope marshals the payload into an Envelope and pushes it
// to the write loop (fire-and-forget).
func (b *Backend) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	b.conn.send(data)
	return nil
}

// SaveZones relays the full zone collection.
func (b *Backend) SaveZones(zones []core.Zone) error {
	return b.sendEnvelope(streaming.TypeSaveZones, zones)
}

// SavePiers relays the full pier collection.
func (b *Backend) SavePiers(piers []core.Pier) error {
	return b.sendEnvelope(streaming.TypeSavePiers, piers)
}

// SaveSlots relays the full slot collection.
func (b *Backend) SaveSlots(slots []core.Slot) error {
	return b.sendEnvelope(streaming.TypeSaveSlots, slots)
}

// SaveBoats relays the full boat collection.
func (b *Backend) SaveBoats(boats []core.Boat) error {
	return b.sendEnvelope(streaming.TypeSaveBoats, boats)
}

// LoadLayout requests the current layout from the relay and waits for the
// response.
func (b *Backend) LoadLayout() (core.Layout, error) {
	data, err := marshalEnvelope(streaming.TypeLoadLayout, nil)
	if err != nil {
		return core.Layout{}, err
	}
	return b.conn.requestLayout(data, ackTimeout)
}

// Watch returns the channel of layout updates pushed by other editors.
func (b *Backend) Watch() <-chan core.Layout {
	return b.conn.watchCh
}
