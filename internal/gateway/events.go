package gateway

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	walleterr "github.com/mrz1836/devwallet/pkg/errors"
)

// EventKind identifies a wallet-originated event.
type EventKind string

// Wallet event kinds (EIP-1193 event names).
const (
	EventAccountsChanged EventKind = "accountsChanged"
	EventChainChanged    EventKind = "chainChanged"
	EventDisconnect      EventKind = "disconnect"
)

// Event is a wallet-originated notification.
type Event struct {
	Kind     EventKind
	Accounts []string // populated for accountsChanged
	ChainID  string   // populated for chainChanged, lowercase hex
}

// EventFeed listens for wallet events over a websocket connection. Events are
// delivered on the channel returned by Events; the channel closes when the
// feed ends, after a final disconnect event if the connection dropped.
type EventFeed struct {
	conn   *websocket.Conn
	events chan Event

	closeOnce sync.Once
	closed    chan struct{}
}

// DialEvents connects to the wallet's event endpoint and starts the feed.
func DialEvents(ctx context.Context, url string) (*EventFeed, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.ErrGatewayUnavailable,
			"connecting to wallet event feed at %s", url)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	feed := &EventFeed{
		conn:   conn,
		events: make(chan Event, 8),
		closed: make(chan struct{}),
	}
	go feed.readLoop()
	return feed, nil
}

// Events returns the event delivery channel.
func (f *EventFeed) Events() <-chan Event {
	return f.events
}

// Close tears down the feed. Safe to call more than once.
func (f *EventFeed) Close() {
	f.closeOnce.Do(func() {
		close(f.closed)
		_ = f.conn.Close()
	})
}

// notification is the wire shape of a wallet event: a JSON-RPC notification
// whose method is the event name.
type notification struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

func (f *EventFeed) readLoop() {
	defer close(f.events)

	for {
		_, msg, err := f.conn.ReadMessage()
		if err != nil {
			select {
			case <-f.closed:
				// Deliberate teardown; no disconnect event.
			default:
				f.events <- Event{Kind: EventDisconnect}
			}
			return
		}

		var note notification
		if err := json.Unmarshal(msg, &note); err != nil {
			continue
		}

		event, ok := decodeEvent(note)
		if !ok {
			continue
		}

		select {
		case f.events <- event:
		case <-f.closed:
			return
		}
	}
}

// decodeEvent converts a wire notification into an Event. Unknown methods
// and malformed params are dropped.
func decodeEvent(note notification) (Event, bool) {
	switch EventKind(note.Method) {
	case EventAccountsChanged:
		var accounts []string
		if err := json.Unmarshal(note.Params, &accounts); err != nil {
			return Event{}, false
		}
		return Event{Kind: EventAccountsChanged, Accounts: accounts}, true

	case EventChainChanged:
		var chainID string
		if err := json.Unmarshal(note.Params, &chainID); err != nil {
			// Some wallets wrap the chain id in a one-element array.
			var wrapped []string
			if err := json.Unmarshal(note.Params, &wrapped); err != nil || len(wrapped) == 0 {
				return Event{}, false
			}
			chainID = wrapped[0]
		}
		return Event{Kind: EventChainChanged, ChainID: strings.ToLower(chainID)}, true

	case EventDisconnect:
		return Event{Kind: EventDisconnect}, true
	}

	return Event{}, false
}
