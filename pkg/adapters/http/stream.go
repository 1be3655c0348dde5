package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/devcraft/internal/logging"
	"github.com/aretw0/devcraft/pkg/domain"
	"github.com/aretw0/devcraft/pkg/ports"
)

// SSE event names.
const (
	EventPing  = "ping"
	EventState = "state"
	EventToast = "toast"
)

// Event is one server-sent event.
type Event struct {
	Name string
	Data string
}

// StreamManager handles active SSE connections.
// It doubles as the workflow's Publisher and Notifier, forwarding diffs and
// toasts to the browser tabs of the owning session.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- Event]struct{} // SessionID -> Set of Channels
	logger      *slog.Logger
}

var (
	_ ports.Publisher = (*StreamManager)(nil)
	_ ports.Notifier  = (*StreamManager)(nil)
)

// NewStreamManager creates an empty manager. A nil logger discards output.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan<- Event]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a listener for sessionID. The returned func unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(sessionID string) (<-chan Event, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Event, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- Event]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[sessionID]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(sm.subscribers, sessionID)
				}
			}
		})
	}
}

// Subscribers returns how many listeners sessionID has.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}

// Broadcast sends evt to every listener of sessionID without blocking.
func (sm *StreamManager) Broadcast(sessionID string, evt Event) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- evt:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "session_id", sessionID, "event", evt.Name)
		}
	}
}

// Publish forwards a state diff as a "state" event.
func (sm *StreamManager) Publish(_ context.Context, diff *domain.StateDiff) {
	sm.send(diff.SessionID, EventState, diff)
}

// Notify forwards a toast as a "toast" event.
func (sm *StreamManager) Notify(_ context.Context, sessionID string, n domain.Notification) {
	sm.send(sessionID, EventToast, n)
}

func (sm *StreamManager) send(sessionID, name string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		sm.logger.Error("SSE: Failed to encode event", "event", name, "err", err)
		return
	}
	sm.Broadcast(sessionID, Event{Name: name, Data: string(data)})
}
