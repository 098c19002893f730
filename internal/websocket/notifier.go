package websocket

import "time"

// SessionNotifier adapts the hub to the Notifier contracts used by the
// orchestrator and the reference resolver: fire-and-forget soft messages
// scoped to one session.
type SessionNotifier struct {
	hub *Hub
}

func NewSessionNotifier(hub *Hub) *SessionNotifier {
	return &SessionNotifier{hub: hub}
}

func (n *SessionNotifier) Notify(sessionID string, message string) {
	n.hub.Send(sessionID, Notification{
		Type:      "soft_error",
		Message:   message,
		CreatedAt: time.Now(),
	})
}
