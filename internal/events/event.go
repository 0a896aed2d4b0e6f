package events

import "time"

// Event types pushed to UI windows.
const (
	TypeConfigUpdated  = "config.updated"
	TypeHistorySaved   = "history.saved"
	TypeHistoryDeleted = "history.deleted"
	TypeHistoryCleared = "history.cleared"
)

// Event is a change notification. Data is marshalled as JSON.
type Event struct {
	Type string    `json:"type"`
	Data any       `json:"data,omitempty"`
	Time time.Time `json:"time"`
}

// Publisher receives change notifications. Implementations must not block.
type Publisher interface {
	Publish(Event)
}

// Publish sends an event through p, tolerating a nil publisher.
func Publish(p Publisher, eventType string, data any) {
	if p == nil {
		return
	}
	p.Publish(Event{Type: eventType, Data: data, Time: time.Now().UTC()})
}
