package notify

import (
	"encoding/json"
	"time"

	"github.com/frahmantamala/workspace-booking/internal/core/events"
)

// Message is the wire format of a booking event on the queue.
type Message struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

func NewMessage(evt events.Event) Message {
	m := Message{
		ID:         evt.EventID(),
		Type:       evt.EventType(),
		OccurredAt: evt.OccurredAt().UTC(),
	}
	if data, ok := evt.Payload().(map[string]interface{}); ok {
		m.Data = data
	}
	return m
}

func (m Message) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(body []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(body, &m); err != nil {
		return Message{}, err
	}
	return m, nil
}
