package event

import (
	"chat-hub/domain"
	"encoding/json"
	"fmt"
)

const NewMessageName = "newMessage"

// DomainEvent is anything pushed to a live connection.
type DomainEvent interface {
	Name() string
}

// NewMessage is pushed to each online recipient of a persisted message.
type NewMessage struct {
	Message domain.Message
}

func (NewMessage) Name() string { return NewMessageName }

// Envelope is the wire form of an event.
type Envelope struct {
	Event   string          `json:"event"`
	Message *domain.Message `json:"message,omitempty"`
}

// Encode serializes an event into its wire form.
func Encode(e DomainEvent) ([]byte, error) {
	switch evt := e.(type) {
	case NewMessage:
		msg := evt.Message.Clone()
		return json.Marshal(Envelope{Event: evt.Name(), Message: &msg})
	default:
		return nil, fmt.Errorf("unsupported event %q", e.Name())
	}
}

// Decode parses a wire frame back into an event.
func Decode(data []byte) (DomainEvent, error) {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	switch envelope.Event {
	case NewMessageName:
		if envelope.Message == nil {
			return nil, fmt.Errorf("event %q without message", envelope.Event)
		}
		return NewMessage{Message: *envelope.Message}, nil
	default:
		return nil, fmt.Errorf("unknown event %q", envelope.Event)
	}
}
