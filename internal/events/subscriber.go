package events

import (
	"encoding/json"
	"fmt"
)

// Message is one event received from the bus.
type Message struct {
	Topic string
	Data  []byte
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers messages on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan Message, func(), error)
	Close() error
}

// Decode unmarshals a message into the event type of its topic.
func Decode(msg Message) (any, error) {
	var ev any
	switch msg.Topic {
	case TopicTableStarted:
		ev = &TableStarted{}
	case TopicTableCompleted:
		ev = &TableCompleted{}
	case TopicTableFailed:
		ev = &TableFailed{}
	case TopicRunCompleted:
		ev = &RunCompleted{}
	default:
		return nil, fmt.Errorf("unknown topic %q", msg.Topic)
	}
	if err := json.Unmarshal(msg.Data, ev); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", msg.Topic, err)
	}
	return ev, nil
}
