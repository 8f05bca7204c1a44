package model

import (
	"fmt"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/routemaster-go/routemaster/pkg/util"
)

type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
	EventTypeNoop    EventType = "noop"
)

var EventTypes = []EventType{
	EventTypeCreated,
	EventTypeUpdated,
	EventTypeDeleted,
	EventTypeNoop,
}

func (t EventType) String() string {
	return string(t)
}

func ParseEventType(s string) (EventType, error) {
	for _, t := range EventTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidEventType)
}

// Event is a single notification pushed to a topic.
type Event struct {
	Type      EventType
	URL       *url.URL   // Subject URL described by the event.
	Data      string     // Opaque payload, may be empty.
	Timestamp *time.Time // Nil when the event has no time association.
}

type EventOption func(e *Event)

func EventWithTimestamp(t time.Time) EventOption {
	return func(e *Event) {
		e.Timestamp = &t
	}
}

// NewEvent builds an Event. The only way it fails is a callback URL that is
// not absolute, or an unknown event type.
func NewEvent(eventType EventType, callbackURL string, data string, opts ...EventOption) (Event, error) {
	u, err := ParseCallbackURL(callbackURL)
	if err != nil {
		return Event{}, err
	}

	event := Event{
		Type: eventType,
		URL:  u,
		Data: data,
	}
	for _, opt := range opts {
		opt(&event)
	}

	if err := ValidateEvent(event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// eventJSON fixes the wire key order: type, url, data, timestamp.
type eventJSON struct {
	Type      string  `json:"type"`
	URL       string  `json:"url"`
	Data      string  `json:"data"`
	Timestamp *string `json:"timestamp"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	if e.URL == nil {
		return nil, fmt.Errorf("event has no url: %w", ErrSerialization)
	}

	wire := eventJSON{
		Type: e.Type.String(),
		URL:  e.URL.String(),
		Data: e.Data,
	}
	if e.Timestamp != nil {
		wire.Timestamp = util.Ptr(FormatTimestamp(*e.Timestamp))
	}
	return json.MarshalNoEscape(wire)
}

func (e *Event) UnmarshalJSON(b []byte) error {
	var wire eventJSON
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}

	eventType, err := ParseEventType(wire.Type)
	if err != nil {
		return err
	}
	u, err := ParseCallbackURL(wire.URL)
	if err != nil {
		return err
	}

	event := Event{
		Type: eventType,
		URL:  u,
		Data: wire.Data,
	}
	if wire.Timestamp != nil {
		ts, err := ParseTimestamp(*wire.Timestamp)
		if err != nil {
			return err
		}
		event.Timestamp = &ts
	}

	*e = event
	return nil
}
