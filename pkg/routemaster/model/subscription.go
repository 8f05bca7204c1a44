package model

import (
	"fmt"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/routemaster-go/routemaster/pkg/util"
)

// Subscription registers a callback URL against a list of topics.
type Subscription struct {
	CallbackURL *url.URL
	Topics      []string       // Order and duplicates are preserved on the wire.
	UUID        *uuid.UUID     // Nil lets the service pick the subscriber identity.
	Timeout     *time.Duration // Bound on delivery attempts, sent to the service only.
	MaxEvents   *int           // Nil means no cap on events per delivery batch.
}

type SubscriptionOption func(s *Subscription)

func SubscriptionWithUUID(id uuid.UUID) SubscriptionOption {
	return func(s *Subscription) {
		s.UUID = &id
	}
}

func SubscriptionWithTimeout(timeout time.Duration) SubscriptionOption {
	return func(s *Subscription) {
		s.Timeout = &timeout
	}
}

func SubscriptionWithMaxEvents(maxEvents int) SubscriptionOption {
	return func(s *Subscription) {
		s.MaxEvents = &maxEvents
	}
}

func NewSubscription(callbackURL string, topics []string, opts ...SubscriptionOption) (Subscription, error) {
	u, err := ParseCallbackURL(callbackURL)
	if err != nil {
		return Subscription{}, err
	}

	sub := Subscription{
		CallbackURL: u,
		Topics:      append([]string(nil), topics...),
	}
	for _, opt := range opts {
		opt(&sub)
	}

	if err := ValidateSubscription(sub); err != nil {
		return Subscription{}, err
	}
	return sub, nil
}

// subscriptionJSON fixes the wire key order: callback, topics, uuid, timeout, max.
type subscriptionJSON struct {
	Callback string   `json:"callback"`
	Topics   []string `json:"topics"`
	UUID     *string  `json:"uuid"`
	Timeout  *string  `json:"timeout"`
	Max      *int     `json:"max"`
}

func (s Subscription) MarshalJSON() ([]byte, error) {
	if s.CallbackURL == nil {
		return nil, fmt.Errorf("subscription has no callback url: %w", ErrSerialization)
	}

	wire := subscriptionJSON{
		Callback: s.CallbackURL.String(),
		Topics:   s.Topics,
		Max:      s.MaxEvents,
	}
	if wire.Topics == nil {
		wire.Topics = []string{}
	}
	if s.UUID != nil {
		wire.UUID = util.Ptr(s.UUID.String())
	}
	if s.Timeout != nil {
		wire.Timeout = util.Ptr(FormatTimeout(*s.Timeout))
	}
	return json.MarshalNoEscape(wire)
}

func (s *Subscription) UnmarshalJSON(b []byte) error {
	var wire subscriptionJSON
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}

	u, err := ParseCallbackURL(wire.Callback)
	if err != nil {
		return err
	}

	sub := Subscription{
		CallbackURL: u,
		Topics:      wire.Topics,
		MaxEvents:   wire.Max,
	}
	if sub.Topics == nil {
		sub.Topics = []string{}
	}
	if wire.UUID != nil {
		id, err := uuid.Parse(*wire.UUID)
		if err != nil {
			return fmt.Errorf("subscription uuid %q: %v%w", *wire.UUID, err, ErrInvalidParameter)
		}
		sub.UUID = &id
	}
	if wire.Timeout != nil {
		timeout, err := ParseTimeout(*wire.Timeout)
		if err != nil {
			return err
		}
		sub.Timeout = &timeout
	}

	*s = sub
	return nil
}
