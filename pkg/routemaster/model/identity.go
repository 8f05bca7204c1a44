package model

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// ClientID identifies a client to the routemaster service. Its hyphenated
// form is used as the basic auth username.
type ClientID uuid.UUID

func NewClientID() ClientID {
	return ClientID(uuid.New())
}

// ParseClientID accepts both the hyphenated and the 32 hex digit forms.
func ParseClientID(s string) (ClientID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ClientID{}, fmt.Errorf("%q: %v: %w", s, err, ErrInvalidClientID)
	}
	return ClientID(id), nil
}

func (id ClientID) UUID() uuid.UUID {
	return uuid.UUID(id)
}

func (id ClientID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

// String returns the lowercase hyphenated form.
func (id ClientID) String() string {
	return uuid.UUID(id).String()
}

// ParseCallbackURL parses s and requires it to be an absolute URL with a host.
func ParseCallbackURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%q: %v: %w", s, err, ErrInvalidURL)
	}
	if !isAbsoluteURL(u) {
		return nil, fmt.Errorf("%q is not an absolute url: %w", s, ErrInvalidURL)
	}
	return u, nil
}

func isAbsoluteURL(u *url.URL) bool {
	return u != nil && u.IsAbs() && u.Host != ""
}
