package model

import (
	"errors"
	"fmt"
)

var ErrInvalidParameter = errors.New("") // Base error for invalid caller input

// Error kinds returned by the client. Use errors.Is to classify a failure.
var ErrURLConstruction = errors.New("url construction failed")
var ErrSerialization = errors.New("serialization failed")
var ErrTransport = errors.New("transport failed")
var ErrNotImplemented = errors.New("not implemented by the routemaster client")

// Invalid parameter errors
var ErrInvalidURL = fmt.Errorf("invalid url%w", ErrInvalidParameter)
var ErrInvalidClientID = fmt.Errorf("invalid client id%w", ErrInvalidParameter)
var ErrInvalidEventType = fmt.Errorf("invalid event type%w", ErrInvalidParameter)
var ErrInvalidTopic = fmt.Errorf("invalid topic%w", ErrInvalidParameter)
var ErrInvalidTimeout = fmt.Errorf("invalid timeout%w", ErrInvalidParameter)

// StatusError is returned when the service answers with a non-2xx status.
// It always matches ErrTransport.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s returned %d", e.Method, e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrTransport
}
