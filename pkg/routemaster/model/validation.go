package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func ValidateEvent(event Event) error {
	err := validation.ValidateStruct(&event,
		validation.Field(&event.Type, validation.Required, validation.In(
			EventTypeCreated,
			EventTypeUpdated,
			EventTypeDeleted,
			EventTypeNoop,
		)),
		validation.Field(&event.URL, validation.Required, validation.By(absoluteURL)),
	)
	if err != nil {
		return fmt.Errorf("%s%w", err.Error(), ErrInvalidParameter)
	}

	return nil
}

func ValidateSubscription(sub Subscription) error {
	err := validation.ValidateStruct(&sub,
		validation.Field(&sub.CallbackURL, validation.Required, validation.By(absoluteURL)),
		validation.Field(&sub.Topics, validation.Each(validation.By(wellFormedText))),
		validation.Field(&sub.Timeout, validation.By(nonNegativeTimeout)),
		validation.Field(&sub.MaxEvents, validation.By(positiveMaxEvents)),
	)
	if err != nil {
		return fmt.Errorf("%s%w", err.Error(), ErrInvalidParameter)
	}

	return nil
}

// ValidateTopic checks that topic can be used as a single URL path segment.
func ValidateTopic(topic string) error {
	err := validation.Validate(topic,
		validation.Required,
		validation.By(wellFormedText),
		validation.NotIn(".", ".."),
	)
	if err != nil {
		return fmt.Errorf("%q: %s: %w", topic, err.Error(), ErrInvalidTopic)
	}

	return nil
}

func absoluteURL(value interface{}) error {
	u, _ := value.(*url.URL)
	if u == nil {
		return nil
	}
	if !isAbsoluteURL(u) {
		return errors.New("must be an absolute url")
	}
	return nil
}

func wellFormedText(value interface{}) error {
	s, _ := value.(string)
	if !utf8.ValidString(s) {
		return errors.New("must be valid UTF-8")
	}
	if strings.ContainsRune(s, 0) {
		return errors.New("must not contain NUL bytes")
	}
	return nil
}

func nonNegativeTimeout(value interface{}) error {
	d, _ := value.(*time.Duration)
	if d != nil && *d < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func positiveMaxEvents(value interface{}) error {
	n, _ := value.(*int)
	if n != nil && *n <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}
