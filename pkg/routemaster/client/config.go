package client

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/routemaster-go/routemaster/pkg/routemaster/model"
)

type Config struct {
	URL       string `yaml:"url"`
	ClientID  string `yaml:"client_id"`
	Timeout   int    `yaml:"timeout"` // Seconds. Zero keeps DefaultTimeout.
	UserAgent string `yaml:"user_agent"`
}

func (cfg Config) Validate() error {
	err := validation.ValidateStruct(&cfg,
		validation.Field(&cfg.URL, validation.Required, is.URL),
		validation.Field(&cfg.ClientID, validation.Required, validation.By(func(value interface{}) error {
			s, _ := value.(string)
			if _, err := model.ParseClientID(s); err != nil {
				return errors.New("must be a valid UUID")
			}
			return nil
		})),
		validation.Field(&cfg.Timeout, validation.Min(0)),
	)
	if err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}

	return nil
}

func NewClientWithConfig(cfg Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clientID, err := model.ParseClientID(cfg.ClientID)
	if err != nil {
		return nil, err
	}

	options := []ClientOption{
		ClientWithTimeout(time.Duration(cfg.Timeout) * time.Second),
		ClientWithUserAgent(cfg.UserAgent),
	}
	return NewClient(cfg.URL, clientID, append(options, opts...)...)
}
