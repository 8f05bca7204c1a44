// Package client talks to a routemaster service: it registers subscriptions
// and pushes events over HTTP, authenticating with the client's UUID.
//
// Every operation performs exactly one HTTP request. There are no retries and
// no background goroutines; a Client is safe for concurrent use as long as
// its HTTPDoer is.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/routemaster-go/routemaster/pkg/routemaster/model"
	"go.opentelemetry.io/otel/metric"
)

// Paths are resolved against the base URL following RFC 3986, so a base
// without a trailing slash loses its last path segment.
const (
	PathSubscription     = "subscription"
	PathSubscriber       = "subscriber"
	PathSubscriberTopics = "subscriber/topics/"
	PathTopics           = "topics/"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "routemaster-go"
)

// HTTPDoer is the transport the client sends requests through.
// *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	baseURL   *url.URL
	clientID  model.ClientID
	doer      HTTPDoer
	timeout   time.Duration
	userAgent string

	requestCount metric.Int64Counter
	errorCount   metric.Int64Counter
}

func NewClient(baseURL string, clientID model.ClientID, opts ...ClientOption) (*Client, error) {
	base, err := model.ParseCallbackURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	if clientID.IsZero() {
		return nil, fmt.Errorf("client id must not be the nil uuid: %w", model.ErrInvalidClientID)
	}

	c := &Client{
		baseURL:      base,
		clientID:     clientID,
		timeout:      DefaultTimeout,
		userAgent:    DefaultUserAgent,
		requestCount: otlp_util.NewInt64Counter("routemaster.client.request.count", metric.WithDescription("The total number of requests sent to routemaster")),
		errorCount:   otlp_util.NewInt64Counter("routemaster.client.request.error.count", metric.WithDescription("The total number of failed routemaster requests")),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.doer == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		c.doer = &http.Client{Timeout: c.timeout, Transport: transport}
	}

	return c, nil
}

func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

func (c *Client) ClientID() model.ClientID {
	return c.clientID
}

// Subscribe registers the subscription's callback URL against its topics.
func (c *Client) Subscribe(ctx context.Context, subscription model.Subscription) error {
	if err := model.ValidateSubscription(subscription); err != nil {
		return fmt.Errorf("%w: %w", model.ErrSerialization, err)
	}
	return c.execute(ctx, "Subscribe", http.MethodPost, PathSubscription, subscription)
}

// Unsubscribe removes this client's subscription to a single topic.
func (c *Client) Unsubscribe(ctx context.Context, topic string) error {
	path, err := TopicPath(PathSubscriberTopics, topic)
	if err != nil {
		return err
	}
	return c.execute(ctx, "Unsubscribe", http.MethodDelete, path, nil)
}

// UnsubscribeAll removes every subscription held by this client.
func (c *Client) UnsubscribeAll(ctx context.Context) error {
	return c.execute(ctx, "UnsubscribeAll", http.MethodDelete, PathSubscriber, nil)
}

// Push publishes event to topic.
func (c *Client) Push(ctx context.Context, topic string, event model.Event) error {
	path, err := TopicPath(PathTopics, topic)
	if err != nil {
		return err
	}
	if err := model.ValidateEvent(event); err != nil {
		return fmt.Errorf("%w: %w", model.ErrSerialization, err)
	}
	return c.execute(ctx, "Push", http.MethodPost, path, event)
}

// Topics is not supported by this client and always returns ErrNotImplemented.
func (c *Client) Topics(ctx context.Context) ([]string, error) {
	return nil, fmt.Errorf("list topics: %w", model.ErrNotImplemented)
}

// CreateToken is not supported by this client and always returns ErrNotImplemented.
func (c *Client) CreateToken(ctx context.Context) error {
	return fmt.Errorf("create token: %w", model.ErrNotImplemented)
}

// DeleteToken is not supported by this client and always returns ErrNotImplemented.
func (c *Client) DeleteToken(ctx context.Context) error {
	return fmt.Errorf("delete token: %w", model.ErrNotImplemented)
}

// ResolveURL joins path onto the base URL the same way every operation does.
func (c *Client) ResolveURL(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %w", model.ErrURLConstruction, path, err)
	}
	if ref.IsAbs() || ref.Host != "" {
		return nil, fmt.Errorf("%w: %q is not a relative path", model.ErrURLConstruction, path)
	}
	return c.baseURL.ResolveReference(ref), nil
}

// TopicPath appends topic to prefix as one percent-encoded path segment.
func TopicPath(prefix, topic string) (string, error) {
	if err := model.ValidateTopic(topic); err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrURLConstruction, err)
	}
	return prefix + url.PathEscape(topic), nil
}
