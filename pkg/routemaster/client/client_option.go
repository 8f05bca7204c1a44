package client

import "time"

type ClientOption func(c *Client)

// ClientWithHTTPDoer injects the transport. The caller owns its lifecycle.
func ClientWithHTTPDoer(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.doer = doer
	}
}

// ClientWithTimeout sets the request timeout of the default transport.
// It has no effect together with ClientWithHTTPDoer.
func ClientWithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func ClientWithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}
