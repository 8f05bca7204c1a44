package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/goccy/go-json"
	"github.com/routemaster-go/routemaster/pkg/routemaster/model"
	"github.com/routemaster-go/routemaster/pkg/util"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	RequestIDHeader = "X-Request-Id"

	// Only this much of a failed response body is kept in StatusError.
	maxErrorBodySize = 4096
)

// execute sends one request and discards the response body. Non-2xx
// responses are returned as *model.StatusError.
func (c *Client) execute(ctx context.Context, operation, method, path string, payload any) (err error) {
	requestID := util.NewShortID()
	ctx, span := otlp_util.Start(ctx, "routemaster/client."+operation,
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("request_id", requestID),
		),
	)
	defer span.End()

	statusCode := 0
	defer func() {
		attrs := metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("method", method),
			attribute.Int("status_code", statusCode),
		)
		c.requestCount.Add(ctx, 1, attrs)
		if err != nil {
			c.errorCount.Add(ctx, 1, attrs)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	endpoint, err := c.ResolveURL(path)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.String("http.url", endpoint.String()))

	var body io.Reader
	if payload != nil {
		raw, err := json.MarshalNoEscape(payload)
		if err != nil {
			return fmt.Errorf("%w: encode %s payload: %w", model.ErrSerialization, operation, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("%w: create request: %w", model.ErrURLConstruction, err)
	}
	req.SetBasicAuth(c.clientID.String(), "")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logrus.Debugf("Request %s %s (%s) started.", method, endpoint, requestID)
	resp, err := c.doer.Do(req)
	if err != nil {
		logrus.Debugf("Request %s %s (%s) failed: %v", method, endpoint, requestID, err)
		return fmt.Errorf("%w: %s %s: %w", model.ErrTransport, method, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	statusCode = resp.StatusCode
	span.SetAttributes(attribute.Int("http.status_code", statusCode))
	if statusCode/100 != 2 {
		message, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		logrus.Warnf("Request %s %s (%s) returned %d %s", method, endpoint, requestID, statusCode, string(message))
		return &model.StatusError{
			Method:     method,
			URL:        endpoint.String(),
			StatusCode: statusCode,
			Body:       string(message),
		}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	logrus.Debugf("Request %s %s (%s) returned %d", method, endpoint, requestID, statusCode)
	return nil
}
