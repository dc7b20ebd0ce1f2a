package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// StatusError is returned when the remote service answered with a non-2xx
// status. Adapters inspect Code to translate into domain errors.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Client is a traced JSON HTTP client shared by all outbound adapters.
// Timeouts are driven entirely by the caller's context.
type Client struct {
	Tracer     trace.Tracer
	HTTPClient *http.Client
}

func NewClient(tracer trace.Tracer) *Client {
	return &Client{
		Tracer: tracer,
		HTTPClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		},
	}
}

// GetJSON performs a GET with query params and decodes the JSON response
// into out (which may be nil when the body does not matter).
func (c *Client) GetJSON(ctx context.Context, serviceURL string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, serviceURL, params, nil, out)
}

// PostJSON performs a POST with a JSON body and decodes the JSON response
// into out (which may be nil).
func (c *Client) PostJSON(ctx context.Context, serviceURL string, body any, out any) error {
	return c.do(ctx, http.MethodPost, serviceURL, nil, body, out)
}

// PostForm performs a POST carrying only query parameters, for endpoints that
// take their input in the URL.
func (c *Client) PostForm(ctx context.Context, serviceURL string, params url.Values, out any) error {
	return c.do(ctx, http.MethodPost, serviceURL, params, nil, out)
}

func (c *Client) do(ctx context.Context, method, serviceURL string, params url.Values, body, out any) error {
	parsedURL, err := url.Parse(serviceURL)
	if err != nil {
		return err
	}
	spanName := fmt.Sprintf("call-%s", strings.Split(parsedURL.Host, ":")[0])

	ctx, span := c.Tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	downstreamURL := *parsedURL
	if params != nil {
		q := downstreamURL.Query()
		for key, values := range params {
			for _, value := range values {
				q.Add(key, value)
			}
		}
		downstreamURL.RawQuery = q.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, downstreamURL.String(), reqBody)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	span.SetAttributes(
		attribute.String("http.url", downstreamURL.String()),
		attribute.String("http.method", method),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		statusErr := &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		span.RecordError(statusErr)
		span.SetStatus(codes.Error, statusErr.Error())
		return statusErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			span.RecordError(err)
			return fmt.Errorf("decode response from %s: %w", downstreamURL.Host, err)
		}
	}
	return nil
}
