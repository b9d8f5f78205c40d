package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-mcp/internal/weather"
)

// UserAgent is sent on every upstream request. Nominatim and weather.gov
// reject anonymous clients.
const UserAgent = "MCP-Weather-Client"

var (
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// statusError is a non-2xx upstream response.
type statusError struct {
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.Status, e.Body)
}

// upstream issues GET requests to one provider through a circuit breaker.
// Only transport errors count as breaker failures. HTTP status errors are
// returned to the caller with their status and body, and a cancelled or
// expired caller context counts as a success. Nothing is retried.
type upstream struct {
	name    string
	client  *resty.Client
	circuit *gobreaker.CircuitBreaker
}

func newUpstream(name string, httpClient *http.Client) *upstream {
	var rc *resty.Client
	if httpClient != nil {
		rc = resty.NewWithClient(httpClient)
	} else {
		rc = resty.New().SetTimeout(10 * time.Second)
	}
	rc.SetHeader("User-Agent", UserAgent).
		SetHeader("Accept", "application/json")

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         name,
		MaxRequests:  5,
		Interval:     1 * time.Minute,
		Timeout:      2 * time.Minute,
		IsSuccessful: breakerSuccess,
	})

	return &upstream{
		name:    name,
		client:  rc,
		circuit: cb,
	}
}

// breakerSuccess reports whether err leaves the breaker's failure count
// untouched. The caller giving up is not an upstream failure.
func breakerSuccess(err error) bool {
	return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// getJSON fetches rawURL and decodes a 2xx body into out. Non-2xx responses
// are returned as *statusError; an open breaker yields errCircuitOpen.
func (u *upstream) getJSON(ctx context.Context, rawURL string, query map[string]string, out any) error {
	if u.client == nil {
		return errNoHTTPClient
	}

	var resp *resty.Response
	_, err := u.circuit.Execute(func() (interface{}, error) {
		r, execErr := u.client.R().
			SetContext(ctx).
			SetQueryParams(query).
			Get(rawURL)
		if execErr != nil {
			return nil, execErr
		}
		resp = r
		return r, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w: %v", u.name, errCircuitOpen, err)
	}
	if err != nil {
		return fmt.Errorf("%s request failed: %w", u.name, err)
	}

	if !resp.IsSuccess() {
		return &statusError{Status: resp.StatusCode(), Body: resp.String()}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%s: decode response: %w", u.name, err)
	}
	return nil
}

// circuitOpenError maps an open breaker to a TransientUnavailable error.
func circuitOpenError(service string, err error) error {
	return &weather.Error{
		Kind:    weather.KindTransientUnavailable,
		Message: fmt.Sprintf("%s API is temporarily unavailable. Please try again later.", service),
		Err:     err,
	}
}

func upstreamError(msg string, status int, body string, err error) error {
	return &weather.Error{
		Kind:    weather.KindUpstream,
		Message: msg,
		Status:  status,
		Body:    body,
		Err:     err,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
