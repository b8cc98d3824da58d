package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/Vovarama1992/voice_translator/internal/metrics"
)

var ErrTransport = errors.New("transport error")

// StatusError: бэкенд ответил не 2xx.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

// Client wraps http.Client with one circuit breaker per backend.
// 4xx responses do not count against the breaker.
type Client struct {
	name string
	http *http.Client
	cb   *gobreaker.CircuitBreaker
}

func New(name string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("breaker state change",
				zap.String("backend", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
		},
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return se.Code < 500
			}
			return err == nil
		},
	})

	return &Client{
		name: name,
		http: &http.Client{Timeout: timeout},
		cb:   cb,
	}
}

// DoJSON sends body as JSON (when non-nil) and decodes the response into dest.
func (c *Client) DoJSON(ctx context.Context, method, url string, headers map[string]string, body any, dest any) error {
	var raw io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		raw = bytes.NewReader(b)
		if headers == nil {
			headers = map[string]string{}
		}
		if _, ok := headers["Content-Type"]; !ok {
			headers["Content-Type"] = "application/json"
		}
	}

	resp, err := c.DoRaw(ctx, method, url, headers, raw)
	if err != nil {
		return err
	}

	if dest != nil {
		if err := json.Unmarshal(resp, dest); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// DoRaw sends the request and returns the full response body.
func (c *Client) DoRaw(ctx context.Context, method, url string, headers map[string]string, body io.Reader) ([]byte, error) {
	out, err := c.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTransport, c.name, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &StatusError{Code: resp.StatusCode, Body: string(data)}
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

// Unavailable reports whether err means the backend could not be reached or is failing
// on its side (transport, 5xx, open breaker).
func Unavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransport) ||
		errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == http.StatusTooManyRequests
	}
	return false
}
