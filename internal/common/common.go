package common

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/evanhutnik/bettermaps-service/internal/metrics"
)

const maxAttempts = 3

// DefaultClient is shared by the upstream clients when none is injected.
var DefaultClient = &http.Client{Timeout: 10 * time.Second}

// StatusError is returned for a non-2xx answer. Body holds at most the first 64KiB.
type StatusError struct {
	Service    string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("error code %d returned from %v", e.StatusCode, e.Service)
}

func (e *StatusError) retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// GetWithRetry sends req up to three times, retrying on transport errors, 5xx and 429.
// The caller owns the returned body.
func GetWithRetry(client *http.Client, req *http.Request, name string) (*http.Response, error) {
	if client == nil {
		client = DefaultClient
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := client.Do(req)
		switch {
		case err != nil:
			lastErr = fmt.Errorf("error on %v api request: %w", name, err)
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
			resp.Body.Close()
			statusErr := &StatusError{Service: name, StatusCode: resp.StatusCode, Body: body}
			lastErr = statusErr
			if !statusErr.retryable() {
				metrics.UpstreamRequests.WithLabelValues(name, "error").Inc()
				return nil, lastErr
			}
		default:
			metrics.UpstreamRequests.WithLabelValues(name, "ok").Inc()
			return resp, nil
		}

		if req.Context().Err() != nil {
			break
		}
		if attempt < maxAttempts {
			metrics.UpstreamRequests.WithLabelValues(name, "retry").Inc()
		}
	}
	metrics.UpstreamRequests.WithLabelValues(name, "error").Inc()
	return nil, lastErr
}

// GetJSON issues a GET with retries and decodes the body into out.
func GetJSON(ctx context.Context, client *http.Client, url string, header http.Header, name string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build %v request: %w", name, err)
	}
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	resp, err := GetWithRetry(client, req, name)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading %v response body: %w", name, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error unmarshalling response from %v: %w", name, err)
	}
	return nil
}
