package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrTransport covers everything that makes the remote unusable before a
// payload arrives: network failures, timeouts, and non-2xx responses.
var ErrTransport = errors.New("remote unavailable")

// ErrParse covers payloads that arrived but could not be decoded.
var ErrParse = errors.New("malformed remote payload")

// NewHTTPClient returns an http.Client with a bounded per-request timeout.
// A timeout surfaces as ErrTransport like any other network failure.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// GetJSON performs a GET against url and decodes the response body into out.
// Failures are classified as ErrTransport or ErrParse so callers can treat
// both uniformly as "remote unavailable" and fall back to their cache.
func GetJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Debugf("request to %s failed: %v", url, err)
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Debugf("remote returned non-OK status %d for %s", resp.StatusCode, url)
		return fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Debugf("failed to decode response from %s: %v", url, err)
		return fmt.Errorf("%w: %v", ErrParse, err)
	}

	return nil
}
