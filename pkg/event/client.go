package event

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/campuscal/campuscal/internal/remote"
)

// Client fetches the event list for a semester from the remote API.
type Client interface {
	FetchBySemester(ctx context.Context, semesterID string) ([]Event, error)
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  remote.NewHTTPClient(timeout),
	}
}

// FetchBySemester retrieves all events for the given semester. The endpoint
// returns a bare JSON array.
func (c *HTTPClient) FetchBySemester(ctx context.Context, semesterID string) ([]Event, error) {
	fetchURL := c.baseURL + "?semesterId=" + url.QueryEscape(semesterID)

	var events []Event
	if err := remote.GetJSON(ctx, c.client, fetchURL, &events); err != nil {
		return nil, err
	}
	return events, nil
}
