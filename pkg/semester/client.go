package semester

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/campuscal/campuscal/internal/remote"
)

// Client fetches the current semester from the remote API.
type Client interface {
	FetchCurrent(ctx context.Context) (Semester, error)
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

// FetchCurrent retrieves the semester the remote currently flags as active.
// The endpoint wraps results in a {"semesters": [...], "count": n} envelope.
func (c *HTTPClient) FetchCurrent(ctx context.Context) (Semester, error) {
	var response struct {
		Semesters []Semester `json:"semesters"`
	}
	if err := remote.GetJSON(ctx, c.client, c.baseURL+"?isCurrent=true", &response); err != nil {
		return Semester{}, err
	}
	if len(response.Semesters) == 0 {
		return Semester{}, fmt.Errorf("%w: no current semester in response", remote.ErrParse)
	}
	return response.Semesters[0], nil
}
