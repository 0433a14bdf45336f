package event

import (
	"context"
	"sync"
)

type ClientStub struct {
	mu         sync.Mutex
	events     map[string][]Event // semesterId -> events
	fetchErr   error
	fetchCalls int
	fetchDelay func()
}

func NewClientStub() *ClientStub {
	return &ClientStub{events: make(map[string][]Event)}
}

func (c *ClientStub) FetchBySemester(ctx context.Context, semesterID string) ([]Event, error) {
	c.mu.Lock()
	c.fetchCalls++
	delay := c.fetchDelay
	err := c.fetchErr
	events := make([]Event, len(c.events[semesterID]))
	copy(events, c.events[semesterID])
	c.mu.Unlock()

	if delay != nil {
		delay()
	}
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (c *ClientStub) SetEvents(semesterID string, events []Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events[semesterID] = events
}

func (c *ClientStub) SetError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchErr = err
}

// SetDelay installs a hook executed during each fetch, outside the stub's
// lock, so tests can hold a fetch open while another resolve runs.
func (c *ClientStub) SetDelay(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchDelay = fn
}

func (c *ClientStub) FetchCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchCalls
}

func (c *ClientStub) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = make(map[string][]Event)
	c.fetchErr = nil
	c.fetchCalls = 0
	c.fetchDelay = nil
}
