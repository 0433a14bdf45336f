package semester

import (
	"context"
	"sync"
)

type ClientStub struct {
	mu         sync.Mutex
	current    Semester
	hasCurrent bool
	fetchErr   error
	fetchCalls int
	fetchDelay func()
}

func NewClientStub() *ClientStub {
	return &ClientStub{}
}

func (c *ClientStub) FetchCurrent(ctx context.Context) (Semester, error) {
	c.mu.Lock()
	c.fetchCalls++
	delay := c.fetchDelay
	err := c.fetchErr
	current, ok := c.current, c.hasCurrent
	c.mu.Unlock()

	if delay != nil {
		delay()
	}
	if err != nil {
		return Semester{}, err
	}
	if !ok {
		return Semester{}, ErrNoSemesterAvailable
	}
	return current, nil
}

func (c *ClientStub) SetCurrent(sem Semester) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = sem
	c.hasCurrent = true
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
	c.current = Semester{}
	c.hasCurrent = false
	c.fetchErr = nil
	c.fetchCalls = 0
	c.fetchDelay = nil
}
