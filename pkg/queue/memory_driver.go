package queue

import "context"

// memoryDriver is a buffered in-process queue. It is the default driver and
// the one tests run against.
type memoryDriver struct {
	ch chan []byte
}

func newMemoryDriver(capacity int) *memoryDriver {
	return &memoryDriver{ch: make(chan []byte, capacity)}
}

// NewMemoryDriver exposes the in-process driver for explicit wiring.
func NewMemoryDriver(capacity int) Driver {
	return newMemoryDriver(capacity)
}

func (d *memoryDriver) Push(payload []byte) error {
	select {
	case d.ch <- payload:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *memoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case p := <-d.ch:
		return p, nil
	}
}
