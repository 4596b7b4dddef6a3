package pool

import "fmt"

// ErrQueueFull is returned by Submit when the pool's queue is at capacity.
var ErrQueueFull = fmt.Errorf("pool: queue full")

// ErrShutdown is returned by Submit after Close has been called.
var ErrShutdown = fmt.Errorf("pool: shut down")

func errTooLarge(field string, got, max int) error {
	return fmt.Errorf("pool: %s=%d exceeds ceiling %d", field, got, max)
}
