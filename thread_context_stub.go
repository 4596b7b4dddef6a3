//go:build !linux

package aio

// NewThreadContext is unavailable on non-Linux platforms: the thread
// back-end's blocking I/O path (pread/pwrite/fsync/fdatasync) is wired
// directly to golang.org/x/sys/unix's Linux syscalls.
func NewThreadContext(maxRequests, poolSize int) (*ThreadContext, error) {
	return nil, newError("NewThreadContext", CodeNotImplemented, "thread back-end requires linux")
}

// NewThreadContextWithConfig is NewThreadContext with logger/observer
// injection; also unavailable on non-Linux platforms.
func NewThreadContextWithConfig(cfg ThreadConfig) (*ThreadContext, error) {
	return nil, newError("NewThreadContext", CodeNotImplemented, "thread back-end requires linux")
}

func (c *ThreadContext) MaxRequests() int { return 0 }

func (c *ThreadContext) PoolSize() int { return 0 }

func (c *ThreadContext) Submit(ops ...*Operation) (int, error) {
	return 0, newError("Submit", CodeNotImplemented, "thread back-end requires linux")
}

func (c *ThreadContext) Cancel(op *Operation) (int, error) {
	return 0, nil
}

func (c *ThreadContext) Close() error {
	return nil
}
