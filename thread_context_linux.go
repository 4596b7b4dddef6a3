//go:build linux

package aio

import (
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/kernelaio/goaio/internal/logging"
	"github.com/kernelaio/goaio/internal/pool"
)

// NewThreadContext starts a worker pool of poolSize goroutines (0 uses
// ThreadPoolSizeDefault) backed by a queue of depth maxRequests (0 uses
// ThreadMaxRequestsDefault).
func NewThreadContext(maxRequests, poolSize int) (*ThreadContext, error) {
	return NewThreadContextWithConfig(ThreadConfig{MaxRequests: maxRequests, PoolSize: poolSize})
}

// NewThreadContextWithConfig is NewThreadContext with logger/observer
// injection.
func NewThreadContextWithConfig(cfg ThreadConfig) (*ThreadContext, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	p, err := pool.NewPool(pool.Config{
		PoolSize:    cfg.PoolSize,
		MaxRequests: cfg.MaxRequests,
		Logger:      logger,
		Observer:    cfg.Observer,
		CPUAffinity: cfg.CPUAffinity,
	})
	if err != nil {
		return nil, wrapError("NewThreadContext", CodeInvalidValue, err)
	}

	return &ThreadContext{pool: p, logger: logger, observer: cfg.Observer}, nil
}

// MaxRequests returns the queue depth (capacity) the underlying worker pool
// was created with, matching the Context interface both back-ends share.
func (c *ThreadContext) MaxRequests() int {
	return c.pool.Capacity()
}

// PoolSize returns the number of worker goroutines backing this context.
func (c *ThreadContext) PoolSize() int {
	return c.pool.Size()
}

// Submit enqueues each not-already-in-flight operation as a job on the
// worker pool; operations already in flight are rejected without being
// re-enqueued. It returns the count of operations newly enqueued (mirroring
// the reference thread back-end, which counts only newly queued jobs, not
// ones already in flight).
func (c *ThreadContext) Submit(ops ...*Operation) (int, error) {
	enqueued := 0
	for _, op := range ops {
		if err := op.markSubmitted(0); err != nil {
			continue
		}
		job := c.jobFor(op)
		if err := c.pool.Submit(job); err != nil {
			op.markAbandoned()
			return enqueued, wrapError("Submit", CodeRuntime, err)
		}
		enqueued++
	}
	c.logger.Debug("submitted operations", "enqueued", enqueued, "requested", len(ops))
	return enqueued, nil
}

// Cancel always returns 0 without error: the thread back-end has no way to
// interrupt a job already running on a worker, and a queued-but-not-yet-
// started job is indistinguishable from one about to start, so canceling
// it would race. This mirrors the reference thread pool, whose cancel
// exists only for interface compatibility with the kernel back-end.
func (c *ThreadContext) Cancel(op *Operation) (int, error) {
	return 0, nil
}

// Close stops accepting new work and waits for every already-queued job to
// finish, which in turn invokes every outstanding callback through the
// normal completion path. Unlike the kernel back-end, there is nothing
// left to abandon: a thread-pool job's closure keeps its Operation alive
// and running until it genuinely completes.
func (c *ThreadContext) Close() error {
	if err := c.pool.Close(); err != nil {
		return wrapError("Close", CodeSystem, err)
	}
	return nil
}

func (c *ThreadContext) jobFor(op *Operation) pool.Job {
	return func() {
		if op.opCode == opNoop {
			op.complete(0)
			return
		}

		start := time.Now()
		raw, success := c.perform(op)
		latency := time.Since(start)

		c.callbackMu.Lock()
		callback := op.complete(raw)
		if callback != nil {
			callback(raw)
		}
		c.callbackMu.Unlock()

		if c.observer != nil {
			c.observer.ObserveCompletion(op.opCode.String(), uint64(maxInt64(raw, 0)), uint64(latency.Nanoseconds()), success)
		}
	}
}

// perform does the blocking syscall for op without holding callbackMu, the
// way the reference thread worker releases the GIL for the actual I/O and
// only reacquires it to invoke the callback.
func (c *ThreadContext) perform(op *Operation) (raw int64, success bool) {
	switch op.opCode {
	case OpRead:
		n, err := unix.Pread(op.fd, op.buffer, op.offset)
		if err != nil {
			return -int64(errnoOf(err)), false
		}
		return int64(n), true
	case OpWrite:
		n, err := unix.Pwrite(op.fd, op.buffer, op.offset)
		if err != nil {
			return -int64(errnoOf(err)), false
		}
		return int64(n), true
	case OpFsync:
		if err := unix.Fsync(op.fd); err != nil {
			return -int64(errnoOf(err)), false
		}
		return 0, true
	case OpFdsync:
		err := unix.Fdatasync(op.fd)
		if err == syscall.ENOSYS {
			err = unix.Fsync(op.fd)
		}
		if err != nil {
			return -int64(errnoOf(err)), false
		}
		return 0, true
	default:
		return 0, true
	}
}
