package aio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/kernelaio/goaio/internal/constants"
	"github.com/kernelaio/goaio/internal/interfaces"
	"github.com/kernelaio/goaio/internal/kaio"
	"github.com/kernelaio/goaio/internal/logging"
)

// KernelConfig controls KernelContext construction. A zero value uses
// package defaults.
type KernelConfig struct {
	MaxRequests int
	Logger      *logging.Logger
	Observer    interfaces.Observer
}

// KernelContext submits read/write/fsync/fdsync requests to the Linux
// native AIO ABI (io_setup/io_submit/io_getevents/io_cancel) and delivers
// completions through an eventfd.
//
// KernelContext is not internally synchronized against concurrent callers
// of Submit/Cancel/ProcessEvents: by convention a single goroutine owns a
// given KernelContext, the same way the reference implementation's
// AIOContext expects single-threaded access from its event loop.
type KernelContext struct {
	ring            *kaio.Ring
	logger          *logging.Logger
	observer        interfaces.Observer
	fdsyncSupported bool

	nextID uint64
	pinned sync.Map // uint64 id -> *Operation, released on harvest or Close
}

// NewKernelContext refuses to construct on kernels older than 4.18
// (ErrKernelTooOld) and otherwise performs io_setup for maxRequests
// (0 uses KernelMaxRequestsDefault).
func NewKernelContext(maxRequests int) (*KernelContext, error) {
	return NewKernelContextWithConfig(KernelConfig{MaxRequests: maxRequests})
}

// NewKernelContextWithConfig is NewKernelContext with logger/observer
// injection for callers that want kernel-context telemetry wired into
// their own logging/metrics pipeline.
func NewKernelContextWithConfig(cfg KernelConfig) (*KernelContext, error) {
	if !kaio.KernelVersionAtLeast(constants.MinKernelMajor, constants.MinKernelMinor) {
		return nil, ErrKernelTooOld
	}

	maxRequests := cfg.MaxRequests
	if maxRequests == 0 {
		maxRequests = constants.KernelMaxRequestsDefault
	}

	ring, err := kaio.NewRing(maxRequests)
	if err != nil {
		return nil, wrapError("NewKernelContext", CodeRuntime, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	major, minor := kaio.KernelVersion()
	fdsyncSupported := major > 4 || (major == 4 && minor >= 18)
	logger.Debug("kernel context started", "max_requests", maxRequests, "fdsync_supported", fdsyncSupported)

	return &KernelContext{
		ring:            ring,
		logger:          logger,
		observer:        cfg.Observer,
		fdsyncSupported: fdsyncSupported,
	}, nil
}

// Fd returns the eventfd backing completion notifications, suitable for
// registering with an external poller (epoll, select, a Go select over a
// channel fed by a reader goroutine, etc).
func (c *KernelContext) Fd() int {
	return c.ring.Fd()
}

// MaxRequests returns the queue depth the context was created with.
func (c *KernelContext) MaxRequests() int {
	return c.ring.MaxRequests()
}

// Submit builds an iocb for each operation and calls io_submit. The kernel
// guarantees it accepts a contiguous prefix of the batch; operations
// beyond the accepted count are returned to the not-in-flight state so
// callers can retry them. Submitting an operation that is already in
// flight is rejected without touching the kernel.
func (c *KernelContext) Submit(ops ...*Operation) (int, error) {
	iocbs := make([]*kaio.Iocb, 0, len(ops))
	ids := make([]uint64, 0, len(ops))

	for _, op := range ops {
		id := atomic.AddUint64(&c.nextID, 1)
		if err := op.markSubmitted(id); err != nil {
			return 0, err
		}

		cb := &kaio.Iocb{}
		op.buildIocb(cb, id, c.fdsyncSupported)
		iocbs = append(iocbs, cb)
		ids = append(ids, id)

		c.pinned.Store(id, op)
		op.pin()
	}

	n, err := c.ring.Submit(iocbs)
	if err != nil {
		for i, op := range ops {
			c.pinned.Delete(ids[i])
			op.unpin()
			op.markAbandoned()
		}
		return 0, wrapError("Submit", mapSubmitErrno(errnoOf(err)), err)
	}

	// The kernel only accepted a prefix; release the pins for the rest so
	// the caller can resubmit them.
	for i := n; i < len(ops); i++ {
		c.pinned.Delete(ids[i])
		ops[i].unpin()
		ops[i].markAbandoned()
	}

	if c.observer != nil {
		c.observer.ObserveQueueDepth(n)
	}
	c.logger.Debug("submitted operations", "accepted", n, "requested", len(ops))
	return n, nil
}

// Cancel attempts io_cancel on op. On success the kernel reports the
// completion synchronously (it bypasses the normal io_getevents path), so
// Cancel itself releases the pin and invokes the callback; on failure
// (typically EAGAIN, meaning the request is already completing) the
// operation is left untouched for ProcessEvents to harvest normally. This
// is the single place a cancel-initiated completion is delivered, so a
// callback never fires twice for the same operation.
func (c *KernelContext) Cancel(op *Operation) (int, error) {
	cb := &kaio.Iocb{}
	op.buildIocb(cb, op.id, c.fdsyncSupported)

	ev, err := c.ring.Cancel(cb)
	if err != nil {
		return 0, wrapError("Cancel", mapCancelErrno(errnoOf(err)), err)
	}

	if op.unpin() {
		c.pinned.Delete(op.id)
		callback := op.complete(ev.Res)
		if callback != nil {
			callback(ev.Res)
		}
	}
	return 1, nil
}

// ProcessEvents waits for between minRequests and maxRequests completions
// (0 for either uses ProcessEventsMaxDefault for max, 0 for min), up to
// timeout, recovers the matching Operation for each io_event via its
// tagged id, records the result, and invokes its callback. It returns the
// number of operations harvested.
func (c *KernelContext) ProcessEvents(minRequests, maxRequests int, timeout time.Duration) (int, error) {
	if maxRequests == 0 {
		maxRequests = constants.ProcessEventsMaxDefault
	}
	if minRequests > maxRequests {
		return 0, newError("ProcessEvents", CodeInvalidValue, "minRequests must be <= maxRequests")
	}

	events, err := c.ring.GetEvents(minRequests, maxRequests, timeout)
	if err != nil {
		return 0, wrapError("ProcessEvents", CodeSystem, err)
	}

	harvested := 0
	for _, ev := range events {
		v, ok := c.pinned.Load(ev.Data)
		if !ok {
			continue
		}
		op := v.(*Operation)
		c.pinned.Delete(ev.Data)
		if !op.unpin() {
			continue
		}

		callback := op.complete(ev.Res)
		harvested++
		if c.observer != nil {
			c.observer.ObserveCompletion(op.opCode.String(), uint64(maxInt64(ev.Res, 0)), 0, ev.Res >= 0)
		}
		if callback != nil {
			callback(ev.Res)
		}
	}
	c.logger.Debug("harvested completions", "count", harvested)
	return harvested, nil
}

// Poll performs the canonical blocking 8-byte eventfd read, returning the
// accumulated completion counter or CodeBlocking on a short read.
func (c *KernelContext) Poll() (uint64, error) {
	n, err := c.ring.Poll()
	if err != nil {
		return 0, wrapError("Poll", CodeBlocking, err)
	}
	return n, nil
}

// Close releases the pin on every operation that was submitted but never
// harvested (their outcome is abandoned, not delivered), then performs
// io_destroy and closes the eventfd.
func (c *KernelContext) Close() error {
	c.pinned.Range(func(key, value any) bool {
		op := value.(*Operation)
		if op.unpin() {
			op.abandon()
		}
		c.pinned.Delete(key)
		return true
	})
	if err := c.ring.Close(); err != nil {
		return wrapError("Close", CodeSystem, err)
	}
	c.logger.Debug("kernel context closed")
	return nil
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
