package kaio

import (
	"time"

	"golang.org/x/sys/unix"
)

// Ring is a thin, syscall-level wrapper around one aio_context_t and its
// companion eventfd. It has no notion of Operation, pinning, or callbacks;
// the aio package builds that on top.
type Ring struct {
	ctx         aioContextT
	eventfdFd   int
	maxRequests int
	closed      bool
}

// NewRing performs io_setup for maxRequests and creates the eventfd used to
// signal completions out-of-band from io_getevents.
func NewRing(maxRequests int) (*Ring, error) {
	fd, err := eventfd()
	if err != nil {
		return nil, err
	}
	ctx, err := ioSetup(uint32(maxRequests))
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	return &Ring{ctx: ctx, eventfdFd: fd, maxRequests: maxRequests}, nil
}

// Fd returns the eventfd file descriptor backing completion notifications.
func (r *Ring) Fd() int {
	return r.eventfdFd
}

// MaxRequests returns the queue depth the ring was created with.
func (r *Ring) MaxRequests() int {
	return r.maxRequests
}

// Submit arranges for the eventfd to be signaled on completion of each
// iocb, then calls io_submit. It returns the number of iocbs the kernel
// actually accepted; callers own unwinding the iocbs beyond that count (the
// kernel guarantees acceptance is a contiguous prefix of the array it was
// handed).
func (r *Ring) Submit(iocbs []*Iocb) (int, error) {
	for _, cb := range iocbs {
		cb.Flags |= ResFdFlag
		cb.ResFd = uint32(r.eventfdFd)
	}
	return ioSubmit(r.ctx, iocbs)
}

// Cancel attempts to cancel a previously submitted iocb. On success it
// returns the io_event the kernel produced synchronously; on failure
// (typically EAGAIN, meaning the request could not be canceled because it
// is already completing) it returns the bare syscall.Errno.
func (r *Ring) Cancel(iocb *Iocb) (*Event, error) {
	return ioCancel(r.ctx, iocb)
}

// GetEvents blocks (up to timeout) for between minRequests and
// maxRequests completions and returns whatever arrived.
func (r *Ring) GetEvents(minRequests, maxRequests int, timeout time.Duration) ([]Event, error) {
	return ioGetevents(r.ctx, minRequests, maxRequests, timeout)
}

// Poll performs the canonical blocking eventfd read and returns the
// accumulated completion counter.
func (r *Ring) Poll() (uint64, error) {
	return readEventfdCounter(r.eventfdFd)
}

// Close tears down the kernel context and the eventfd. It is not itself
// responsible for releasing any outstanding pins on not-yet-harvested
// operations; the aio package does that before calling Close.
func (r *Ring) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	err := ioDestroy(r.ctx)
	if cerr := unix.Close(r.eventfdFd); err == nil {
		err = cerr
	}
	return err
}
