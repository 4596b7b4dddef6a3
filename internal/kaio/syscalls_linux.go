//go:build linux

package kaio

import (
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// aioContextT mirrors aio_context_t: an opaque kernel-assigned handle.
type aioContextT uintptr

func ioSetup(nrEvents uint32) (aioContextT, error) {
	var ctx aioContextT
	_, _, errno := unix.Syscall(unix.SYS_IO_SETUP, uintptr(nrEvents), uintptr(unsafe.Pointer(&ctx)), 0)
	if errno != 0 {
		return 0, errno
	}
	return ctx, nil
}

func ioDestroy(ctx aioContextT) error {
	_, _, errno := unix.Syscall(unix.SYS_IO_DESTROY, uintptr(ctx), 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

// ioSubmit submits the prefix of iocbs the kernel accepts. The return value
// is the count accepted (which may be less than len(iocbs)), or an error if
// even the first could not be queued.
func ioSubmit(ctx aioContextT, iocbs []*Iocb) (int, error) {
	if len(iocbs) == 0 {
		return 0, nil
	}
	ptrs := make([]uintptr, len(iocbs))
	for i, cb := range iocbs {
		ptrs[i] = uintptr(unsafe.Pointer(cb))
	}
	n, _, errno := unix.Syscall(unix.SYS_IO_SUBMIT, uintptr(ctx), uintptr(len(ptrs)), uintptr(unsafe.Pointer(&ptrs[0])))
	if errno != 0 {
		return 0, errno
	}
	return int(n), nil
}

func ioCancel(ctx aioContextT, iocb *Iocb) (*Event, error) {
	var ev Event
	_, _, errno := unix.Syscall6(unix.SYS_IO_CANCEL, uintptr(ctx), uintptr(unsafe.Pointer(iocb)), uintptr(unsafe.Pointer(&ev)), 0, 0, 0)
	if errno != 0 {
		return nil, errno
	}
	return &ev, nil
}

// ioGetevents waits for between minRequests and maxRequests completions, up
// to timeout, and returns however many were actually ready.
func ioGetevents(ctx aioContextT, minRequests, maxRequests int, timeout time.Duration) ([]Event, error) {
	events := make([]Event, maxRequests)
	ts := unix.Timespec{
		Sec:  int64(timeout / time.Second),
		Nsec: int64(timeout % time.Second),
	}
	n, _, errno := unix.Syscall6(unix.SYS_IO_GETEVENTS, uintptr(ctx), uintptr(minRequests), uintptr(maxRequests),
		uintptr(unsafe.Pointer(&events[0])), uintptr(unsafe.Pointer(&ts)), 0)
	if errno != 0 {
		return nil, errno
	}
	return events[:n], nil
}

// eventfd wraps unix.Eventfd for the blocking (non-semaphore) read mode the
// completion bridge relies on.
func eventfd() (int, error) {
	return unix.Eventfd(0, 0)
}

// readEventfdCounter performs the canonical 8-byte eventfd read, returning
// the accumulated completion counter. A short read (EAGAIN on a
// non-blocking fd, or a read smaller than 8 bytes) is reported as
// syscall.EAGAIN so callers can map it to a blocking/would-block error.
func readEventfdCounter(fd int) (uint64, error) {
	var buf [8]byte
	n, err := unix.Read(fd, buf[:])
	if err != nil {
		return 0, err
	}
	if n != 8 {
		return 0, syscall.EAGAIN
	}
	return *(*uint64)(unsafe.Pointer(&buf[0])), nil
}
