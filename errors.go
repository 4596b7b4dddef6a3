package aio

import (
	"errors"
	"fmt"
	"syscall"
)

// Code enumerates the high-level error categories a Context or Operation
// can fail with.
type Code string

const (
	CodeOverflow       Code = "overflow"        // submit queue is full (EAGAIN)
	CodeInvalidValue   Code = "invalid value"   // bad fd, iocb, buffer, or argument
	CodeNotImplemented Code = "not implemented" // kernel refused the request (ENOSYS)
	CodeRuntime        Code = "runtime error"   // context misuse: uninitialized, shut down, queue full
	CodeBlocking       Code = "would block"     // a non-blocking read/poll had nothing ready
	CodeSystem         Code = "system error"    // any other errno
	CodeMemory         Code = "out of memory"   // allocation failure
)

// Error is a structured error carrying the failing operation, its category,
// and (when applicable) the underlying errno.
type Error struct {
	Op    string        // the call that failed, e.g. "Submit", "ProcessEvents"
	Code  Code          // high-level category
	Errno syscall.Errno // 0 if not applicable
	Msg   string        // human-readable message
	Inner error         // wrapped error, if any
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Errno != 0 {
		return fmt.Sprintf("aio: %s: %s (errno=%d)", e.Op, msg, e.Errno)
	}
	return fmt.Sprintf("aio: %s: %s", e.Op, msg)
}

// Unwrap supports errors.Is/errors.As against the wrapped inner error. When
// no inner error was recorded but an errno was, the errno itself unwraps so
// errors.Is(err, syscall.EIO) works without callers reaching into Errno.
func (e *Error) Unwrap() error {
	if e.Inner != nil {
		return e.Inner
	}
	if e.Errno != 0 {
		return e.Errno
	}
	return nil
}

// Is supports errors.Is comparison against another *Error by Code, letting
// callers write errors.Is(err, &aio.Error{Code: aio.CodeOverflow}).
func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

func newError(op string, code Code, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

func newErrnoError(op string, code Code, errno syscall.Errno) *Error {
	return &Error{Op: op, Code: code, Errno: errno, Msg: errno.Error()}
}

func wrapError(op string, code Code, inner error) *Error {
	if inner == nil {
		return nil
	}
	if errno, ok := inner.(syscall.Errno); ok {
		return newErrnoError(op, code, errno)
	}
	return &Error{Op: op, Code: code, Msg: inner.Error(), Inner: inner}
}

// mapSubmitErrno maps io_submit's errno to a Code per the hard floor table:
// EAGAIN means the context's queue is saturated, EBADF/EFAULT/EINVAL mean
// the caller passed something invalid, anything else is a system error.
func mapSubmitErrno(errno syscall.Errno) Code {
	switch errno {
	case syscall.EAGAIN:
		return CodeOverflow
	case syscall.EBADF, syscall.EFAULT, syscall.EINVAL:
		return CodeInvalidValue
	default:
		return CodeSystem
	}
}

// mapCancelErrno maps io_cancel's errno to a Code per the hard floor table:
// EAGAIN means the request could not be canceled (it may already be
// completing), EINVAL means the iocb/context pairing was invalid (a caller
// mistake, CodeInvalidValue), EFAULT means the kernel faulted dereferencing
// memory it was handed (a runtime-environment failure distinct from a bad
// argument, CodeRuntime), ENOSYS means the kernel has no cancel support for
// this opcode, anything else is a system error.
func mapCancelErrno(errno syscall.Errno) Code {
	switch errno {
	case syscall.EAGAIN:
		return CodeSystem
	case syscall.EINVAL:
		return CodeInvalidValue
	case syscall.EFAULT:
		return CodeRuntime
	case syscall.ENOSYS:
		return CodeNotImplemented
	default:
		return CodeSystem
	}
}

// errnoOf extracts the syscall.Errno from err if it is one, or 0 otherwise.
// The kaio package's syscalls return bare syscall.Errno values as errors;
// this lets Submit/Cancel map them without kaio needing to know about
// aio.Code at all.
func errnoOf(err error) syscall.Errno {
	if errno, ok := err.(syscall.Errno); ok {
		return errno
	}
	return 0
}

// IsCode reports whether err is an *Error with the given Code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsErrno reports whether err is an *Error wrapping the given errno.
func IsErrno(err error, errno syscall.Errno) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Errno == errno
	}
	return false
}
