package aio

// Context is the common surface both back-ends expose: submit one or more
// operations, attempt to cancel one, and tear down.
type Context interface {
	Submit(ops ...*Operation) (int, error)
	Cancel(op *Operation) (int, error)
	MaxRequests() int
	Close() error
}

// ErrKernelTooOld is returned by NewKernelContext when the running kernel
// predates Linux 4.18, the first release with IOCB_CMD_FSYNC/FDSYNC
// support over io_submit.
var ErrKernelTooOld = newError("NewKernelContext", CodeNotImplemented, "kernel older than 4.18 does not support the AIO sync opcodes")

var (
	_ Context = (*KernelContext)(nil)
	_ Context = (*ThreadContext)(nil)
)
