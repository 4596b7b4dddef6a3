package aio

import (
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/kernelaio/goaio/internal/kaio"
)

// OpCode discriminates the kind of work an Operation carries. There is no
// subtyping by opcode: behavior lives in the Context implementations, not
// in Operation itself.
type OpCode int

const (
	OpRead OpCode = iota
	OpWrite
	OpFsync
	OpFdsync
	opNoop // internal use only: a thread-pool job completed without any I/O
)

func (c OpCode) String() string {
	switch c {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpFsync:
		return "fsync"
	case OpFdsync:
		return "fdsync"
	default:
		return "noop"
	}
}

// Operation is a tagged descriptor for one read, write, fsync, or fdsync
// request: the fd, offset, and (for read/write) buffer it addresses, the
// result it eventually carries, and an optional callback invoked on
// completion. An Operation is created by Read/Write/Fsync/Fdsync and is
// submitted to exactly one Context at a time; submitting it a second time
// before it completes is rejected (see Context.Submit).
type Operation struct {
	mu sync.Mutex

	opCode   OpCode
	fd       int
	offset   int64
	priority int16

	// buffer is the read destination (owned) or the write payload
	// (borrowed from the caller). Never touched once in flight.
	buffer []byte

	inProgress bool
	completed  bool
	result     int64
	errno      syscall.Errno

	callback func(result int64)

	// id is assigned by KernelContext.Submit and used to recover the
	// Operation from an io_event's Data field. Zero means "not currently
	// owned by a kernel context."
	id uint64

	// pinned is used only by the kernel back-end (Submit, Cancel,
	// ProcessEvents, Close) to release this Operation's pin exactly once.
	pinned atomic.Bool
}

// Read creates an Operation that reads up to nbytes from fd at offset into
// a freshly allocated buffer. The buffer is available via Value() once the
// operation completes successfully.
func Read(nbytes int, fd int, offset int64, priority uint16) (*Operation, error) {
	if nbytes < 0 {
		return nil, newError("Read", CodeInvalidValue, "nbytes must be >= 0")
	}
	return &Operation{
		opCode:   OpRead,
		fd:       fd,
		offset:   offset,
		priority: int16(priority),
		buffer:   make([]byte, nbytes),
	}, nil
}

// Write creates an Operation that writes payload to fd at offset. payload
// is borrowed: the caller must not mutate it until the operation
// completes.
func Write(payload []byte, fd int, offset int64, priority uint16) (*Operation, error) {
	if payload == nil {
		return nil, newError("Write", CodeInvalidValue, "payload must not be nil")
	}
	return &Operation{
		opCode:   OpWrite,
		fd:       fd,
		offset:   offset,
		priority: int16(priority),
		buffer:   payload,
	}, nil
}

// Fsync creates an Operation that calls fsync(2) on fd.
func Fsync(fd int, priority uint16) *Operation {
	return &Operation{opCode: OpFsync, fd: fd, priority: int16(priority)}
}

// Fdsync creates an Operation that calls fdatasync(2) on fd (falling back
// to fsync(2) on platforms, kernels, or back-ends without fdatasync
// support).
func Fdsync(fd int, priority uint16) *Operation {
	return &Operation{opCode: OpFdsync, fd: fd, priority: int16(priority)}
}

func noopOperation() *Operation {
	return &Operation{opCode: opNoop}
}

// SetCallback registers fn to be invoked with the raw syscall result (bytes
// transferred, or a negative errno) when the operation completes. It
// returns CodeInvalidValue if fn is nil or the operation is already in
// flight.
func (op *Operation) SetCallback(fn func(result int64)) error {
	op.mu.Lock()
	defer op.mu.Unlock()
	if fn == nil {
		return newError("SetCallback", CodeInvalidValue, "callback must not be nil")
	}
	if op.inProgress {
		return newError("SetCallback", CodeInvalidValue, "operation is already submitted")
	}
	op.callback = fn
	return nil
}

// Fd returns the file descriptor this operation addresses.
func (op *Operation) Fd() int { return op.fd }

// Offset returns the file offset this operation addresses.
func (op *Operation) Offset() int64 { return op.offset }

// OpCode returns the operation's discriminator.
func (op *Operation) OpCode() OpCode { return op.opCode }

// Nbytes returns the READ capacity / WRITE payload length before
// completion, and the bytes actually transferred after a successful
// completion (per the convention that nbytes doubles as capacity pre-submit
// and result post-completion).
func (op *Operation) Nbytes() int64 {
	op.mu.Lock()
	defer op.mu.Unlock()
	if op.completed && op.errno == 0 {
		return op.result
	}
	return int64(len(op.buffer))
}

// Payload returns the operation's underlying byte region: the owned
// destination buffer for READ, or the borrowed bytes for WRITE. Unlike
// Value(), this is not copied and not gated on completion, matching the
// read-only .payload accessor both back-ends expose directly on Operation.
func (op *Operation) Payload() []byte {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.buffer
}

// Priority returns the advisory request priority the operation was created
// with.
func (op *Operation) Priority() uint16 {
	return uint16(op.priority)
}

// Result returns the raw post-completion result: bytes transferred for
// READ/WRITE, 0 for FSYNC/FDSYNC. It is meaningful only once Errno() == 0
// and the operation has completed; exposed mainly for the thread back-end,
// which (per spec) surfaces .result/.error directly rather than only
// through Value().
func (op *Operation) Result() int64 {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.result
}

// Errno returns the errno recorded on completion, or 0 if the operation
// succeeded or has not completed yet.
func (op *Operation) Errno() syscall.Errno {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.errno
}

// InProgress reports whether the operation is currently owned by a
// Context.
func (op *Operation) InProgress() bool {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.inProgress
}

// Value returns the operation's outcome: for OpRead, the bytes actually
// read (a copy, safe for the caller to retain); for OpWrite, the number of
// bytes transferred as int64; for OpFsync/OpFdsync, nil. It returns an
// error wrapping the syscall errno if the operation failed, and
// CodeRuntime if the operation has not completed yet.
func (op *Operation) Value() (any, error) {
	op.mu.Lock()
	defer op.mu.Unlock()

	if !op.completed {
		return nil, newError("Value", CodeRuntime, "operation has not completed")
	}
	if op.errno != 0 {
		return nil, newErrnoError("Value", CodeSystem, op.errno)
	}
	switch op.opCode {
	case OpRead:
		out := make([]byte, op.result)
		copy(out, op.buffer[:op.result])
		return out, nil
	case OpWrite:
		return op.result, nil
	default:
		return nil, nil
	}
}

// buildIocb fills cb to match this operation, tagging it with data so the
// kernel back-end can recover the Operation from the matching io_event.
// Passing fdsyncSupported=false makes it substitute OpFdsync -> OpFsync when
// the running kernel lacks IOCB_CMD_FDSYNC support.
func (op *Operation) buildIocb(cb *kaio.Iocb, data uint64, fdsyncSupported bool) {
	switch op.opCode {
	case OpRead:
		cb.SetRead(op.fd, op.buffer, op.offset, data, op.priority)
	case OpWrite:
		cb.SetWrite(op.fd, op.buffer, op.offset, data, op.priority)
	case OpFsync:
		cb.SetSync(op.fd, kaio.OpcodeFsync, data, op.priority)
	case OpFdsync:
		opcode := kaio.OpcodeFdsync
		if !fdsyncSupported {
			opcode = kaio.OpcodeFsync
		}
		cb.SetSync(op.fd, opcode, data, op.priority)
	}
}

// markSubmitted transitions the operation into the in-flight state,
// rejecting a second submit of an operation that is already in flight.
// id is the kernel back-end's completion-lookup key; the thread back-end
// passes 0 (it recovers the Operation from the job closure instead).
func (op *Operation) markSubmitted(id uint64) error {
	op.mu.Lock()
	defer op.mu.Unlock()
	if op.inProgress {
		return newError("Submit", CodeInvalidValue, "operation is already in flight")
	}
	op.inProgress = true
	op.completed = false
	op.id = id
	return nil
}

// markAbandoned reverses markSubmitted for an operation the kernel rejected
// from a partial io_submit batch (never actually queued).
func (op *Operation) markAbandoned() {
	op.mu.Lock()
	defer op.mu.Unlock()
	op.inProgress = false
	op.id = 0
}

// complete records a raw syscall result (bytes transferred, or a negative
// errno per the io_event/thread-worker convention) and returns the
// registered callback, if any, for the caller to invoke outside op.mu.
func (op *Operation) complete(raw int64) func(int64) {
	op.mu.Lock()
	defer op.mu.Unlock()

	op.inProgress = false
	op.completed = true
	if raw >= 0 {
		op.result = raw
	} else {
		op.errno = syscall.Errno(-raw)
	}
	return op.callback
}

// abandon marks an in-flight operation as no longer owned by any Context,
// without recording a result. Used by Close/teardown for pins that never
// got harvested: the operation's outcome is simply unknown.
func (op *Operation) abandon() {
	op.mu.Lock()
	defer op.mu.Unlock()
	op.inProgress = false
	op.id = 0
}

// pin marks the operation as holding a kernel-context pin; unpin releases
// it and reports whether this call was the one that actually transitioned
// it (guarding against the cancel/process_events race described in the
// package's design notes: a pin must be released exactly once).
func (op *Operation) pin() {
	op.pinned.Store(true)
}

func (op *Operation) unpin() bool {
	return op.pinned.CompareAndSwap(true, false)
}
