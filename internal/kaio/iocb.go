// Package kaio wraps the Linux native AIO syscall ABI (io_setup, io_submit,
// io_getevents, io_cancel, io_destroy) and the eventfd-based completion
// signaling that goes with it. It knows nothing about Operation, callbacks,
// or pin tracking — that bookkeeping lives in the aio package, which is the
// only thing that imports this one.
package kaio

import "unsafe"

// Opcode mirrors linux/aio_abi.h's IOCB_CMD_* values.
type Opcode uint16

const (
	OpcodePread   Opcode = 0
	OpcodePwrite  Opcode = 1
	OpcodeFsync   Opcode = 2
	OpcodeFdsync  Opcode = 3
	OpcodeNoop    Opcode = 6
)

// ResFdFlag is IOCB_FLAG_RESFD: when set, completions are also signaled on
// aio_resfd via eventfd in addition to being queued for io_getevents.
const ResFdFlag uint32 = 1 << 0

// Iocb mirrors struct iocb from linux/aio_abi.h byte-for-byte. Field order
// and sizes must not change: this is submitted to the kernel as raw bytes
// via io_submit.
type Iocb struct {
	Data      uint64 // aio_data: opaque identifier, returned verbatim in the matching io_event
	Key       uint32 // aio_key: unused by the kernel on submission
	RWFlags   uint32 // aio_rw_flags: RWF_* flags (unused here)
	Opcode    uint16 // aio_lio_opcode
	ReqPrio   int16  // aio_reqprio
	Fildes    uint32 // aio_fildes
	Buf       uint64 // aio_buf: pointer to the data buffer
	Nbytes    uint64 // aio_nbytes: requested transfer size
	Offset    int64  // aio_offset
	Reserved2 uint64
	Flags     uint32 // aio_flags
	ResFd     uint32 // aio_resfd
}

// This compile-time check pins Iocb at the kernel's expected 64 bytes; a layout mistake
// here would corrupt whatever the kernel reads as the next iocb in a batch.
var _ [64]byte = [unsafe.Sizeof(Iocb{})]byte{}

// Event mirrors struct io_event from linux/aio_abi.h.
type Event struct {
	Data uint64
	Obj  uint64
	Res  int64
	Res2 int64
}

var _ [32]byte = [unsafe.Sizeof(Event{})]byte{}

// SetRead configures iocb for an IOCB_CMD_PREAD. A zero-length buf (reading
// zero bytes) is valid: the kernel back-end must accept it and complete it
// with an empty result rather than dereference an empty slice's backing
// array.
func (c *Iocb) SetRead(fd int, buf []byte, offset int64, data uint64, priority int16) {
	c.reset()
	c.Opcode = uint16(OpcodePread)
	c.Fildes = uint32(fd)
	if len(buf) > 0 {
		c.Buf = uint64(uintptr(unsafe.Pointer(&buf[0])))
	}
	c.Nbytes = uint64(len(buf))
	c.Offset = offset
	c.Data = data
	c.ReqPrio = priority
}

// SetWrite configures iocb for an IOCB_CMD_PWRITE.
func (c *Iocb) SetWrite(fd int, buf []byte, offset int64, data uint64, priority int16) {
	c.reset()
	c.Opcode = uint16(OpcodePwrite)
	c.Fildes = uint32(fd)
	if len(buf) > 0 {
		c.Buf = uint64(uintptr(unsafe.Pointer(&buf[0])))
	}
	c.Nbytes = uint64(len(buf))
	c.Offset = offset
	c.Data = data
	c.ReqPrio = priority
}

// SetSync configures iocb for an IOCB_CMD_FSYNC or IOCB_CMD_FDSYNC.
func (c *Iocb) SetSync(fd int, op Opcode, data uint64, priority int16) {
	c.reset()
	c.Opcode = uint16(op)
	c.Fildes = uint32(fd)
	c.Data = data
	c.ReqPrio = priority
}

func (c *Iocb) reset() {
	*c = Iocb{}
}
