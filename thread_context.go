package aio

import (
	"sync"

	"github.com/kernelaio/goaio/internal/interfaces"
	"github.com/kernelaio/goaio/internal/logging"
	"github.com/kernelaio/goaio/internal/pool"
)

// ThreadConfig controls ThreadContext construction. A zero value uses
// package defaults.
type ThreadConfig struct {
	PoolSize    int
	MaxRequests int
	Logger      *logging.Logger
	Observer    interfaces.Observer

	// CPUAffinity, if non-empty, pins worker N to CPU
	// CPUAffinity[N % len(CPUAffinity)], mirroring the teacher's per-queue
	// CPU pinning.
	CPUAffinity []int
}

// ThreadContext runs blocking positional I/O (pread/pwrite/fsync/fdatasync)
// on a bounded worker pool and invokes callbacks as each job finishes.
// Unlike KernelContext, a job closure holds its own reference to the
// Operation it carries, so no separate pin-tracking map is needed here:
// Go's garbage collector keeps the Operation alive for exactly as long as
// its queued or running job does.
//
// The actual I/O (perform, in thread_context_linux.go) is Linux-specific;
// on other platforms NewThreadContext fails with CodeNotImplemented rather
// than silently degrading.
type ThreadContext struct {
	pool       *pool.Pool
	logger     *logging.Logger
	observer   interfaces.Observer
	callbackMu sync.Mutex // stands in for the host-runtime global lock
}
