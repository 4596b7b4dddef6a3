// Package constants holds the tunable defaults and ceilings shared by the
// kernel and thread-pool back-ends.
package constants

// Kernel AIO context defaults, taken from the reference implementation's
// io_setup/io_submit call sites.
const (
	// KernelMaxRequestsDefault is the aio_context_t queue depth used when a
	// caller requests zero (io_setup's nr_events).
	KernelMaxRequestsDefault = 32

	// ProcessEventsMaxDefault is the io_getevents max_requests used when a
	// caller requests zero.
	ProcessEventsMaxDefault = 512
)

// Thread-pool back-end defaults and ceilings.
const (
	// ThreadPoolSizeDefault is the worker count used when a caller requests
	// zero.
	ThreadPoolSizeDefault = 8

	// ThreadMaxRequestsDefault is the queue depth used when a caller
	// requests zero.
	ThreadMaxRequestsDefault = 512

	// MaxThreads is the hard ceiling on pool size; constructors reject any
	// larger request rather than silently clamping it.
	MaxThreads = 1024

	// MaxQueue is the exclusive ceiling on queue depth (max_requests):
	// constructors reject max_requests >= MaxQueue. Mirrored after the
	// reference thread pool's internal queue capacity.
	MaxQueue = 1 << 16
)

// Kernel version gate. The native AIO ABI only grew IOCB_CMD_FSYNC/FDSYNC
// support in Linux 4.18; contexts refuse to construct below that.
const (
	MinKernelMajor = 4
	MinKernelMinor = 18
)
