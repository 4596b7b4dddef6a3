package aio

import "github.com/kernelaio/goaio/internal/constants"

// Re-exported tunables. See internal/constants for the rationale behind
// each default and ceiling.
const (
	KernelMaxRequestsDefault = constants.KernelMaxRequestsDefault
	ProcessEventsMaxDefault  = constants.ProcessEventsMaxDefault
	ThreadPoolSizeDefault    = constants.ThreadPoolSizeDefault
	ThreadMaxRequestsDefault = constants.ThreadMaxRequestsDefault
	MaxThreads               = constants.MaxThreads
	MaxQueue                 = constants.MaxQueue
)
