// Package interfaces provides internal interface definitions shared across
// goaio's back-ends, kept separate from the public package to avoid
// circular imports between aio and its internal packages.
package interfaces

// Observer receives completion telemetry from a Context's submit/harvest
// path. Implementations must be safe to call concurrently: kernel contexts
// invoke it from ProcessEvents, thread contexts invoke it from worker
// goroutines.
type Observer interface {
	ObserveCompletion(op string, bytes uint64, latencyNs uint64, success bool)
	ObserveQueueDepth(depth int)
}
