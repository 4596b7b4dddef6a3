//go:build !linux

package pool

import "github.com/kernelaio/goaio/internal/logging"

// pinToCPU is a no-op on non-Linux platforms: sched_setaffinity has no
// portable equivalent, so CPUAffinity configuration is silently ignored
// rather than failing the pool's construction.
func pinToCPU(logger *logging.Logger, id, cpu int) {
	logger.Debugf("worker %d: CPU affinity requested for CPU %d but unsupported on this platform", id, cpu)
}
