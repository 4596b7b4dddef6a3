//go:build linux

package pool

import (
	"golang.org/x/sys/unix"

	"github.com/kernelaio/goaio/internal/logging"
)

// pinToCPU sets worker id's CPU affinity mask to exactly cpu via
// sched_setaffinity(2), mirroring the teacher's per-queue CPU pinning
// (internal/queue/runner.go's ioLoop). Failure is logged, never fatal: a
// worker that can't be pinned still runs, just without the affinity.
func pinToCPU(logger *logging.Logger, id, cpu int) {
	var mask unix.CPUSet
	mask.Set(cpu)
	if err := unix.SchedSetaffinity(0, &mask); err != nil {
		logger.Printf("worker %d: failed to set CPU affinity to CPU %d: %v", id, cpu, err)
		return
	}
	logger.Debugf("worker %d: pinned to CPU %d", id, cpu)
}
