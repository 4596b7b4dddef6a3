package aio

import (
	"sync/atomic"
	"time"
)

// LatencyBuckets defines the latency histogram buckets in nanoseconds,
// log-spaced from 1us to 10s.
var LatencyBuckets = []uint64{
	1_000,          // 1us
	10_000,         // 10us
	100_000,        // 100us
	1_000_000,      // 1ms
	10_000_000,     // 10ms
	100_000_000,    // 100ms
	1_000_000_000,  // 1s
	10_000_000_000, // 10s
}

const numLatencyBuckets = 8

// Metrics accumulates per-opcode counters and a latency histogram across
// the submit/harvest lifecycle of a Context. It implements
// internal/interfaces.Observer so it can be handed to
// NewKernelContextWithConfig or NewThreadContextWithConfig (via the
// Observer field of KernelConfig/ThreadConfig).
type Metrics struct {
	ReadOps   atomic.Uint64
	WriteOps  atomic.Uint64
	FsyncOps  atomic.Uint64
	FdsyncOps atomic.Uint64

	ReadBytes  atomic.Uint64
	WriteBytes atomic.Uint64

	ReadErrors   atomic.Uint64
	WriteErrors  atomic.Uint64
	FsyncErrors  atomic.Uint64
	FdsyncErrors atomic.Uint64

	QueueDepthTotal atomic.Uint64
	QueueDepthCount atomic.Uint64
	MaxQueueDepth   atomic.Uint32

	TotalLatencyNs atomic.Uint64
	OpCount        atomic.Uint64
	LatencyBuckets [numLatencyBuckets]atomic.Uint64

	StartTime atomic.Int64
}

// NewMetrics returns a ready-to-use, zeroed Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.StartTime.Store(time.Now().UnixNano())
	return m
}

// ObserveCompletion implements internal/interfaces.Observer.
func (m *Metrics) ObserveCompletion(op string, bytes uint64, latencyNs uint64, success bool) {
	switch op {
	case "read":
		m.ReadOps.Add(1)
		if success {
			m.ReadBytes.Add(bytes)
		} else {
			m.ReadErrors.Add(1)
		}
	case "write":
		m.WriteOps.Add(1)
		if success {
			m.WriteBytes.Add(bytes)
		} else {
			m.WriteErrors.Add(1)
		}
	case "fsync":
		m.FsyncOps.Add(1)
		if !success {
			m.FsyncErrors.Add(1)
		}
	case "fdsync":
		m.FdsyncOps.Add(1)
		if !success {
			m.FdsyncErrors.Add(1)
		}
	}
	m.recordLatency(latencyNs)
}

// ObserveQueueDepth implements internal/interfaces.Observer.
func (m *Metrics) ObserveQueueDepth(depth int) {
	m.QueueDepthTotal.Add(uint64(depth))
	m.QueueDepthCount.Add(1)
	for {
		current := m.MaxQueueDepth.Load()
		if depth <= int(current) {
			break
		}
		if m.MaxQueueDepth.CompareAndSwap(current, uint32(depth)) {
			break
		}
	}
}

func (m *Metrics) recordLatency(latencyNs uint64) {
	m.TotalLatencyNs.Add(latencyNs)
	m.OpCount.Add(1)
	for i, bucket := range LatencyBuckets {
		if latencyNs <= bucket {
			m.LatencyBuckets[i].Add(1)
		}
	}
}

// Snapshot is a point-in-time, non-atomic copy of Metrics suitable for
// logging or exporting.
type Snapshot struct {
	ReadOps, WriteOps, FsyncOps, FdsyncOps               uint64
	ReadBytes, WriteBytes                                uint64
	ReadErrors, WriteErrors, FsyncErrors, FdsyncErrors    uint64
	AvgQueueDepth                                         float64
	MaxQueueDepth                                         uint32
	AvgLatencyNs                                          uint64
	UptimeNs                                              int64
	LatencyHistogram                                      [numLatencyBuckets]uint64
	TotalOps, TotalBytes                                  uint64
}

// Snapshot takes a consistent-enough point-in-time copy of m.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		ReadOps:      m.ReadOps.Load(),
		WriteOps:     m.WriteOps.Load(),
		FsyncOps:     m.FsyncOps.Load(),
		FdsyncOps:    m.FdsyncOps.Load(),
		ReadBytes:    m.ReadBytes.Load(),
		WriteBytes:   m.WriteBytes.Load(),
		ReadErrors:   m.ReadErrors.Load(),
		WriteErrors:  m.WriteErrors.Load(),
		FsyncErrors:  m.FsyncErrors.Load(),
		FdsyncErrors: m.FdsyncErrors.Load(),
		MaxQueueDepth: m.MaxQueueDepth.Load(),
		UptimeNs:     time.Now().UnixNano() - m.StartTime.Load(),
	}
	s.TotalOps = s.ReadOps + s.WriteOps + s.FsyncOps + s.FdsyncOps
	s.TotalBytes = s.ReadBytes + s.WriteBytes

	if count := m.QueueDepthCount.Load(); count > 0 {
		s.AvgQueueDepth = float64(m.QueueDepthTotal.Load()) / float64(count)
	}
	if opCount := m.OpCount.Load(); opCount > 0 {
		s.AvgLatencyNs = m.TotalLatencyNs.Load() / opCount
	}
	for i := range m.LatencyBuckets {
		s.LatencyHistogram[i] = m.LatencyBuckets[i].Load()
	}
	return s
}
