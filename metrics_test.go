package aio

import "testing"

func TestMetricsRecordsOpsAndBytes(t *testing.T) {
	m := NewMetrics()

	m.ObserveCompletion("read", 4096, 5_000, true)
	m.ObserveCompletion("write", 8192, 15_000, true)
	m.ObserveCompletion("read", 0, 2_000, false)

	snap := m.Snapshot()
	if snap.ReadOps != 2 {
		t.Errorf("ReadOps = %d, want 2", snap.ReadOps)
	}
	if snap.ReadBytes != 4096 {
		t.Errorf("ReadBytes = %d, want 4096", snap.ReadBytes)
	}
	if snap.ReadErrors != 1 {
		t.Errorf("ReadErrors = %d, want 1", snap.ReadErrors)
	}
	if snap.WriteOps != 1 || snap.WriteBytes != 8192 {
		t.Errorf("WriteOps/Bytes = %d/%d, want 1/8192", snap.WriteOps, snap.WriteBytes)
	}
	if snap.TotalOps != 3 {
		t.Errorf("TotalOps = %d, want 3", snap.TotalOps)
	}
}

func TestMetricsQueueDepthTracksMax(t *testing.T) {
	m := NewMetrics()

	m.ObserveQueueDepth(4)
	m.ObserveQueueDepth(12)
	m.ObserveQueueDepth(3)

	snap := m.Snapshot()
	if snap.MaxQueueDepth != 12 {
		t.Errorf("MaxQueueDepth = %d, want 12", snap.MaxQueueDepth)
	}
	want := float64(4+12+3) / 3
	if snap.AvgQueueDepth != want {
		t.Errorf("AvgQueueDepth = %f, want %f", snap.AvgQueueDepth, want)
	}
}

func TestMetricsLatencyHistogram(t *testing.T) {
	m := NewMetrics()

	m.ObserveCompletion("fsync", 0, 500, true) // below every bucket

	snap := m.Snapshot()
	for i, count := range snap.LatencyHistogram {
		if count != 1 {
			t.Errorf("bucket %d = %d, want 1 (500ns falls under every bucket)", i, count)
		}
	}
}
