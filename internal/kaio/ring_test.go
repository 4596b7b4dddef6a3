//go:build linux

package kaio

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestRing returns a Ring, skipping the test if io_setup is refused by
// the sandbox (common under seccomp-restricted CI containers).
func newTestRing(t *testing.T, maxRequests int) *Ring {
	t.Helper()
	ring, err := NewRing(maxRequests)
	if err != nil {
		t.Skipf("kernel AIO unavailable in this environment: %v", err)
	}
	t.Cleanup(func() { ring.Close() })
	return ring
}

func TestRingSubmitAndHarvestWrite(t *testing.T) {
	ring := newTestRing(t, 8)

	f, err := os.CreateTemp(t.TempDir(), "kaio")
	require.NoError(t, err)
	defer f.Close()

	payload := []byte("hello kernel aio")
	var cb Iocb
	cb.SetWrite(int(f.Fd()), payload, 0, 42, 0)

	n, err := ring.Submit([]*Iocb{&cb})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	events, err := ring.GetEvents(1, 1, 5*time.Second)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, uint64(42), events[0].Data)
	require.Equal(t, int64(len(payload)), events[0].Res)
}

func TestRingPollReturnsCompletionCounter(t *testing.T) {
	ring := newTestRing(t, 8)

	f, err := os.CreateTemp(t.TempDir(), "kaio")
	require.NoError(t, err)
	defer f.Close()

	payload := []byte("x")
	var cb Iocb
	cb.SetWrite(int(f.Fd()), payload, 0, 1, 0)
	_, err = ring.Submit([]*Iocb{&cb})
	require.NoError(t, err)

	count, err := ring.Poll()
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)
}

func TestRingCloseIsIdempotent(t *testing.T) {
	ring := newTestRing(t, 4)
	require.NoError(t, ring.Close())
	require.NoError(t, ring.Close())
}
