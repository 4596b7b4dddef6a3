package aio

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadRejectsNegativeSize(t *testing.T) {
	_, err := Read(-1, 3, 0, 0)
	require.Error(t, err)
	require.True(t, IsCode(err, CodeInvalidValue))
}

func TestWriteRejectsNilPayload(t *testing.T) {
	_, err := Write(nil, 3, 0, 0)
	require.Error(t, err)
	require.True(t, IsCode(err, CodeInvalidValue))
}

func TestWriteAcceptsEmptyPayload(t *testing.T) {
	op, err := Write([]byte{}, 3, 0, 0)
	require.NoError(t, err)
	require.Equal(t, OpWrite, op.OpCode())
}

func TestValueBeforeCompletionIsRuntimeError(t *testing.T) {
	op := Fsync(3, 0)
	_, err := op.Value()
	require.Error(t, err)
	require.True(t, IsCode(err, CodeRuntime))
}

func TestSetCallbackRejectsNilAndInFlight(t *testing.T) {
	op := Fsync(3, 0)

	err := op.SetCallback(nil)
	require.Error(t, err)

	require.NoError(t, op.SetCallback(func(int64) {}))

	require.NoError(t, op.markSubmitted(1))
	err = op.SetCallback(func(int64) {})
	require.Error(t, err)
}

func TestCompleteRecordsResult(t *testing.T) {
	op, err := Read(4, 3, 0, 0)
	require.NoError(t, err)
	require.NoError(t, op.markSubmitted(1))

	op.complete(4)
	v, err := op.Value()
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0}, v)
	require.False(t, op.InProgress())
}

func TestCompleteRecordsNegativeResultAsErrno(t *testing.T) {
	op := Fsync(3, 0)
	require.NoError(t, op.markSubmitted(1))

	op.complete(-9) // -EBADF
	_, err := op.Value()
	require.Error(t, err)
	require.True(t, IsCode(err, CodeSystem))
}

func TestPinUnpinIsExactlyOnce(t *testing.T) {
	op := Fsync(3, 0)
	op.pin()
	require.True(t, op.unpin())
	require.False(t, op.unpin())
}

func TestOpCodeString(t *testing.T) {
	require.Equal(t, "read", OpRead.String())
	require.Equal(t, "write", OpWrite.String())
	require.Equal(t, "fsync", OpFsync.String())
	require.Equal(t, "fdsync", OpFdsync.String())
	require.Equal(t, "noop", opNoop.String())
}

func TestReadAcceptsZeroSize(t *testing.T) {
	op, err := Read(0, 3, 0, 0)
	require.NoError(t, err)
	require.NoError(t, op.markSubmitted(1))

	op.complete(0)
	v, err := op.Value()
	require.NoError(t, err)
	require.Equal(t, []byte{}, v)
}

func TestNbytesReportsCapacityThenResult(t *testing.T) {
	op, err := Read(8, 3, 0, 0)
	require.NoError(t, err)
	require.Equal(t, int64(8), op.Nbytes())

	require.NoError(t, op.markSubmitted(1))
	op.complete(5)
	require.Equal(t, int64(5), op.Nbytes())
}

func TestPayloadAndPriorityAccessors(t *testing.T) {
	payload := []byte("abc")
	op, err := Write(payload, 3, 0, 7)
	require.NoError(t, err)
	require.Equal(t, payload, op.Payload())
	require.Equal(t, uint16(7), op.Priority())
}

func TestResultAndErrnoAccessors(t *testing.T) {
	op := Fsync(3, 0)
	require.NoError(t, op.markSubmitted(1))
	op.complete(-9) // -EBADF

	require.Equal(t, int64(0), op.Result())
	require.Equal(t, syscall.EBADF, op.Errno())
}
