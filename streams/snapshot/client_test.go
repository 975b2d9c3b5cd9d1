package snapshot

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func snapshotMessage(t *testing.T, sequence uint64) json.RawMessage {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"sequence":  sequence,
		"timestamp": 1700000000,
		"pools": []map[string]any{
			{
				"id":       1,
				"token0":   1,
				"token1":   2,
				"reserve0": 1000000,
				"reserve1": 2000000,
				"feeNum":   3,
				"feeDen":   1000,
			},
		},
	})
	require.NoError(t, err)

	msg, err := json.Marshal(SubscriptionEvent{
		Type:    "snapshot",
		Payload: payload,
		SentAt:  1700000000000,
	})
	require.NoError(t, err)
	return msg
}

func TestStreamProcessor_DeliversDecodedSnapshot(t *testing.T) {
	sp := NewStreamProcessor(testLogger(), 4)

	require.NoError(t, sp.ProcessMessage(snapshotMessage(t, 7)))

	select {
	case snap := <-sp.Snapshots():
		assert.Equal(t, uint64(7), snap.Sequence)
		require.Len(t, snap.Pools, 1)
		pool := snap.Pools[0]
		assert.Equal(t, uint64(1), pool.ID)
		assert.Equal(t, uint64(2), pool.Token1)
		assert.Equal(t, int64(1_000_000), pool.Reserve0.Int64())
		assert.Equal(t, int64(2_000_000), pool.Reserve1.Int64())
		assert.Equal(t, uint64(3), pool.FeeNum)
	default:
		t.Fatal("expected a snapshot on the channel")
	}
}

func TestStreamProcessor_DropsOutOfOrderSnapshots(t *testing.T) {
	sp := NewStreamProcessor(testLogger(), 4)

	require.NoError(t, sp.ProcessMessage(snapshotMessage(t, 5)))
	<-sp.Snapshots()

	// Stale and duplicate sequences are dropped without error.
	require.NoError(t, sp.ProcessMessage(snapshotMessage(t, 4)))
	require.NoError(t, sp.ProcessMessage(snapshotMessage(t, 5)))

	select {
	case snap := <-sp.Snapshots():
		t.Fatalf("unexpected snapshot with sequence %d", snap.Sequence)
	default:
	}

	// A fresh sequence still flows.
	require.NoError(t, sp.ProcessMessage(snapshotMessage(t, 6)))
	select {
	case snap := <-sp.Snapshots():
		assert.Equal(t, uint64(6), snap.Sequence)
	default:
		t.Fatal("expected the newer snapshot to be delivered")
	}
}

func TestStreamProcessor_RejectsUnknownEventType(t *testing.T) {
	sp := NewStreamProcessor(testLogger(), 4)

	msg, err := json.Marshal(SubscriptionEvent{Type: "heartbeat"})
	require.NoError(t, err)

	err = sp.ProcessMessage(msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestStreamProcessor_RejectsMalformedJSON(t *testing.T) {
	sp := NewStreamProcessor(testLogger(), 4)

	assert.Error(t, sp.ProcessMessage(json.RawMessage(`{not json`)))
	assert.Error(t, sp.ProcessMessage(json.RawMessage(`{"type":"snapshot","payload":"not-an-object"}`)))
}

func TestConfigValidate(t *testing.T) {
	valid := Config{URL: "ws://localhost:8546", Logger: testLogger(), BufferSize: 8}
	assert.NoError(t, valid.validate())

	missingURL := valid
	missingURL.URL = ""
	assert.Error(t, missingURL.validate())

	zeroBuffer := valid
	zeroBuffer.BufferSize = 0
	assert.Error(t, zeroBuffer.validate())

	missingLogger := valid
	missingLogger.Logger = nil
	assert.Error(t, missingLogger.validate())
}
