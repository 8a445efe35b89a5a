package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

// createTestJournal opens a journal in a temp directory.
func createTestJournal(t *testing.T) *Journal {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func mustEntry(t *testing.T, session string, seq int64, kind string, payload any, applied bool, at time.Time) Entry {
	t.Helper()
	e, err := NewEntry(session, seq, kind, payload, applied, at)
	require.NoError(t, err)
	return e
}

func TestOpen_Pragmas(t *testing.T) {
	j := createTestJournal(t)

	assert.NoError(t, j.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, j.verifyPragma("synchronous", "1"))
	assert.NoError(t, j.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, j.verifyPragma("user_version", "1"))
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j1.Append(context.Background(), mustEntry(t, "s1", 1, "StartSimulation", struct{}{}, true, t0)))
	require.NoError(t, j1.Close())

	j2, err := Open(path)
	require.NoError(t, err)
	defer j2.Close()

	entries, err := j2.ReadSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAppendAndReadSession(t *testing.T) {
	ctx := context.Background()
	j := createTestJournal(t)

	payload := map[string]any{"device_id": "d2", "temperature": 25.5}
	require.NoError(t, j.Append(ctx, mustEntry(t, "s1", 2, "UpdateDeviceTemperature", payload, true, t0.Add(3*time.Second))))
	require.NoError(t, j.Append(ctx, mustEntry(t, "s1", 1, "TriggerDemoFailure", struct{}{}, true, t0)))
	require.NoError(t, j.Append(ctx, mustEntry(t, "s1", 3, "AcknowledgeAlert", map[string]string{"alert_id": "alert-999"}, false, t0.Add(4*time.Second))))
	require.NoError(t, j.Append(ctx, mustEntry(t, "s2", 1, "Login", struct{}{}, true, t0)))

	entries, err := j.ReadSession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, []int64{1, 2, 3}, []int64{entries[0].Seq, entries[1].Seq, entries[2].Seq}, "ordered by seq")
	assert.Equal(t, "UpdateDeviceTemperature", entries[1].Kind)
	assert.JSONEq(t, `{"device_id":"d2","temperature":25.5}`, string(entries[1].Payload))
	assert.True(t, entries[1].Applied)
	assert.False(t, entries[2].Applied)
	assert.True(t, entries[1].RecordedAt.Equal(t0.Add(3*time.Second)))
}

func TestAppend_DuplicateIgnored(t *testing.T) {
	ctx := context.Background()
	j := createTestJournal(t)

	require.NoError(t, j.Append(ctx, mustEntry(t, "s1", 1, "StartSimulation", struct{}{}, true, t0)))
	require.NoError(t, j.Append(ctx, mustEntry(t, "s1", 1, "StopSimulation", struct{}{}, true, t0)))

	entries, err := j.ReadSession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "StartSimulation", entries[0].Kind)
}

func TestReadSession_Unknown(t *testing.T) {
	j := createTestJournal(t)

	entries, err := j.ReadSession(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	j := createTestJournal(t)

	_, ok, err := j.Latest(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	first, err := uuid.NewV7()
	require.NoError(t, err)
	second, err := uuid.NewV7()
	require.NoError(t, err)

	// Sub-second and whole-second stamps must still order correctly.
	require.NoError(t, j.Append(ctx, mustEntry(t, first.String(), 1, "Login", nil, true, t0.Add(500*time.Millisecond))))
	require.NoError(t, j.Append(ctx, mustEntry(t, first.String(), 2, "Tick", nil, false, t0.Add(time.Second))))
	require.NoError(t, j.Append(ctx, mustEntry(t, first.String(), 3, "Tick", nil, true, t0.Add(1500*time.Millisecond))))
	require.NoError(t, j.Append(ctx, mustEntry(t, second.String(), 1, "Login", nil, true, t0.Add(time.Hour))))

	sessions, err := j.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	s := sessions[0]
	assert.Equal(t, first.String(), s.ID)
	assert.Equal(t, 3, s.Entries)
	assert.Equal(t, 2, s.Applied)
	assert.True(t, s.StartedAt.Equal(t0.Add(500*time.Millisecond)))
	assert.True(t, s.EndedAt.Equal(t0.Add(1500*time.Millisecond)))

	latest, ok, err := j.Latest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second.String(), latest.ID)
}

func TestNewEntry_EncodesPayload(t *testing.T) {
	e, err := NewEntry("s1", 7, "ToggleRule", map[string]string{"rule_id": "r1"}, true, t0.In(time.FixedZone("AEST", 10*3600)))
	require.NoError(t, err)

	assert.JSONEq(t, `{"rule_id":"r1"}`, string(e.Payload))
	assert.Equal(t, time.UTC, e.RecordedAt.Location())

	_, err = NewEntry("s1", 8, "Bad", map[string]any{"ch": make(chan int)}, true, t0)
	assert.ErrorContains(t, err, "encode Bad payload")
}
