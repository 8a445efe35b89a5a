package journal

import (
	"encoding/json"
	"fmt"
	"time"
)

// timeLayout is fixed width so recorded_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one journalled command.
type Entry struct {
	SessionID  string          `json:"session_id"`
	Seq        int64           `json:"seq"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	Applied    bool            `json:"applied"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// NewEntry builds an entry, encoding payload as JSON.
func NewEntry(sessionID string, seq int64, kind string, payload any, applied bool, at time.Time) (Entry, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Entry{}, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	return Entry{
		SessionID:  sessionID,
		Seq:        seq,
		Kind:       kind,
		Payload:    data,
		Applied:    applied,
		RecordedAt: at.UTC(),
	}, nil
}

// Session summarizes one engine run.
type Session struct {
	ID        string    `json:"id"`
	Entries   int       `json:"entries"`
	Applied   int       `json:"applied"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}
