package journal

import (
	"context"
	"fmt"
)

// Append inserts an entry.
// Uses ON CONFLICT DO NOTHING for idempotency - rewriting the same
// (session_id, seq) is silently ignored.
func (j *Journal) Append(ctx context.Context, e Entry) error {
	payload := string(e.Payload)
	if payload == "" {
		payload = "null"
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO entries
		(session_id, seq, kind, payload, applied, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`,
		e.SessionID,
		e.Seq,
		e.Kind,
		payload,
		e.Applied,
		e.RecordedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("append %s seq=%d: %w", e.Kind, e.Seq, err)
	}

	return nil
}
