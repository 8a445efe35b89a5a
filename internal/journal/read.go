package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ReadSession returns the entries of a session ordered by seq.
// Returns an empty slice (not nil) for an unknown session.
func (j *Journal) ReadSession(ctx context.Context, sessionID string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session_id, seq, kind, payload, applied, recorded_at
		FROM entries
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e          Entry
			payload    string
			recordedAt string
		)
		if err := rows.Scan(&e.SessionID, &e.Seq, &e.Kind, &payload, &e.Applied, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Payload = json.RawMessage(payload)
		if e.RecordedAt, err = time.Parse(timeLayout, recordedAt); err != nil {
			return nil, fmt.Errorf("parse recorded_at of seq=%d: %w", e.Seq, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

// Sessions lists every session, oldest first. UUIDv7 session IDs sort by
// creation time, so ID order is start order.
func (j *Journal) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session_id, COUNT(*), SUM(applied), MIN(recorded_at), MAX(recorded_at)
		FROM entries
		GROUP BY session_id
		ORDER BY session_id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var (
			s           Session
			first, last string
		)
		if err := rows.Scan(&s.ID, &s.Entries, &s.Applied, &first, &last); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if s.StartedAt, err = time.Parse(timeLayout, first); err != nil {
			return nil, fmt.Errorf("parse session %s start: %w", s.ID, err)
		}
		if s.EndedAt, err = time.Parse(timeLayout, last); err != nil {
			return nil, fmt.Errorf("parse session %s end: %w", s.ID, err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// Latest returns the most recently started session.
// ok is false when the journal is empty.
func (j *Journal) Latest(ctx context.Context) (Session, bool, error) {
	sessions, err := j.Sessions(ctx)
	if err != nil {
		return Session{}, false, err
	}
	if len(sessions) == 0 {
		return Session{}, false, nil
	}
	return sessions[len(sessions)-1], true, nil
}
