package testutil

import (
	"fmt"
	"sync"
)

// FixedSessions returns the same journal session ID every time.
//
// A scenario run with FixedSessions produces byte-identical journal rows,
// which keeps golden traces stable.
//
// Thread-safety: FixedSessions is stateless and safe for concurrent use.
type FixedSessions struct {
	id string
}

// NewFixedSessions creates a fixed session ID generator.
// If id is empty, Generate returns "test-session-default".
func NewFixedSessions(id string) *FixedSessions {
	if id == "" {
		id = "test-session-default"
	}
	return &FixedSessions{id: id}
}

// Generate returns the fixed session ID.
//
// Implements engine.SessionIDGenerator.
func (g *FixedSessions) Generate() string {
	return g.id
}

// SequenceIDs issues "<prefix><n>" identities with a separate counter per
// prefix, so tests can predict alert-1, job-1, notif-1 independently of how
// many feed entries were written in between.
//
// Thread-safety: SequenceIDs is safe for concurrent use via internal mutex.
type SequenceIDs struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewSequenceIDs creates a per-prefix identity generator.
func NewSequenceIDs() *SequenceIDs {
	return &SequenceIDs{counts: make(map[string]int)}
}

// Next implements reducer.IDGenerator.
func (g *SequenceIDs) Next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counts[prefix]++
	return fmt.Sprintf("%s%d", prefix, g.counts[prefix])
}
