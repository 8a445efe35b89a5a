package reducer

import (
	"fmt"
	"sync"
)

// IDGenerator assigns identities to created entities.
// Implemented by CounterIDs (production) and testutil.SequenceIDs (tests).
type IDGenerator interface {
	Next(prefix string) string
}

// DefaultIDStart is the first counter value; the first ID issued is start+1.
const DefaultIDStart = 100

// CounterIDs issues "<prefix><n>" identities from one shared counter, so
// alert-101 may be followed by act-102 and job-103.
//
// Thread-safety: CounterIDs is safe for concurrent use via internal mutex.
type CounterIDs struct {
	mu sync.Mutex
	n  int
}

// NewCounterIDs creates a generator whose first identity uses start+1.
func NewCounterIDs(start int) *CounterIDs {
	return &CounterIDs{n: start}
}

// Next increments the counter and returns the prefixed identity.
func (g *CounterIDs) Next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s%d", prefix, g.n)
}

// Identity prefixes.
const (
	PrefixAlert        = "alert-"
	PrefixJob          = "job-"
	PrefixNotification = "notif-"
	PrefixActivity     = "act-"
)
