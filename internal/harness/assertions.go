package harness

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/thermoguard/internal/domain"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			mark := ""
			if !event.Applied {
				mark = " (no-op)"
			}
			fmt.Fprintf(&buf, "  [%d] %s%s\n", event.Seq, event.Kind, mark)
		}
	}

	return buf.String()
}

// entityFinders look up a final_state entity by ID.
var entityFinders = map[string]func(s domain.Snapshot, id string) (any, bool){
	"device": func(s domain.Snapshot, id string) (any, bool) {
		d, _, ok := s.Device(id)
		return d, ok
	},
	"alert": func(s domain.Snapshot, id string) (any, bool) {
		a, _, ok := s.Alert(id)
		return a, ok
	},
	"job": func(s domain.Snapshot, id string) (any, bool) {
		j, _, ok := s.Job(id)
		return j, ok
	},
	"rule": func(s domain.Snapshot, id string) (any, bool) {
		r, _, ok := s.Rule(id)
		return r, ok
	},
	"user": func(s domain.Snapshot, id string) (any, bool) {
		return s.UserByID(id)
	},
	"snapshot": func(s domain.Snapshot, _ string) (any, bool) {
		return s, true
	},
}

var collectionSizes = map[string]func(s domain.Snapshot) int{
	"alerts":        func(s domain.Snapshot) int { return len(s.Alerts) },
	"jobs":          func(s domain.Snapshot) int { return len(s.Jobs) },
	"notifications": func(s domain.Snapshot) int { return len(s.Notifications) },
	"activity":      func(s domain.Snapshot) int { return len(s.Activity) },
	"devices":       func(s domain.Snapshot) int { return len(s.Devices) },
	"rules":         func(s domain.Snapshot) int { return len(s.Rules) },
}

// matchesApplied reports whether event passes the optional applied filter.
func matchesApplied(event TraceEvent, applied *bool) bool {
	return applied == nil || event.Applied == *applied
}

// assertTraceContains checks if the trace contains a command of the given
// kind whose payload matches args (subset match).
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Kind == assertion.Kind && matchesApplied(event, assertion.Applied) {
			if matchFields(event.Payload, assertion.Args) {
				return nil
			}
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("command %s with args %v", assertion.Kind, assertion.Args),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that kinds first appear in the specified order.
// Kinds don't need to be consecutive (intervening commands are allowed).
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	positions := make(map[string]int)

	for i, event := range trace {
		for _, kind := range assertion.Kinds {
			if event.Kind == kind && positions[kind] == 0 {
				positions[kind] = i + 1 // 1-indexed for readability
			}
		}
	}

	for _, kind := range assertion.Kinds {
		if positions[kind] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all kinds present: %v", assertion.Kinds),
				Actual:   fmt.Sprintf("missing kind: %s", kind),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(assertion.Kinds); i++ {
		prev := assertion.Kinds[i-1]
		curr := assertion.Kinds[i]

		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("kinds in order: %v", assertion.Kinds),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}

	return nil
}

// assertTraceCount checks if the kind appears exactly the specified number
// of times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Kind == assertion.Kind && matchesApplied(event, assertion.Applied) {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Kind),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}

	return nil
}

// assertFinalState compares the JSON form of an entity with the expected
// fields.
func assertFinalState(s domain.Snapshot, assertion Assertion) error {
	find, ok := entityFinders[assertion.Entity]
	if !ok {
		return fmt.Errorf("final_state: unknown entity %q", assertion.Entity)
	}

	entity, ok := find(s, assertion.ID)
	if !ok {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%s %s to exist", assertion.Entity, assertion.ID),
			Actual:   "not found",
		}
	}

	fields, err := toFields(entity)
	if err != nil {
		return fmt.Errorf("final_state: %w", err)
	}

	for key, want := range assertion.Expect {
		got, present := fields[key]
		if !present || !valuesEqual(got, want) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s %s: %s = %v", assertion.Entity, assertion.ID, key, want),
				Actual:   fmt.Sprintf("%s = %v", key, got),
			}
		}
	}
	return nil
}

func assertFinalCount(s domain.Snapshot, assertion Assertion) error {
	size, ok := collectionSizes[assertion.Collection]
	if !ok {
		return fmt.Errorf("final_count: unknown collection %q", assertion.Collection)
	}

	if got := size(s); got != assertion.Count {
		return &AssertionError{
			Type:     AssertFinalCount,
			Expected: fmt.Sprintf("%d %s", assertion.Count, assertion.Collection),
			Actual:   fmt.Sprintf("%d %s", got, assertion.Collection),
		}
	}
	return nil
}

// toFields converts v to its generic JSON form.
func toFields(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// matchFields checks if actual contains all expected fields (subset match).
// Extra keys in actual are ignored.
func matchFields(actual map[string]any, expected map[string]any) bool {
	for key, want := range expected {
		got, ok := actual[key]
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

// valuesEqual compares a decoded JSON value with a YAML-decoded expectation.
// The expectation is round-tripped through JSON first so that YAML ints
// compare equal to JSON numbers and nested maps share a key type.
func valuesEqual(actual, expected any) bool {
	if actual == nil && expected == nil {
		return true
	}
	if actual == nil || expected == nil {
		return false
	}

	data, err := json.Marshal(expected)
	if err != nil {
		return false
	}
	var normalized any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return false
	}
	return reflect.DeepEqual(actual, normalized)
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalState:
			err = assertFinalState(result.Final, assertion)
		case AssertFinalCount:
			err = assertFinalCount(result.Final, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
