package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot is the golden form of a scenario run: command kinds in seq
// order plus a condensed final state. Payloads are left out so that golden
// files stay readable; assertions cover payload fields.
type TraceSnapshot struct {
	ScenarioName string        `json:"scenario_name"`
	SessionID    string        `json:"session_id"`
	Trace        []GoldenEvent `json:"trace"`
	Final        Summary       `json:"final"`
}

// GoldenEvent is a trace event without its payload.
type GoldenEvent struct {
	Seq     int64  `json:"seq"`
	Kind    string `json:"kind"`
	Applied bool   `json:"applied"`
}

// NewTraceSnapshot builds the golden form of result.
func NewTraceSnapshot(name string, result *Result) TraceSnapshot {
	events := make([]GoldenEvent, 0, len(result.Trace))
	for _, ev := range result.Trace {
		events = append(events, GoldenEvent{Seq: ev.Seq, Kind: ev.Kind, Applied: ev.Applied})
	}
	return TraceSnapshot{
		ScenarioName: name,
		SessionID:    result.SessionID,
		Trace:        events,
		Final:        Summarize(result.Final),
	}
}

// Marshal renders the snapshot as indented JSON with a trailing newline.
func (s TraceSnapshot) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal trace snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := NewTraceSnapshot(scenarioName, result).Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
