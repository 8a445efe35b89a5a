package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/thermoguard/internal/journal"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Session  string
	Kind     string
	List     bool
}

// TraceResult is the journalled history of one session.
type TraceResult struct {
	SessionID string          `json:"session_id"`
	Entries   []journal.Entry `json:"entries"`
	Stats     TraceStats      `json:"stats"`
}

// TraceStats summarizes a trace.
type TraceStats struct {
	Total   int            `json:"total"`
	Applied int            `json:"applied"`
	NoOps   int            `json:"no_ops"`
	ByKind  map[string]int `json:"by_kind"`
}

// SessionList is the output of trace --list.
type SessionList struct {
	Sessions []journal.Session `json:"sessions"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the journalled commands of a session",
		Long: `Read back the command journal written by run or simulate when
journal.path is configured.

Without --session the most recent session is shown.

Example:
  thermoguard trace --db ./thermoguard.db
  thermoguard trace --db ./thermoguard.db --kind RaiseAlert
  thermoguard trace --db ./thermoguard.db --list`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "journal path (defaults to journal.path)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session ID (defaults to the latest)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only show commands of this kind")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list sessions instead of showing one")

	return cmd
}

func runTrace(cmd *cobra.Command, opts *TraceOptions) error {
	formatter := newFormatter(cmd, opts.RootOptions)

	path := opts.Database
	if path == "" {
		path = opts.Config.Journal.Path
	}
	if path == "" {
		return NewExitError(ExitCommandError, "no journal: pass --db or set journal.path")
	}
	// Opening would create an empty journal.
	if _, err := os.Stat(path); err != nil {
		_ = formatter.Error(CodeJournal, fmt.Sprintf("journal %s not found", path), nil)
		return WrapExitError(ExitCommandError, "journal not found", err)
	}

	j, err := journal.Open(path)
	if err != nil {
		_ = formatter.Error(CodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	ctx := commandContext(cmd)

	if opts.List {
		sessions, err := j.Sessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		return formatter.Success(SessionList{Sessions: sessions})
	}

	sessionID := opts.Session
	if sessionID == "" {
		latest, ok, err := j.Latest(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read sessions", err)
		}
		if !ok {
			_ = formatter.Error(CodeJournal, "journal is empty", nil)
			return NewExitError(ExitFailure, "journal is empty")
		}
		sessionID = latest.ID
	}

	entries, err := j.ReadSession(ctx, sessionID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}
	if len(entries) == 0 {
		_ = formatter.Error(CodeJournal, fmt.Sprintf("no entries for session %s", sessionID), nil)
		return NewExitError(ExitFailure, "session not found")
	}

	return formatter.Success(buildTrace(sessionID, entries, opts.Kind))
}

// buildTrace filters entries by kind and computes the stats over what is
// kept. An empty kind keeps everything.
func buildTrace(sessionID string, entries []journal.Entry, kind string) TraceResult {
	result := TraceResult{
		SessionID: sessionID,
		Entries:   make([]journal.Entry, 0, len(entries)),
		Stats:     TraceStats{ByKind: make(map[string]int)},
	}
	for _, e := range entries {
		if kind != "" && e.Kind != kind {
			continue
		}
		result.Entries = append(result.Entries, e)
		result.Stats.Total++
		result.Stats.ByKind[e.Kind]++
		if e.Applied {
			result.Stats.Applied++
		} else {
			result.Stats.NoOps++
		}
	}
	return result
}

// RenderText implements TextRenderer.
func (r TraceResult) RenderText(w io.Writer, verbose bool) {
	fmt.Fprintf(w, "=== Session %s ===\n\n", r.SessionID)

	for _, e := range r.Entries {
		mark := ""
		if !e.Applied {
			mark = " (no-op)"
		}
		fmt.Fprintf(w, "[%d] %s %s%s\n", e.Seq, e.RecordedAt.Format(time.RFC3339), e.Kind, mark)
		if verbose {
			fmt.Fprintf(w, "    %s\n", e.Payload)
		}
	}

	fmt.Fprintf(w, "\n=== Statistics ===\n")
	fmt.Fprintf(w, "Total:   %d\n", r.Stats.Total)
	fmt.Fprintf(w, "Applied: %d\n", r.Stats.Applied)
	fmt.Fprintf(w, "No-ops:  %d\n", r.Stats.NoOps)

	kinds := make([]string, 0, len(r.Stats.ByKind))
	for k := range r.Stats.ByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-24s %d\n", k, r.Stats.ByKind[k])
	}
}

// RenderText implements TextRenderer.
func (l SessionList) RenderText(w io.Writer, verbose bool) {
	if len(l.Sessions) == 0 {
		fmt.Fprintln(w, "No sessions recorded.")
		return
	}
	for _, s := range l.Sessions {
		fmt.Fprintf(w, "%s  %s  %d entries (%d applied)\n",
			s.ID, s.StartedAt.Format(time.RFC3339), s.Entries, s.Applied)
	}
}
