package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/roach88/thermoguard/internal/domain"
	"github.com/roach88/thermoguard/internal/stats"
)

// SessionView is the dashboard printed after a session, scoped to the
// logged-in user.
type SessionView struct {
	SessionID string          `json:"session_id"`
	User      domain.User     `json:"user"`
	Ticks     int             `json:"ticks"`
	Applied   int             `json:"applied"`
	Dashboard stats.Dashboard `json:"dashboard"`
	Devices   []domain.Device `json:"devices"`
	Alerts    []domain.Alert  `json:"alerts"`
	Jobs      []domain.Job    `json:"jobs"`
}

// NewSessionView scopes s to user and computes the dashboard at now.
func NewSessionView(sessionID string, user domain.User, ticks, applied int, s domain.Snapshot, now time.Time) SessionView {
	scoped := s.ScopeFor(user)
	return SessionView{
		SessionID: sessionID,
		User:      user,
		Ticks:     ticks,
		Applied:   applied,
		Dashboard: stats.Compute(scoped, now),
		Devices:   scoped.Devices,
		Alerts:    scoped.Alerts,
		Jobs:      scoped.Jobs,
	}
}

// RenderText implements TextRenderer.
func (v SessionView) RenderText(w io.Writer, verbose bool) {
	fmt.Fprintf(w, "=== Session ===\n")
	fmt.Fprintf(w, "Session:  %s\n", v.SessionID)
	fmt.Fprintf(w, "User:     %s <%s> (%s)\n", v.User.Name, v.User.Email, v.User.Role)
	if v.Ticks > 0 {
		fmt.Fprintf(w, "Ticks:    %d (%d commands applied)\n", v.Ticks, v.Applied)
	} else {
		fmt.Fprintf(w, "Commands: %d\n", v.Applied)
	}
	fmt.Fprintln(w)

	d := v.Dashboard
	fmt.Fprintf(w, "=== Dashboard ===\n")
	fmt.Fprintf(w, "Alerts (24h):      %d\n", d.AlertsToday)
	fmt.Fprintf(w, "Active incidents:  %d (%s)\n", d.ActiveIncidents, d.IncidentsLabel())
	fmt.Fprintf(w, "Avg response:      %s\n", d.AvgResponse())
	fmt.Fprintf(w, "Jobs:              %d active, %d resolved, %d total\n", d.ActiveJobs, d.ResolvedJobs, d.TotalJobs)
	fmt.Fprintf(w, "Devices:           %d normal, %d warning, %d critical\n",
		d.DevicesByStatus[domain.StatusNormal],
		d.DevicesByStatus[domain.StatusWarning],
		d.DevicesByStatus[domain.StatusCritical])
	fmt.Fprintln(w)

	fmt.Fprintf(w, "=== Devices ===\n")
	for _, dev := range v.Devices {
		fmt.Fprintf(w, "  %-4s %-24s %6.1f°C  [%.1f..%.1f]  %s\n",
			dev.ID, dev.Name, dev.Temperature, dev.ThresholdMin, dev.ThresholdMax, dev.Status)
		if verbose && dev.Location != "" {
			fmt.Fprintf(w, "       %s\n", dev.Location)
		}
	}

	if len(v.Alerts) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "=== Alerts ===\n")
		for _, a := range v.Alerts {
			ack := ""
			if a.Acknowledged {
				ack = " (acknowledged)"
			}
			fmt.Fprintf(w, "  %-10s %-8s %s @ %s  %.1f°C%s\n",
				a.ID, a.Severity, a.DeviceName, a.Location, a.Temperature, ack)
		}
	}

	if len(v.Jobs) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "=== Jobs ===\n")
		for _, j := range v.Jobs {
			fmt.Fprintf(w, "  %-8s %-6s %-11s %s: %s\n", j.ID, j.Type, j.Status, j.VendorName, j.Issue)
		}
	}
}
