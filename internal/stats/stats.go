package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/roach88/thermoguard/internal/domain"
)

// AlertWindow is the look-back for Dashboard.AlertsToday.
const AlertWindow = 24 * time.Hour

// Dashboard holds the headline counters of a snapshot.
type Dashboard struct {
	AlertsToday     int `json:"alerts_today"`
	ActiveIncidents int `json:"active_incidents"`

	// AvgResponseMinutes is the mean created-to-resolved time of resolved
	// jobs, rounded to the nearest minute. Zero when nothing is resolved.
	AvgResponseMinutes int `json:"avg_response_minutes"`
	ResolvedJobs       int `json:"resolved_jobs"`
	ActiveJobs         int `json:"active_jobs"`
	TotalJobs          int `json:"total_jobs"`

	Customers     int `json:"customers"`
	Devices       int `json:"devices"`
	Users         int `json:"users"`
	Vendors       int `json:"vendors"`
	Notifications int `json:"notifications"`

	DevicesByStatus map[domain.Status]int `json:"devices_by_status"`
}

// Compute derives the dashboard counters from s as seen at now.
func Compute(s domain.Snapshot, now time.Time) Dashboard {
	d := Dashboard{
		TotalJobs:     len(s.Jobs),
		Customers:     len(s.Customers),
		Devices:       len(s.Devices),
		Users:         len(s.Users),
		Vendors:       len(s.Vendors),
		Notifications: len(s.Notifications),
		DevicesByStatus: map[domain.Status]int{
			domain.StatusNormal:   0,
			domain.StatusWarning:  0,
			domain.StatusCritical: 0,
		},
	}

	for _, a := range s.Alerts {
		if now.Sub(a.Timestamp) < AlertWindow {
			d.AlertsToday++
		}
		if !a.Acknowledged {
			d.ActiveIncidents++
		}
	}

	var total time.Duration
	for _, j := range s.Jobs {
		if j.Status == domain.JobResolved {
			d.ResolvedJobs++
			if j.ResolvedAt != nil {
				total += j.ResolvedAt.Sub(j.CreatedAt)
			}
		}
		if !j.Terminal() {
			d.ActiveJobs++
		}
	}
	if d.ResolvedJobs > 0 {
		d.AvgResponseMinutes = int(math.Round(total.Minutes() / float64(d.ResolvedJobs)))
	}

	for _, dev := range s.Devices {
		d.DevicesByStatus[dev.Status]++
	}
	return d
}

// AvgResponse renders the average response time the way the dashboard
// card does: "--" until a job has been resolved.
func (d Dashboard) AvgResponse() string {
	if d.AvgResponseMinutes <= 0 {
		return "--"
	}
	return fmt.Sprintf("%dm", d.AvgResponseMinutes)
}

// IncidentsLabel is the caption under the active incidents counter.
func (d Dashboard) IncidentsLabel() string {
	if d.ActiveIncidents > 0 {
		return "Needs attention"
	}
	return "All clear"
}
