package stats

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/thermoguard/internal/domain"
)

// Sheet names, in workbook order.
const (
	SheetSummary       = "Summary"
	SheetDevices       = "Devices"
	SheetAlerts        = "Alerts"
	SheetJobs          = "Jobs"
	SheetNotifications = "Notifications"
)

const cellTime = "2006-01-02 15:04:05"

var (
	deviceHeader       = []string{"ID", "Name", "Customer", "Location", "Temperature (°C)", "Min (°C)", "Max (°C)", "Status", "Last Updated"}
	alertHeader        = []string{"ID", "Device", "Customer", "Location", "Severity", "Temperature (°C)", "Raised At", "Acknowledged"}
	jobHeader          = []string{"ID", "Type", "Status", "Vendor", "Customer", "Device", "Issue", "Alert", "Created At", "Resolved At"}
	notificationHeader = []string{"ID", "Type", "To", "Recipient", "Subject", "Message", "Sent At"}
)

// WriteWorkbook renders s as an .xlsx report and writes it to w.
func WriteWorkbook(w io.Writer, s domain.Snapshot, now time.Time) error {
	f, err := buildWorkbook(s, now)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the report to path.
func SaveWorkbook(path string, s domain.Snapshot, now time.Time) error {
	f, err := buildWorkbook(s, now)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func buildWorkbook(s domain.Snapshot, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	customers := make(map[string]string, len(s.Customers))
	for _, c := range s.Customers {
		customers[c.ID] = c.Name
	}

	sheets := []struct {
		name   string
		header []string
		rows   [][]any
	}{
		{SheetSummary, []string{"Metric", "Value"}, summaryRows(Compute(s, now), now)},
		{SheetDevices, deviceHeader, deviceRows(s.Devices, customers)},
		{SheetAlerts, alertHeader, alertRows(s.Alerts)},
		{SheetJobs, jobHeader, jobRows(s.Jobs)},
		{SheetNotifications, notificationHeader, notificationRows(s.Notifications)},
	}

	for i, sh := range sheets {
		if err := writeSheet(f, sh.name, sh.header, sh.rows, header); err != nil {
			f.Close()
			return nil, err
		}
		if i == 0 {
			// NewFile starts with Sheet1; the summary takes its place.
			if err := f.DeleteSheet("Sheet1"); err != nil {
				f.Close()
				return nil, fmt.Errorf("delete default sheet: %w", err)
			}
		}
	}

	if idx, err := f.GetSheetIndex(SheetSummary); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func writeSheet(f *excelize.File, name string, header []string, rows [][]any, style int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("sheet %s header: %w", name, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", last, style); err != nil {
		return fmt.Errorf("sheet %s header style: %w", name, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", name, i+2, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(name, "A", lastCol, 18)
}

func summaryRows(d Dashboard, now time.Time) [][]any {
	return [][]any{
		{"Generated At", now.UTC().Format(cellTime)},
		{"Alerts (24h)", d.AlertsToday},
		{"Active Incidents", d.ActiveIncidents},
		{"Avg Response", d.AvgResponse()},
		{"Resolved Jobs", d.ResolvedJobs},
		{"Active Jobs", d.ActiveJobs},
		{"Total Jobs", d.TotalJobs},
		{"Customers", d.Customers},
		{"Devices", d.Devices},
		{"Devices Normal", d.DevicesByStatus[domain.StatusNormal]},
		{"Devices Warning", d.DevicesByStatus[domain.StatusWarning]},
		{"Devices Critical", d.DevicesByStatus[domain.StatusCritical]},
		{"Users", d.Users},
		{"Vendors", d.Vendors},
		{"Notifications", d.Notifications},
	}
}

func deviceRows(devices []domain.Device, customers map[string]string) [][]any {
	rows := make([][]any, 0, len(devices))
	for _, d := range devices {
		rows = append(rows, []any{
			d.ID, d.Name, customers[d.CustomerID], d.Location,
			d.Temperature, d.ThresholdMin, d.ThresholdMax,
			string(d.Status), formatTime(d.LastUpdated),
		})
	}
	return rows
}

func alertRows(alerts []domain.Alert) [][]any {
	rows := make([][]any, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, []any{
			a.ID, a.DeviceName, a.CustomerName, a.Location,
			string(a.Severity), a.Temperature, formatTime(a.Timestamp),
			strconv.FormatBool(a.Acknowledged),
		})
	}
	return rows
}

func jobRows(jobs []domain.Job) [][]any {
	rows := make([][]any, 0, len(jobs))
	for _, j := range jobs {
		alert := ""
		if j.AlertID != nil {
			alert = *j.AlertID
		}
		resolved := ""
		if j.ResolvedAt != nil {
			resolved = formatTime(*j.ResolvedAt)
		}
		rows = append(rows, []any{
			j.ID, string(j.Type), string(j.Status), j.VendorName, j.CustomerName,
			j.DeviceName, j.Issue, alert, formatTime(j.CreatedAt), resolved,
		})
	}
	return rows
}

func notificationRows(logs []domain.NotificationLog) [][]any {
	rows := make([][]any, 0, len(logs))
	for _, n := range logs {
		rows = append(rows, []any{
			n.ID, string(n.Type), n.To, n.RecipientName, n.Subject, n.Message,
			formatTime(n.Timestamp),
		})
	}
	return rows
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(cellTime)
}
