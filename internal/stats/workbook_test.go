package stats

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/roach88/thermoguard/internal/domain"
	"github.com/roach88/thermoguard/internal/seed"
	"github.com/roach88/thermoguard/internal/testutil"
)

func reportSnapshot() domain.Snapshot {
	s := seed.MustDefault().Build(testutil.Epoch)
	s.Alerts = []domain.Alert{{
		ID:           "alert-101",
		DeviceName:   "Server Room AC",
		CustomerName: "Sunrise Nursing Home",
		Severity:     domain.SeverityCritical,
		Temperature:  26.5,
		Timestamp:    testutil.Epoch,
	}}
	s.Jobs = []domain.Job{{
		ID:         "job-102",
		AlertID:    ptr("alert-101"),
		Type:       domain.JobRepair,
		Status:     domain.JobResolved,
		VendorName: "ProCool HVAC Services",
		CreatedAt:  testutil.Epoch,
		ResolvedAt: ptr(testutil.Epoch.Add(40 * time.Minute)),
	}}
	return s
}

func openReport(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, sheet, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, ref)
	require.NoError(t, err)
	return v
}

func TestWriteWorkbook_Sheets(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, reportSnapshot(), testutil.Epoch))

	f := openReport(t, buf.Bytes())
	assert.Equal(t,
		[]string{SheetSummary, SheetDevices, SheetAlerts, SheetJobs, SheetNotifications},
		f.GetSheetList())
}

func TestWriteWorkbook_Contents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, reportSnapshot(), testutil.Epoch))
	f := openReport(t, buf.Bytes())

	assert.Equal(t, "Generated At", cell(t, f, SheetSummary, "A2"))
	assert.Equal(t, "2026-01-15 09:00:00", cell(t, f, SheetSummary, "B2"))
	assert.Equal(t, "Avg Response", cell(t, f, SheetSummary, "A5"))
	assert.Equal(t, "40m", cell(t, f, SheetSummary, "B5"))

	assert.Equal(t, "ID", cell(t, f, SheetDevices, "A1"))
	assert.Equal(t, "d1", cell(t, f, SheetDevices, "A2"))
	assert.Equal(t, "Sunrise Nursing Home", cell(t, f, SheetDevices, "C2"))
	assert.Equal(t, "d5", cell(t, f, SheetDevices, "A6"))

	assert.Equal(t, "alert-101", cell(t, f, SheetAlerts, "A2"))
	assert.Equal(t, "critical", cell(t, f, SheetAlerts, "E2"))
	assert.Equal(t, "26.5", cell(t, f, SheetAlerts, "F2"))
	assert.Equal(t, "false", cell(t, f, SheetAlerts, "H2"))

	assert.Equal(t, "job-102", cell(t, f, SheetJobs, "A2"))
	assert.Equal(t, "alert-101", cell(t, f, SheetJobs, "H2"))
	assert.Equal(t, "2026-01-15 09:40:00", cell(t, f, SheetJobs, "J2"))

	assert.Equal(t, "", cell(t, f, SheetNotifications, "A2"), "no notifications yet")
}

func TestSaveWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, SaveWorkbook(path, reportSnapshot(), testutil.Epoch))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 5)
}
