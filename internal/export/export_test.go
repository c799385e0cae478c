package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cityops-io/cityops-ce/internal/models"
)

func sampleReports() []models.Report {
	at := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	return []models.Report{
		{ID: "R-2024-001", Category: "Pothole", Location: "Main St & 5th Ave, Downtown", Status: models.StatusPending, Priority: models.PriorityHigh, Department: "Roads & Transport", CreatedAt: at, UpdatedAt: at, Description: "Large pothole, causing \"traffic\" issues"},
		{ID: "R-2024-003", Category: "Graffiti", Location: "City Hall", Status: models.StatusInProgress, Priority: models.PriorityLow, AssignedTo: "Clean Team Alpha", Department: "Parks & Recreation", CreatedAt: at, UpdatedAt: at},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"csv": FormatCSV, "XLSX": FormatXLSX, " json ": FormatJSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	at := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "reports-20240115-093000.xlsx", Filename("reports", FormatXLSX, at))
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
}

func TestExporter_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExporter(Options{}).Reports(&buf, FormatCSV, sampleReports()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, reportHeaders, rows[0])
	assert.Equal(t, "R-2024-001", rows[1][0])
	assert.Equal(t, "High", rows[1][4])
	assert.Equal(t, "2024-01-15 09:30:00", rows[1][8])
	assert.Equal(t, "Large pothole, causing \"traffic\" issues", rows[1][10])
	assert.Equal(t, "In Progress", rows[2][3])
}

func TestExporter_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExporter(Options{SheetName: "Open Reports"}).Reports(&buf, FormatXLSX, sampleReports()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Open Reports")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Assigned To", rows[0][6])
	assert.Equal(t, "R-2024-003", rows[2][0])
	assert.Equal(t, "Clean Team Alpha", rows[2][6])
}

func TestExporter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExporter(DefaultOptions()).Reports(&buf, FormatJSON, nil))

	var doc struct {
		Reports []models.Report `json:"reports"`
		Total   int             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.NotNil(t, doc.Reports)
	assert.Zero(t, doc.Total)
	assert.Contains(t, buf.String(), `"reports": []`)
}

func TestExporter_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, NewExporter(DefaultOptions()).Reports(&buf, Format("pdf"), sampleReports()))
}
