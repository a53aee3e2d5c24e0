package export

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() *Table {
	table := &Table{Headers: []string{"name", "email", "status"}}
	table.AddRow("Alice", "alice@example.com", "approved")
	table.AddRow("Bob, Jr.", "bob@example.com", "pending")
	table.AddRow("Carol")
	return table
}

func TestTable_WriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleTable().WriteCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"name", "email", "status"}, records[0])
	assert.Equal(t, "Bob, Jr.", records[2][0])
	assert.Equal(t, []string{"Carol", "", ""}, records[3])
}

func TestTable_WriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleTable().WriteXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"name", "email", "status"}, rows[0])
	assert.Equal(t, "alice@example.com", rows[1][1])
}

func TestTable_EmptyRows(t *testing.T) {
	table := &Table{Headers: []string{"a"}}

	var buf bytes.Buffer
	require.NoError(t, table.Write(&buf, FormatCSV))
	assert.Equal(t, "a\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"csv", FormatCSV, false},
		{"XLSX", FormatXLSX, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnsupportedFormat)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	assert.ErrorIs(t, (&Table{}).Write(&bytes.Buffer{}, "pdf"), ErrUnsupportedFormat)
}

func TestHelpers(t *testing.T) {
	now := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "registrations-2025-03-04.xlsx", Filename("registrations", FormatXLSX, now))
	assert.Contains(t, ContentType(FormatCSV), "text/csv")
	assert.Contains(t, ContentType(FormatXLSX), "spreadsheetml")
	assert.Equal(t, "", FormatTime(nil))
	assert.Equal(t, "2025-03-04T10:00:00Z", FormatTime(&now))
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	table := &Table{Headers: []string{"email"}}
	table.AddRow("a@example.com")

	require.NoError(t, Respond(c, table, FormatCSV, "registrations"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="registrations-`)
	assert.Equal(t, "email\na@example.com\n", w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	assert.ErrorIs(t, Respond(c, table, "pdf", "x"), ErrUnsupportedFormat)
	assert.Empty(t, w.Body.String())
}
