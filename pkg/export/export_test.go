package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	return Document{
		Title: "SE 307",
		Sections: []Dataset{
			{
				Title:   "Course",
				Headers: []string{"Field", "Value"},
				Rows:    []map[string]string{{"Field": "ECTS", "Value": "7"}},
			},
			{
				Title:   "Assessments",
				Headers: []string{"Activity", "Count", "Percentage"},
				Rows:    []map[string]string{{"Activity": "Midterm", "Count": "1", "Percentage": "30"}},
			},
		},
	}
}

func TestCSVExporterWritesSections(t *testing.T) {
	payload, err := NewCSVExporter().Render(sampleDocument())
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(payload))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"Course"},
		{"Field", "Value"},
		{"ECTS", "7"},
		{"Assessments"},
		{"Activity", "Count", "Percentage"},
		{"Midterm", "1", "30"},
	}, records)
}

func TestExportersRejectEmptyDocuments(t *testing.T) {
	_, err := NewCSVExporter().Render(Document{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Document{})
	assert.Error(t, err)
	_, err = NewCSVExporter().Render(Document{Sections: []Dataset{{Title: "x"}}})
	assert.Error(t, err)
}

func TestPDFExporterProducesPDF(t *testing.T) {
	payload, err := NewPDFExporter().Render(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}
