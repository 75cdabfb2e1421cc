package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/syllabus-api/internal/models"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
	"github.com/noah-isme/syllabus-api/pkg/export"
)

type stubSyllabusReader struct {
	syllabus *models.Syllabus
	err      error
}

func (s stubSyllabusReader) Get(ctx context.Context, courseCode string) (*models.Syllabus, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.syllabus, nil
}

type failingRenderer struct{}

func (failingRenderer) Render(doc export.Document) ([]byte, error) {
	return nil, errors.New("boom")
}

func TestExportServiceCSV(t *testing.T) {
	svc := NewExportService(stubSyllabusReader{syllabus: SeedSyllabus()}, nil, nil, nil)

	res, err := svc.Export(context.Background(), "SE 307", ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "SE_307_syllabus.csv", res.Filename)
	assert.Equal(t, "text/csv", res.ContentType)

	reader := csv.NewReader(bytes.NewReader(res.Payload))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)
	assert.Contains(t, records, []string{"ECTS", "7"})
	assert.Contains(t, records, []string{"Midterm", "1", "30"})
	assert.Contains(t, records, []string{"Lectures", "14", "2", "28"})
	assert.Contains(t, records, []string{"Total", "", "", "28"})
	assert.Contains(t, records, []string{"1", "Intro", "Ch1"})
}

func TestExportServicePDF(t *testing.T) {
	svc := NewExportService(stubSyllabusReader{syllabus: SeedSyllabus()}, nil, nil, nil)

	res, err := svc.Export(context.Background(), "SE 307", ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.True(t, bytes.HasPrefix(res.Payload, []byte("%PDF")))
}

func TestExportServicePropagatesNotFound(t *testing.T) {
	svc := NewExportService(stubSyllabusReader{err: appErrors.Clone(appErrors.ErrNotFound, "syllabus not found")}, nil, nil, nil)

	_, err := svc.Export(context.Background(), "XX 1", ExportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportServiceRenderFailure(t *testing.T) {
	svc := NewExportService(stubSyllabusReader{syllabus: SeedSyllabus()}, nil, failingRenderer{}, nil)

	_, err := svc.Export(context.Background(), "SE 307", ExportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestParseExportFormat(t *testing.T) {
	f, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatCSV, f)

	f, err = ParseExportFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatPDF, f)

	_, err = ParseExportFormat("docx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
