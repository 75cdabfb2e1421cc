package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/syllabus-api/internal/dto"
	"github.com/noah-isme/syllabus-api/internal/middleware"
	"github.com/noah-isme/syllabus-api/internal/models"
	"github.com/noah-isme/syllabus-api/internal/service"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
)

type syllabusServiceMock struct {
	syllabi []models.Syllabus
	history []models.Commit

	updated       *models.Syllabus
	updateMessage string
	updateActor   *models.Actor
	deleteResult  *service.DeleteResult
}

func (m *syllabusServiceMock) GetAll(ctx context.Context) ([]models.Syllabus, error) {
	return m.syllabi, nil
}

func (m *syllabusServiceMock) Get(ctx context.Context, courseCode string) (*models.Syllabus, error) {
	for i := range m.syllabi {
		if m.syllabi[i].CourseCode == courseCode {
			return &m.syllabi[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "syllabus not found")
}

func (m *syllabusServiceMock) Create(ctx context.Context, syllabus *models.Syllabus) (*models.Syllabus, error) {
	return syllabus, nil
}

func (m *syllabusServiceMock) Update(ctx context.Context, syllabus *models.Syllabus, commitMessage string, actor *models.Actor) (*service.UpdateResult, error) {
	m.updated = syllabus
	m.updateMessage = commitMessage
	m.updateActor = actor
	return &service.UpdateResult{
		Syllabus:     syllabus,
		Commit:       &models.Commit{CommitID: "c-1", CourseCode: syllabus.CourseCode, Message: commitMessage, Snapshot: []byte(`{}`)},
		Notification: models.NotificationResult{CourseCode: syllabus.CourseCode, Action: models.NotificationActionUpdated},
	}, nil
}

func (m *syllabusServiceMock) Delete(ctx context.Context, courseCode string, actor *models.Actor) (*service.DeleteResult, error) {
	if m.deleteResult != nil {
		return m.deleteResult, nil
	}
	return &service.DeleteResult{Deleted: false}, nil
}

func (m *syllabusServiceMock) History(ctx context.Context, courseCode string) ([]models.Commit, error) {
	return m.history, nil
}

func (m *syllabusServiceMock) GetCommit(ctx context.Context, courseCode, commitID string) (*models.Commit, error) {
	for i := range m.history {
		if m.history[i].CommitID == commitID {
			return &m.history[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "commit not found")
}

type exporterMock struct {
	format service.ExportFormat
}

func (m *exporterMock) Export(ctx context.Context, courseCode string, format service.ExportFormat) (*service.ExportResult, error) {
	m.format = format
	return &service.ExportResult{
		Filename:    "SE_307_syllabus.csv",
		ContentType: "text/csv",
		Format:      format,
		Payload:     []byte("Course Information\n"),
	}, nil
}

type envelopeBody struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func newTestContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelopeBody {
	t.Helper()
	var env envelopeBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

var instructorClaims = &models.JWTClaims{UserID: "kaya.oguz", Role: models.RoleInstructor, FullName: "Doc. Dr. Kaya Oguz"}

func TestSyllabusHandlerUpdateCodeMismatch(t *testing.T) {
	handler := NewSyllabusHandler(&syllabusServiceMock{}, &exporterMock{})
	body, _ := json.Marshal(dto.UpdateSyllabusRequest{Syllabus: models.Syllabus{CourseCode: "SE 101"}})
	c, w := newTestContext(http.MethodPut, "/syllabi/SE%20307", body)
	c.Params = gin.Params{{Key: "code", Value: "SE 307"}}
	c.Set(middleware.ContextUserKey, instructorClaims)

	handler.Update(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyllabusHandlerUpdateRequiresIdentity(t *testing.T) {
	handler := NewSyllabusHandler(&syllabusServiceMock{}, &exporterMock{})
	c, w := newTestContext(http.MethodPut, "/syllabi/SE%20307", []byte(`{}`))
	c.Params = gin.Params{{Key: "code", Value: "SE 307"}}

	handler.Update(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSyllabusHandlerUpdateUsesPathCodeAndActor(t *testing.T) {
	svc := &syllabusServiceMock{}
	handler := NewSyllabusHandler(svc, &exporterMock{})
	body := []byte(`{"course_name":"Software Construction","learning_outcomes":["a"," ",""],"commit_message":"fix objectives"}`)
	c, w := newTestContext(http.MethodPut, "/syllabi/SE%20307", body)
	c.Params = gin.Params{{Key: "code", Value: "SE 307"}}
	c.Set(middleware.ContextUserKey, instructorClaims)

	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.updated)
	assert.Equal(t, "SE 307", svc.updated.CourseCode)
	assert.Equal(t, []string{"a"}, svc.updated.LearningOutcomes)
	assert.Equal(t, "fix objectives", svc.updateMessage)
	assert.Equal(t, "Doc. Dr. Kaya Oguz", svc.updateActor.DisplayName)

	var res dto.UpdateSyllabusResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &res))
	require.NotNil(t, res.Commit)
	assert.Equal(t, "c-1", res.Commit.CommitID)
	assert.Equal(t, models.NotificationActionUpdated, res.Notification.Action)
}

func TestSyllabusHandlerDeleteMissingCourse(t *testing.T) {
	handler := NewSyllabusHandler(&syllabusServiceMock{}, &exporterMock{})
	c, w := newTestContext(http.MethodDelete, "/syllabi/XX%20000", nil)
	c.Params = gin.Params{{Key: "code", Value: "XX 000"}}
	c.Set(middleware.ContextUserKey, instructorClaims)

	handler.Delete(c)
	require.Equal(t, http.StatusOK, w.Code)
	var res dto.DeleteSyllabusResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &res))
	assert.False(t, res.Deleted)
	assert.Nil(t, res.Notification)
}

func TestSyllabusHandlerGetNotFound(t *testing.T) {
	handler := NewSyllabusHandler(&syllabusServiceMock{}, &exporterMock{})
	c, w := newTestContext(http.MethodGet, "/syllabi/SE%20999", nil)
	c.Params = gin.Params{{Key: "code", Value: "SE 999"}}

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrNotFound.Code, env.Error.Code)
}

func historyFixture() []models.Commit {
	return []models.Commit{
		{CommitID: "c3", CourseCode: "SE 307", Timestamp: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Message: "spring"},
		{CommitID: "c2", CourseCode: "SE 307", Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Message: "winter"},
		{CommitID: "c1", CourseCode: "SE 307", Timestamp: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Message: "first", Snapshot: []byte(`{"course_code":"SE 307","course_name":"Old Name"}`)},
	}
}

func TestSyllabusHandlerHistoryArchiveViewForStudents(t *testing.T) {
	handler := NewSyllabusHandler(&syllabusServiceMock{history: historyFixture()}, &exporterMock{})
	c, w := newTestContext(http.MethodGet, "/syllabi/SE%20307/history", nil)
	c.Params = gin.Params{{Key: "code", Value: "SE 307"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "ali.veli", Role: models.RoleStudent})

	handler.History(c)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	var views []dto.CommitView
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 2)
	assert.Equal(t, "c3", views[0].CommitID)
	assert.Equal(t, "c1", views[1].CommitID)
	assert.Equal(t, true, env.Meta["archive_view"])
}

func TestSyllabusHandlerHistoryFullForInstructors(t *testing.T) {
	handler := NewSyllabusHandler(&syllabusServiceMock{history: historyFixture()}, &exporterMock{})
	c, w := newTestContext(http.MethodGet, "/syllabi/SE%20307/history", nil)
	c.Params = gin.Params{{Key: "code", Value: "SE 307"}}
	c.Set(middleware.ContextUserKey, instructorClaims)

	handler.History(c)
	require.Equal(t, http.StatusOK, w.Code)
	var views []dto.CommitView
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &views))
	assert.Len(t, views, 3)
}

func TestSyllabusHandlerGetCommitDecodesSnapshot(t *testing.T) {
	handler := NewSyllabusHandler(&syllabusServiceMock{history: historyFixture()}, &exporterMock{})
	c, w := newTestContext(http.MethodGet, "/syllabi/SE%20307/history/c1", nil)
	c.Params = gin.Params{{Key: "code", Value: "SE 307"}, {Key: "commitId", Value: "c1"}}

	handler.GetCommit(c)
	require.Equal(t, http.StatusOK, w.Code)
	var detail dto.CommitDetail
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &detail))
	assert.Equal(t, "c1", detail.CommitID)
	require.NotNil(t, detail.Syllabus)
	assert.Equal(t, "Old Name", detail.Syllabus.CourseName)
}

func TestSyllabusHandlerExport(t *testing.T) {
	exporter := &exporterMock{}
	handler := NewSyllabusHandler(&syllabusServiceMock{}, exporter)
	c, w := newTestContext(http.MethodGet, "/syllabi/SE%20307/export?format=csv", nil)
	c.Params = gin.Params{{Key: "code", Value: "SE 307"}}

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ExportFormatCSV, exporter.format)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "SE_307_syllabus.csv")
	assert.Equal(t, "Course Information\n", w.Body.String())
}

func TestSyllabusHandlerExportRejectsUnknownFormat(t *testing.T) {
	handler := NewSyllabusHandler(&syllabusServiceMock{}, &exporterMock{})
	c, w := newTestContext(http.MethodGet, "/syllabi/SE%20307/export?format=docx", nil)
	c.Params = gin.Params{{Key: "code", Value: "SE 307"}}

	handler.Export(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
