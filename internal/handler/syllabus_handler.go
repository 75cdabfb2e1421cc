package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/syllabus-api/internal/dto"
	"github.com/noah-isme/syllabus-api/internal/middleware"
	"github.com/noah-isme/syllabus-api/internal/models"
	"github.com/noah-isme/syllabus-api/internal/service"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
	"github.com/noah-isme/syllabus-api/pkg/response"
)

type syllabusService interface {
	GetAll(ctx context.Context) ([]models.Syllabus, error)
	Get(ctx context.Context, courseCode string) (*models.Syllabus, error)
	Create(ctx context.Context, syllabus *models.Syllabus) (*models.Syllabus, error)
	Update(ctx context.Context, syllabus *models.Syllabus, commitMessage string, actor *models.Actor) (*service.UpdateResult, error)
	Delete(ctx context.Context, courseCode string, actor *models.Actor) (*service.DeleteResult, error)
	History(ctx context.Context, courseCode string) ([]models.Commit, error)
	GetCommit(ctx context.Context, courseCode, commitID string) (*models.Commit, error)
}

type syllabusExporter interface {
	Export(ctx context.Context, courseCode string, format service.ExportFormat) (*service.ExportResult, error)
}

// SyllabusHandler exposes syllabus editing, history and export endpoints.
type SyllabusHandler struct {
	service  syllabusService
	exporter syllabusExporter
}

// NewSyllabusHandler constructs the handler.
func NewSyllabusHandler(svc syllabusService, exporter syllabusExporter) *SyllabusHandler {
	return &SyllabusHandler{service: svc, exporter: exporter}
}

// List godoc
// @Summary List syllabi
// @Tags Syllabi
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /syllabi [get]
func (h *SyllabusHandler) List(c *gin.Context) {
	syllabi, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, syllabi, middleware.ResponseMeta(c, map[string]interface{}{"count": len(syllabi)}))
}

// Get godoc
// @Summary Get syllabus
// @Tags Syllabi
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /syllabi/{code} [get]
func (h *SyllabusHandler) Get(c *gin.Context) {
	syllabus, err := h.service.Get(c.Request.Context(), courseCodeParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, syllabus, middleware.ResponseMeta(c, nil))
}

// Create godoc
// @Summary Create syllabus
// @Description Store a syllabus without writing a commit. An existing course is overwritten.
// @Tags Syllabi
// @Accept json
// @Produce json
// @Param payload body models.Syllabus true "Syllabus payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /syllabi [post]
func (h *SyllabusHandler) Create(c *gin.Context) {
	var req models.Syllabus
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid syllabus payload"))
		return
	}
	req.Normalize()

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, created, nil)
}

// Update godoc
// @Summary Update syllabus
// @Description Snapshot the current state as a commit, store the new state and notify subscribers
// @Tags Syllabi
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param payload body dto.UpdateSyllabusRequest true "Syllabus payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /syllabi/{code} [put]
func (h *SyllabusHandler) Update(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateSyllabusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid syllabus payload"))
		return
	}

	code := courseCodeParam(c)
	if body := strings.TrimSpace(req.CourseCode); body != "" && body != code {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "course_code does not match path"))
		return
	}
	req.CourseCode = code
	syllabus := req.Syllabus
	syllabus.Normalize()

	result, err := h.service.Update(c.Request.Context(), &syllabus, req.CommitMessage, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.UpdateSyllabusResponse{
		Syllabus:     result.Syllabus,
		Commit:       dto.NewCommitView(result.Commit),
		Notification: result.Notification,
	}, middleware.ResponseMeta(c, nil))
}

// Delete godoc
// @Summary Delete syllabus
// @Description Record a deletion commit, remove the syllabus and notify subscribers. Missing courses are a no-op.
// @Tags Syllabi
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /syllabi/{code} [delete]
func (h *SyllabusHandler) Delete(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.Delete(c.Request.Context(), courseCodeParam(c), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.DeleteSyllabusResponse{
		Deleted:      result.Deleted,
		Commit:       dto.NewCommitView(result.Commit),
		Notification: result.Notification,
	}, middleware.ResponseMeta(c, nil))
}

// History godoc
// @Summary Syllabus history
// @Description Commits of a course, newest first. Students see one commit per year.
// @Tags Syllabi
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /syllabi/{code}/history [get]
func (h *SyllabusHandler) History(c *gin.Context) {
	commits, err := h.service.History(c.Request.Context(), courseCodeParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	archive := false
	if claims := claimsFromContext(c); claims == nil || claims.Role != models.RoleInstructor {
		commits = service.ArchiveView(commits)
		archive = true
	}

	response.JSON(c, http.StatusOK, dto.NewCommitViews(commits), middleware.ResponseMeta(c, map[string]interface{}{
		"count":        len(commits),
		"archive_view": archive,
	}))
}

// GetCommit godoc
// @Summary Get commit
// @Description A single commit together with the syllabus snapshot it captured
// @Tags Syllabi
// @Produce json
// @Param code path string true "Course code"
// @Param commitId path string true "Commit ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /syllabi/{code}/history/{commitId} [get]
func (h *SyllabusHandler) GetCommit(c *gin.Context) {
	commit, err := h.service.GetCommit(c.Request.Context(), courseCodeParam(c), c.Param("commitId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	snapshot, err := service.DecodeSnapshot(commit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.CommitDetail{
		CommitView: *dto.NewCommitView(commit),
		Syllabus:   snapshot,
	}, middleware.ResponseMeta(c, nil))
}

// Export godoc
// @Summary Export syllabus
// @Tags Syllabi
// @Produce octet-stream
// @Param code path string true "Course code"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /syllabi/{code}/export [get]
func (h *SyllabusHandler) Export(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.exporter.Export(c.Request.Context(), courseCodeParam(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}

func courseCodeParam(c *gin.Context) string {
	return strings.TrimSpace(c.Param("code"))
}
