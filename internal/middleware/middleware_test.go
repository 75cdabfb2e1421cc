package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/syllabus-api/internal/models"
	"github.com/noah-isme/syllabus-api/internal/service"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
)

type staticValidator struct {
	claims *models.JWTClaims
}

func (v staticValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Wrap(errors.New("bad signature"), appErrors.ErrUnauthorized.Code, http.StatusUnauthorized, "invalid token")
	}
	return v.claims, nil
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		claims, _ := CurrentClaims(c)
		if claims == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, claims.UserID)
	})
	r.GET("/syllabi/:code", handlers...)
	return r
}

func serve(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/syllabi/SE%20307", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTMiddleware(t *testing.T) {
	r := newRouter(JWT(staticValidator{claims: &models.JWTClaims{UserID: "kaya.oguz", Role: models.RoleInstructor}}))

	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Basic good").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Bearer bad").Code)

	w := serve(r, "Bearer good")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "kaya.oguz", w.Body.String())
}

func TestRequireRoles(t *testing.T) {
	instructor := newRouter(JWT(staticValidator{claims: &models.JWTClaims{UserID: "kaya.oguz", Role: models.RoleInstructor}}), RequireRoles(models.RoleInstructor))
	assert.Equal(t, http.StatusOK, serve(instructor, "Bearer good").Code)

	student := newRouter(JWT(staticValidator{claims: &models.JWTClaims{UserID: "ali.veli", Role: models.RoleStudent}}), RequireRoles(models.RoleInstructor))
	w := serve(student, "Bearer good")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "role STUDENT is not allowed")

	anonymous := newRouter(RequireRoles(models.RoleInstructor))
	assert.Equal(t, http.StatusUnauthorized, serve(anonymous, "").Code)
}

func TestResponseMeta(t *testing.T) {
	assert.Equal(t, map[string]interface{}{"count": 1}, ResponseMeta(nil, map[string]interface{}{"count": 1}))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WithResponseMeta())
	var meta map[string]interface{}
	r.GET("/", func(c *gin.Context) {
		meta = ResponseMeta(c, map[string]interface{}{"count": 2})
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, meta)
	assert.Equal(t, 2, meta["count"])
	assert.Contains(t, meta, "processing_time_ms")
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	metrics := service.NewMetricsService()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/syllabi/:code", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, "")
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `path="/syllabi/:code"`)
	assert.Contains(t, body, `path="unmatched"`)
	assert.NotContains(t, body, "SE 307")
	assert.Equal(t, uint64(2), metrics.Snapshot().RequestsTotal)
}
