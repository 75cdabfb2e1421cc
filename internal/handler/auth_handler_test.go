package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/syllabus-api/internal/middleware"
	"github.com/noah-isme/syllabus-api/internal/models"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
)

type authServiceMock struct {
	loginReq models.LoginRequest
	loginErr error
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.loginReq = req
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return &models.LoginResponse{AccessToken: "token", User: models.User{EKOID: req.EKOID}}, nil
}

func (m *authServiceMock) CurrentUser(ctx context.Context, claims *models.JWTClaims) (*models.User, error) {
	return &models.User{EKOID: claims.UserID, Role: claims.Role}, nil
}

func TestAuthHandlerLogin(t *testing.T) {
	svc := &authServiceMock{}
	handler := NewAuthHandler(svc)
	c, w := newTestContext(http.MethodPost, "/auth/login", []byte(`{"ekoid":"kaya.oguz","password":"ignored"}`))

	handler.Login(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "kaya.oguz", svc.loginReq.EKOID)

	var res models.LoginResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &res))
	assert.Equal(t, "token", res.AccessToken)
}

func TestAuthHandlerLoginUnknownIdentity(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{loginErr: appErrors.ErrUnknownIdentity})
	c, w := newTestContext(http.MethodPost, "/auth/login", []byte(`{"ekoid":"nobody"}`))

	handler.Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrUnknownIdentity.Code, env.Error.Code)
}

func TestAuthHandlerLoginInvalidBody(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{})
	c, w := newTestContext(http.MethodPost, "/auth/login", []byte(`invalid`))

	handler.Login(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandlerMe(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{})

	c, w := newTestContext(http.MethodGet, "/auth/me", nil)
	handler.Me(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newTestContext(http.MethodGet, "/auth/me", nil)
	c.Set(middleware.ContextUserKey, studentClaims)
	handler.Me(c)
	require.Equal(t, http.StatusOK, w.Code)
	var user models.User
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &user))
	assert.Equal(t, "ali.veli", user.EKOID)
}
