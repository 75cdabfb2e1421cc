package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/syllabus-api/internal/middleware"
	"github.com/noah-isme/syllabus-api/internal/models"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return nil
	}
	return claims
}

// actorFromContext returns the caller identity or an unauthorized error.
func actorFromContext(c *gin.Context) (*models.Actor, error) {
	claims := claimsFromContext(c)
	if claims == nil || claims.UserID == "" {
		return nil, appErrors.ErrUnauthorized
	}
	return claims.Actor(), nil
}
