package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/syllabus-api/internal/models"
)

func TestUserDirectoryLookupNormalizesID(t *testing.T) {
	dir := NewUserDirectory()

	u, err := dir.Lookup(context.Background(), "  Kaya.Oguz ")
	require.NoError(t, err)
	assert.Equal(t, "Doç. Dr. Kaya Oğuz", u.FullName)
	assert.Equal(t, models.RoleInstructor, u.Role)

	student, err := dir.Lookup(context.Background(), "sinan.sener")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, student.Role)
	assert.Equal(t, "sinan.sener@std.ieu.edu.tr", student.Email)
}

func TestUserDirectoryLookupUnknown(t *testing.T) {
	dir := NewUserDirectory()

	_, err := dir.Lookup(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = dir.Lookup(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserDirectoryCustomEntries(t *testing.T) {
	dir := NewUserDirectory(models.User{EKOID: "Jane", FullName: "Jane Doe", Role: models.RoleStudent})

	u, err := dir.Lookup(context.Background(), "jane")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", u.FullName)
	assert.Len(t, dir.List(context.Background()), 1)
}
