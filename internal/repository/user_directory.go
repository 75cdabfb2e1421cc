package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/noah-isme/syllabus-api/internal/models"
)

// UserDirectory is the fixed university user table keyed by EKOID.
type UserDirectory struct {
	users map[string]models.User
}

// NewUserDirectory builds a directory from entries. With no entries the
// built-in university table is used.
func NewUserDirectory(entries ...models.User) *UserDirectory {
	if len(entries) == 0 {
		entries = defaultDirectoryUsers()
	}
	users := make(map[string]models.User, len(entries))
	for _, u := range entries {
		users[normalizeEKOID(u.EKOID)] = u
	}
	return &UserDirectory{users: users}
}

// Lookup resolves an EKOID after trimming and lower-casing it.
func (d *UserDirectory) Lookup(ctx context.Context, ekoid string) (*models.User, error) {
	id := normalizeEKOID(ekoid)
	if id == "" {
		return nil, ErrNotFound
	}
	u, ok := d.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// List returns every directory entry ordered by EKOID.
func (d *UserDirectory) List(ctx context.Context) []models.User {
	result := make([]models.User, 0, len(d.users))
	for _, u := range d.users {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EKOID < result[j].EKOID })
	return result
}

func normalizeEKOID(ekoid string) string {
	return strings.ToLower(strings.TrimSpace(ekoid))
}

func defaultDirectoryUsers() []models.User {
	return []models.User{
		{EKOID: "kaya.oguz", FullName: "Doç. Dr. Kaya Oğuz", Role: models.RoleInstructor, Email: "kaya.oguz@ieu.edu.tr", Department: "Software Engineering"},
		{EKOID: "kutluhan.erol", FullName: "Dr. Kutluhan Erol", Role: models.RoleInstructor, Email: "kutluhan.erol@ieu.edu.tr", Department: "Computer Engineering"},
		{EKOID: "hamza.cekirdek", FullName: "Arş. Gör. Hamza Çekirdek", Role: models.RoleInstructor, Email: "hamza.cekirdek@ieu.edu.tr", Department: "Software Engineering"},
		{EKOID: "test.instructor", FullName: "Test Instructor", Role: models.RoleInstructor, Email: "test.instructor@ieu.edu.tr", Department: "Computer Engineering"},
		{EKOID: "sinan.sener", FullName: "Sinan Mert Şener", Role: models.RoleStudent, Email: "sinan.sener@std.ieu.edu.tr", Department: "Software Engineering"},
		{EKOID: "ali.veli", FullName: "Ali Veli", Role: models.RoleStudent, Email: "ali.veli@std.ieu.edu.tr", Department: "Computer Engineering"},
		{EKOID: "test.student", FullName: "Test Student", Role: models.RoleStudent, Email: "test.student@std.ieu.edu.tr", Department: "Computer Engineering"},
	}
}
