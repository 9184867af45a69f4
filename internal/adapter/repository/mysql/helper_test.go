package mysql

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"drmp-backend/internal/domain/casepkg"
	"drmp-backend/internal/domain/cases"
	"drmp-backend/internal/domain/organization"
	"drmp-backend/internal/domain/user"
)

// openTestDB creates an in-memory sqlite DB with the full schema. The domain
// models avoid MySQL-only column types, so they migrate cleanly on sqlite.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&cases.Case{},
		&casepkg.CasePackage{},
		&organization.Organization{},
		&user.User{},
		&user.Role{},
		&user.Permission{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
