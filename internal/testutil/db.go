package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/gym-manager/internal/db"
	"github.com/BruksfildServices01/gym-manager/internal/models"
)

// NewDB opens a private in-memory SQLite database with every table migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// ======================================================
// FIXTURES
// ======================================================

func CreateUser(t *testing.T, gdb *gorm.DB, username, role string) *models.User {
	t.Helper()

	u := &models.User{
		Username:  username,
		Email:     username + "@gym.local",
		FirstName: username,
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

func CreateAdmin(t *testing.T, gdb *gorm.DB, username string) *models.User {
	t.Helper()

	u := CreateUser(t, gdb, username, models.RoleMember)
	require.NoError(t, gdb.Model(u).Updates(map[string]any{"is_superuser": true, "is_staff": true}).Error)
	u.IsSuperuser = true
	u.IsStaff = true
	return u
}

func CreatePackage(t *testing.T, gdb *gorm.DB, name string, price float64, days int) *models.Package {
	t.Helper()

	p := &models.Package{
		Name:         name,
		Price:        price,
		DurationDays: days,
		PackageType:  models.PackageTypeBasic,
		IsActive:     true,
	}
	require.NoError(t, gdb.Create(p).Error)
	return p
}
