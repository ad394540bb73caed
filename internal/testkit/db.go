// Package testkit holds fixtures shared by package tests.
package testkit

import (
	"fmt"
	"testing"

	"asset-lending/internal/database"
	"asset-lending/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB opens a migrated in-memory SQLite database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// одно соединение: in-memory база живёт, пока оно открыто
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Password is the plain password of every user created by CreateUser.
const Password = "Secret123!"

func CreateUser(t testing.TB, db *gorm.DB, email string, role models.UserRole) models.User {
	t.Helper()

	u, err := database.NewUser(email, email, Password, role, "QA", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&u).Error)
	return u
}

func CreateAsset(t testing.TB, db *gorm.DB, serial, name string, typ models.AssetType, status models.AssetStatus, stock int) models.Asset {
	t.Helper()

	a := models.Asset{SerialNumber: serial, Name: name, Type: typ, Status: status, Stock: stock}
	require.NoError(t, db.Create(&a).Error)
	return a
}
