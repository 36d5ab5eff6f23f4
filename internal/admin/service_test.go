package admin

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/pkg/db/models"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
)

func setupAdminTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err, "open sqlite")

	usersDDL := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  avatar_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  system_role TEXT,
  salon_ids TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME,
  updated_at DATETIME
);`
	salonsDDL := `
CREATE TABLE IF NOT EXISTS salons (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  description TEXT,
  phone TEXT,
  email TEXT,
  address_line TEXT NOT NULL,
  city TEXT NOT NULL,
  postal_code TEXT,
  schedule TEXT,
  logo_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  owner_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, ddl := range []string{usersDDL, salonsDDL} {
		require.NoError(t, db.Exec(ddl).Error, "create table")
	}
	return db
}

func mustCreateSalon(t *testing.T, db *gorm.DB, name string, active bool, createdAt time.Time) *models.Salon {
	t.Helper()
	salon := &models.Salon{
		ID:          uuid.New(),
		Name:        name,
		Slug:        name + "-" + uuid.NewString()[:8],
		AddressLine: "Main 1",
		City:        "Amsterdam",
		IsActive:    active,
		OwnerID:     uuid.New(),
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, db.Create(salon).Error, "seed salon")
	return salon
}

func TestAdminListSalonsPaginates(t *testing.T) {
	db := setupAdminTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)

	base := time.Now().UTC().Truncate(time.Second)
	oldest := mustCreateSalon(t, db, "alpha", true, base.Add(-3*time.Hour))
	middle := mustCreateSalon(t, db, "bravo", true, base.Add(-2*time.Hour))
	newest := mustCreateSalon(t, db, "charlie", true, base.Add(-1*time.Hour))

	first, err := svc.ListSalons(context.Background(), ListSalonsInput{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.Equal(t, newest.ID, first.Items[0].ID)
	assert.Equal(t, middle.ID, first.Items[1].ID)
	require.NotEmpty(t, first.Cursor, "expected a next-page cursor")

	second, err := svc.ListSalons(context.Background(), ListSalonsInput{Limit: 2, Cursor: first.Cursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, oldest.ID, second.Items[0].ID)
	assert.Empty(t, second.Cursor, "last page must not emit a cursor")
}

func TestAdminListSalonsActiveOnly(t *testing.T) {
	db := setupAdminTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)

	base := time.Now().UTC().Truncate(time.Second)
	mustCreateSalon(t, db, "open", true, base.Add(-time.Hour))
	mustCreateSalon(t, db, "closed", false, base.Add(-2*time.Hour))

	result, err := svc.ListSalons(context.Background(), ListSalonsInput{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "open", result.Items[0].Name)
}

func TestInactiveSalonInsertPersistsFlag(t *testing.T) {
	db := setupAdminTestDB(t)

	salon := mustCreateSalon(t, db, "dormant", false, time.Now().UTC())

	var stored models.Salon
	require.NoError(t, db.First(&stored, "id = ?", salon.ID).Error)
	assert.False(t, stored.IsActive)
}

func TestAdminListSalonsRejectsBadCursor(t *testing.T) {
	db := setupAdminTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)

	_, err = svc.ListSalons(context.Background(), ListSalonsInput{Cursor: "not a cursor"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestAdminSetSalonActiveToggles(t *testing.T) {
	db := setupAdminTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)

	salon := mustCreateSalon(t, db, "toggle", true, time.Now().UTC())

	dto, err := svc.SetSalonActive(context.Background(), salon.ID, false)
	require.NoError(t, err)
	assert.False(t, dto.IsActive)

	var stored models.Salon
	require.NoError(t, db.First(&stored, "id = ?", salon.ID).Error)
	assert.False(t, stored.IsActive)

	// toggling to the current value is a no-op
	dto, err = svc.SetSalonActive(context.Background(), salon.ID, false)
	require.NoError(t, err)
	assert.False(t, dto.IsActive)
}

func TestAdminSetUserActiveNotFound(t *testing.T) {
	db := setupAdminTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)

	_, err = svc.SetUserActive(context.Background(), uuid.New(), false)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
