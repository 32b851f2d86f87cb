package database

import (
	"context"
	"testing"

	"foodgram/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOpen_SQLiteMigrates(t *testing.T) {
	db, err := Open("sqlite", "file:database_test?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.NoError(t, Ping(context.Background(), db))

	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}
}

func TestOpen_TranslatesDuplicates(t *testing.T) {
	db, err := Open("sqlite", "file:database_dup_test?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	require.NoError(t, db.Create(&models.Ingredient{Name: "salt", MeasurementUnit: "g"}).Error)
	err = db.Create(&models.Ingredient{Name: "salt", MeasurementUnit: "g"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("mysql", "")
	assert.EqualError(t, err, `unsupported database driver "mysql"`)
}
