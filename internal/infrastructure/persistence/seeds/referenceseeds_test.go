package seeds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"campusdesk/internal/infrastructure/persistence/models"
)

func TestSeedReferenceData_Idempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.CategoryModel{}, &models.LocationModel{}))

	require.NoError(t, SeedReferenceData(db))
	require.NoError(t, SeedReferenceData(db))

	var categories, locations int64
	require.NoError(t, db.Model(&models.CategoryModel{}).Count(&categories).Error)
	require.NoError(t, db.Model(&models.LocationModel{}).Count(&locations).Error)
	assert.Equal(t, int64(7), categories)
	assert.Equal(t, int64(6), locations)
}
