package persistence

import (
	"testing"

	"github.com/receivable360/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.RegionModel{},
		&models.CustomerModel{},
		&models.InvoiceModel{},
		&models.PaymentModel{},
		&models.SettingModel{},
		&models.ActionModel{},
	)
	require.NoError(t, err)

	return db
}
