package database_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/database"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/database/testutil"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/models"
)

func TestAutoMigrateCreatesSchema(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	for _, table := range []string{"users", "jobs", "applications", "notifications"} {
		require.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestSeedDataIsIdempotent(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())

	var admin models.User
	require.NoError(t, db.First(&admin, "email = ?", "admin@jobboard.local").Error)
	require.Equal(t, models.RoleAdmin, admin.Role)
	require.True(t, admin.CheckPassword("changeme"))

	// A second seed run must not duplicate the account.
	require.NoError(t, database.SeedData(db))
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := database.Open(database.Config{Driver: "oracle"})
	require.Error(t, err)
}
