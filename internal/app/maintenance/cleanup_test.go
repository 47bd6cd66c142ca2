package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"

	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/database/testutil"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/models"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/services"
)

func TestCleanerRunOnceEnforcesRetention(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	notifications, err := services.NewNotificationService(db)
	require.NoError(t, err)

	recipient := uuid.NewString()
	readAt := time.Now().AddDate(0, 0, -60)
	stale := models.Notification{
		BaseModel:       models.BaseModel{CreatedAt: time.Now().AddDate(0, 0, -60)},
		Type:            models.NotificationNewJobPosted,
		Title:           "stale",
		RecipientUserID: recipient,
		IsRead:          true,
		ReadAt:          &readAt,
	}
	recent := models.Notification{
		Type:            models.NotificationNewJobPosted,
		Title:           "recent",
		RecipientUserID: recipient,
	}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Create(&recent).Error)

	cleaner := NewCleaner(notifications, WithRetentionDays(30))
	require.NoError(t, cleaner.RunOnce(context.Background()))

	var remaining int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("recipient_user_id = ?", recipient).
		Count(&remaining).Error)
	require.Equal(t, int64(1), remaining)
}

func TestCleanerStartAndStop(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	notifications, err := services.NewNotificationService(db)
	require.NoError(t, err)

	cleaner := NewCleaner(notifications,
		WithCron(cron.New(cron.WithLogger(cron.DiscardLogger))),
		WithRetentionSchedule("@every 1h"),
	)
	require.NoError(t, cleaner.Start())

	stopCtx := cleaner.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop in time")
	}
}

func TestCleanerWithoutServiceIsNoop(t *testing.T) {
	cleaner := NewCleaner(nil)
	require.NoError(t, cleaner.Start())
	require.NoError(t, cleaner.RunOnce(context.Background()))
}
