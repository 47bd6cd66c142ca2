package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/database/testutil"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/models"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/realtime"
	apperrors "github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/pkg/errors"
)

type recordedEmit struct {
	Room  string
	Event string
	Data  any
}

// recordingRelay captures emits instead of delivering them.
type recordingRelay struct {
	mu        sync.Mutex
	emits     []recordedEmit
	delivered int
}

func (r *recordingRelay) EmitToRoom(room, event string, data any) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emits = append(r.emits, recordedEmit{Room: room, Event: event, Data: data})
	return r.delivered
}

func (r *recordingRelay) all() []recordedEmit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedEmit(nil), r.emits...)
}

func newApplicationFixture(t *testing.T) (*ApplicationService, *NotificationService, *recordingRelay, *gorm.DB) {
	t.Helper()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	notifications, err := NewNotificationService(db)
	require.NoError(t, err)
	relay := &recordingRelay{delivered: 1}
	svc, err := NewApplicationService(db, notifications, relay)
	require.NoError(t, err)
	return svc, notifications, relay, db
}

func createJob(t *testing.T, db *gorm.DB, employerID string) models.Job {
	t.Helper()
	job := models.Job{
		Title:          "Backend Engineer",
		Location:       "Pune",
		Status:         models.JobOpen,
		EmployerUserID: employerID,
	}
	require.NoError(t, db.Create(&job).Error)
	return job
}

func TestApplicationSubmitPersistsThenPushes(t *testing.T) {
	svc, notifications, relay, db := newApplicationFixture(t)
	ctx := context.Background()

	employer := uuid.NewString()
	candidate := uuid.NewString()
	job := createJob(t, db, employer)

	result, err := svc.Submit(ctx, SubmitApplicationInput{
		JobID:           job.ID,
		CandidateUserID: candidate,
		CoverLetter:     "Please consider me.",
	})
	require.NoError(t, err)
	require.Empty(t, result.NotificationError)
	require.Equal(t, models.ApplicationSubmitted, result.Application.Status)

	// The employer got a durable row.
	count, err := notifications.CountUnread(ctx, employer)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	// And a live push to their own room, carrying the persisted record.
	emits := relay.all()
	require.Len(t, emits, 1)
	require.Equal(t, realtime.UserRoom(employer), emits[0].Room)
	require.Equal(t, realtime.EventNewNotification, emits[0].Event)

	payload, ok := emits[0].Data.(realtime.NotificationPayload)
	require.True(t, ok)
	dto, ok := payload.Notification.(*NotificationDTO)
	require.True(t, ok)
	require.Equal(t, models.NotificationNewApplication, dto.Type)
	require.Equal(t, job.ID, *dto.RelatedJobID)
	require.Equal(t, result.Application.ID, *dto.RelatedApplicationID)
}

func TestApplicationSubmitUnknownJob(t *testing.T) {
	svc, _, relay, _ := newApplicationFixture(t)

	_, err := svc.Submit(context.Background(), SubmitApplicationInput{
		JobID:           uuid.NewString(),
		CandidateUserID: uuid.NewString(),
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.Empty(t, relay.all())
}

func TestApplicationSubmitSucceedsWithNoListeners(t *testing.T) {
	svc, _, relay, db := newApplicationFixture(t)
	relay.delivered = 0

	employer := uuid.NewString()
	job := createJob(t, db, employer)

	result, err := svc.Submit(context.Background(), SubmitApplicationInput{
		JobID:           job.ID,
		CandidateUserID: uuid.NewString(),
	})
	require.NoError(t, err)
	require.Empty(t, result.NotificationError)
	require.Len(t, relay.all(), 1)
}

func TestApplicationSubmitWithoutRelay(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	notifications, err := NewNotificationService(db)
	require.NoError(t, err)
	svc, err := NewApplicationService(db, notifications, nil)
	require.NoError(t, err)

	employer := uuid.NewString()
	job := createJob(t, db, employer)

	result, err := svc.Submit(context.Background(), SubmitApplicationInput{
		JobID:           job.ID,
		CandidateUserID: uuid.NewString(),
	})
	require.NoError(t, err)
	require.Empty(t, result.NotificationError)

	// Fetch remains the recovery path when there is no live channel at all.
	count, err := notifications.CountUnread(context.Background(), employer)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestApplicationSubmitWithNilHub(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	notifications, err := NewNotificationService(db)
	require.NoError(t, err)

	// A nil hub passed through the interface must behave like no relay.
	svc, err := NewApplicationService(db, notifications, (*realtime.Hub)(nil))
	require.NoError(t, err)

	employer := uuid.NewString()
	job := createJob(t, db, employer)

	result, err := svc.Submit(context.Background(), SubmitApplicationInput{
		JobID:           job.ID,
		CandidateUserID: uuid.NewString(),
	})
	require.NoError(t, err)
	require.Empty(t, result.NotificationError)

	count, err := notifications.CountUnread(context.Background(), employer)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestApplicationUpdateStatusNotifiesCandidate(t *testing.T) {
	svc, notifications, relay, db := newApplicationFixture(t)
	ctx := context.Background()

	employer := uuid.NewString()
	candidate := uuid.NewString()
	job := createJob(t, db, employer)

	submitted, err := svc.Submit(ctx, SubmitApplicationInput{
		JobID:           job.ID,
		CandidateUserID: candidate,
	})
	require.NoError(t, err)

	result, err := svc.UpdateStatus(ctx, UpdateApplicationStatusInput{
		ApplicationID:  submitted.Application.ID,
		EmployerUserID: employer,
		Status:         models.ApplicationAccepted,
	})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationAccepted, result.Application.Status)

	count, err := notifications.CountUnread(ctx, candidate)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	emits := relay.all()
	require.Len(t, emits, 2)
	require.Equal(t, realtime.UserRoom(candidate), emits[1].Room)
}

func TestApplicationUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, relay, db := newApplicationFixture(t)
	ctx := context.Background()

	employer := uuid.NewString()
	job := createJob(t, db, employer)

	submitted, err := svc.Submit(ctx, SubmitApplicationInput{
		JobID:           job.ID,
		CandidateUserID: uuid.NewString(),
	})
	require.NoError(t, err)
	before := len(relay.all())

	_, err = svc.UpdateStatus(ctx, UpdateApplicationStatusInput{
		ApplicationID:  submitted.Application.ID,
		EmployerUserID: employer,
		Status:         models.ApplicationStatus("ARCHIVED"),
	})
	require.ErrorContains(t, err, "unknown status")
	require.Len(t, relay.all(), before)

	var stored models.Application
	require.NoError(t, db.First(&stored, "id = ?", submitted.Application.ID).Error)
	require.Equal(t, models.ApplicationSubmitted, stored.Status)
}

func TestApplicationUpdateStatusRequiresOwningEmployer(t *testing.T) {
	svc, _, relay, db := newApplicationFixture(t)
	ctx := context.Background()

	employer := uuid.NewString()
	job := createJob(t, db, employer)

	submitted, err := svc.Submit(ctx, SubmitApplicationInput{
		JobID:           job.ID,
		CandidateUserID: uuid.NewString(),
	})
	require.NoError(t, err)
	before := len(relay.all())

	_, err = svc.UpdateStatus(ctx, UpdateApplicationStatusInput{
		ApplicationID:  submitted.Application.ID,
		EmployerUserID: uuid.NewString(),
		Status:         models.ApplicationRejected,
	})
	require.ErrorIs(t, err, apperrors.ErrForbidden)
	require.Len(t, relay.all(), before)
}
