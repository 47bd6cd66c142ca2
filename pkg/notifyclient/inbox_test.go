package notifyclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInboxSeedAndPush(t *testing.T) {
	inbox := NewInbox()
	inbox.Seed([]Notification{
		{ID: "n2", CreatedAt: time.Now().Add(-time.Minute)},
		{ID: "n1", CreatedAt: time.Now().Add(-time.Hour)},
	}, 1)

	require.EqualValues(t, 1, inbox.UnreadCount())

	// A pushed notification lands at the head, matching a fresh fetch.
	inbox.Push(Notification{ID: "n3", CreatedAt: time.Now()})

	items := inbox.Items()
	require.Len(t, items, 3)
	require.Equal(t, "n3", items[0].ID)
	require.Equal(t, "n2", items[1].ID)
	require.EqualValues(t, 2, inbox.UnreadCount())
}

func TestInboxPushReadNotificationDoesNotCount(t *testing.T) {
	inbox := NewInbox()
	inbox.Push(Notification{ID: "n1", IsRead: true})
	require.Zero(t, inbox.UnreadCount())
}

func TestInboxMarkRead(t *testing.T) {
	inbox := NewInbox()
	inbox.Push(Notification{ID: "n1"})
	inbox.Push(Notification{ID: "n2"})
	require.EqualValues(t, 2, inbox.UnreadCount())

	inbox.MarkRead("n1")
	require.EqualValues(t, 1, inbox.UnreadCount())

	// Flipping the same item twice changes nothing.
	inbox.MarkRead("n1")
	require.EqualValues(t, 1, inbox.UnreadCount())

	inbox.MarkRead("unknown")
	require.EqualValues(t, 1, inbox.UnreadCount())
}
