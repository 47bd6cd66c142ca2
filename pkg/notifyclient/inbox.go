package notifyclient

import "sync"

// Inbox is an in-memory view of a recipient's notification list, mirroring
// what the front-end keeps in component state. Seed it once from the REST
// list endpoint, then feed it live notifications; pushed items are prepended
// so the newest-first ordering matches a fresh fetch.
type Inbox struct {
	mu     sync.Mutex
	items  []Notification
	unread int64
}

// NewInbox returns an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{}
}

// Seed replaces the inbox contents with a snapshot fetched over REST.
func (i *Inbox) Seed(items []Notification, unread int64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.items = append([]Notification(nil), items...)
	i.unread = unread
}

// Push prepends a live notification and bumps the unread count.
func (i *Inbox) Push(n Notification) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.items = append([]Notification{n}, i.items...)
	if !n.IsRead {
		i.unread++
	}
}

// MarkRead flips a local item to read and decrements the unread count. The
// authoritative flip happens server-side; this keeps the view in step.
func (i *Inbox) MarkRead(id string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for idx := range i.items {
		if i.items[idx].ID == id && !i.items[idx].IsRead {
			i.items[idx].IsRead = true
			if i.unread > 0 {
				i.unread--
			}
			return
		}
	}
}

// Items returns a copy of the current notification list, newest first.
func (i *Inbox) Items() []Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]Notification(nil), i.items...)
}

// UnreadCount returns the number of unread notifications in the view.
func (i *Inbox) UnreadCount() int64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.unread
}
