package supabase

import (
	"time"

	"kindminds/chat-core/chat"
	"kindminds/chat-core/config"
	"kindminds/chat-core/types"
)

// Feed is a polling change feed over the user's chat rows. Successive
// snapshots are diffed into the same insert/update/delete events a
// push subscription would deliver, so the store-side merge is
// identical either way.
type Feed struct {
	store    *Store
	userID   string
	interval time.Duration
	handler  func(chat.ChangeEvent)
	known    map[string]types.Chat
	primed   bool
	stop     chan struct{}
	done     chan struct{}
}

// SubscribeChats starts a feed for one user's chats. The handler runs
// on the feed's goroutine; wire it to Store.ApplyChange. Close stops
// the feed.
func (s *Store) SubscribeChats(userID string, interval time.Duration, handler func(chat.ChangeEvent)) *Feed {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	f := &Feed{
		store:    s,
		userID:   userID,
		interval: interval,
		handler:  handler,
		known:    make(map[string]types.Chat),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go f.run()
	return f
}

func (f *Feed) Close() {
	close(f.stop)
	<-f.done
}

func (f *Feed) run() {
	defer close(f.done)
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	f.poll()
	for {
		select {
		case <-f.stop:
			return
		case <-ticker.C:
			f.poll()
		}
	}
}

func (f *Feed) poll() {
	rows, err := f.store.listAll(f.userID)
	if err != nil {
		config.Logger.Warn("Chat feed poll failed:", err)
		return
	}

	snapshot := make(map[string]types.Chat, len(rows))
	for _, row := range rows {
		snapshot[row.ID] = row
	}

	if !f.primed {
		// First poll seeds the baseline; rows that already existed are
		// the load path's job, not change events.
		f.known = snapshot
		f.primed = true
		return
	}

	for _, ev := range diffSnapshots(f.known, rows) {
		f.handler(ev)
	}
	f.known = snapshot
}

// diffSnapshots turns two row snapshots into change events: new ids
// insert, vanished ids delete, and rows whose updated_at, title or
// message count moved update.
func diffSnapshots(prev map[string]types.Chat, rows []types.Chat) []chat.ChangeEvent {
	var events []chat.ChangeEvent
	seen := make(map[string]bool, len(rows))

	for i := range rows {
		row := rows[i]
		seen[row.ID] = true
		old, ok := prev[row.ID]
		if !ok {
			events = append(events, chat.ChangeEvent{Type: chat.ChangeInsert, New: &rows[i]})
			continue
		}
		if changed(old, row) {
			o := old
			events = append(events, chat.ChangeEvent{Type: chat.ChangeUpdate, New: &rows[i], Old: &o})
		}
	}

	for id := range prev {
		if !seen[id] {
			old := prev[id]
			events = append(events, chat.ChangeEvent{Type: chat.ChangeDelete, Old: &old})
		}
	}
	return events
}

func changed(old, cur types.Chat) bool {
	return !old.LastActivity().Equal(cur.LastActivity()) ||
		old.Title != cur.Title ||
		len(old.Messages) != len(cur.Messages)
}
