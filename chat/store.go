package chat

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"kindminds/chat-core/config"
	"kindminds/chat-core/types"
)

// PendingReply marks a chat with an outstanding assistant reply. It
// lives only in memory and only drives the typing indicator.
type PendingReply struct {
	StartedAt time.Time
}

// Store holds the locally cached chats for one signed-in user, tracks
// which chat is current, and reconciles three writers: the optimistic
// local caller, the realtime change feed, and a second client instance
// racing both. The durable copy wins on conflict.
//
// One Store per client instance; create at sign-in, Reset at sign-out.
type Store struct {
	mu      sync.Mutex
	db      Persistence
	userID  string
	chats   []types.Chat
	current string
	pending map[string]PendingReply
	subs    []func()
}

func New(db Persistence, userID string) *Store {
	return &Store{
		db:      db,
		userID:  userID,
		pending: make(map[string]PendingReply),
	}
}

// Authenticated reports whether the store belongs to a signed-in user.
// Without one, every network-backed operation degrades to a no-op.
func (s *Store) Authenticated() bool {
	return s.userID != ""
}

// Subscribe registers fn to run after every cache mutation.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// LoadChats fetches the user's chats for one tab and merges them into
// the cache. Chats cached for other tabs are left alone, and a fetch
// failure leaves the whole cache untouched.
func (s *Store) LoadChats(ctx context.Context, tab types.ChatTab) ([]types.Chat, error) {
	if !s.Authenticated() {
		return nil, nil
	}

	fetched, err := s.db.ListChats(ctx, s.userID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to load chats for tab %s: %w", tab, err)
	}

	s.mu.Lock()
	merged := make([]types.Chat, 0, len(s.chats)+len(fetched))
	for _, c := range s.chats {
		if c.Tab != tab {
			merged = append(merged, c)
		}
	}
	for _, c := range fetched {
		if indexByID(merged, c.ID) == -1 {
			merged = append(merged, c)
		}
	}
	sortChats(merged)
	s.chats = merged
	if s.current != "" && indexByID(s.chats, s.current) == -1 {
		s.current = ""
	}
	s.mu.Unlock()

	s.notify()
	return s.ChatsByTab(tab), nil
}

// CreateChat inserts a new chat seeded with zero or one message, puts
// it at the front of the cache and makes it current. The owning
// profile row is ensured first so the insert's foreign key holds.
func (s *Store) CreateChat(ctx context.Context, tab types.ChatTab, initial *types.ChatMessage) (*types.Chat, error) {
	if !s.Authenticated() {
		return nil, nil
	}

	if err := s.db.EnsureProfile(ctx, s.userID); err != nil {
		return nil, fmt.Errorf("failed to ensure profile exists: %w", err)
	}

	row := types.Chat{
		UserID: s.userID,
		Tab:    tab,
		Title:  types.DefaultChatTitle,
	}
	if initial != nil {
		row.Messages = []types.ChatMessage{*initial}
		if initial.Role == types.RoleUser {
			row.Title = types.DeriveTitle(initial.Content)
		}
	} else {
		row.Messages = []types.ChatMessage{}
	}

	created, err := s.db.InsertChat(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}

	s.mu.Lock()
	s.chats = append([]types.Chat{created}, s.chats...)
	s.current = created.ID
	s.mu.Unlock()

	s.notify()
	return &created, nil
}

// SelectChat makes the cached chat with this id current. Missing ids
// are a no-op, not an error.
func (s *Store) SelectChat(id string) {
	s.mu.Lock()
	if indexByID(s.chats, id) != -1 {
		s.current = id
	}
	s.mu.Unlock()
	s.notify()
}

// AddMessage appends one message to a chat, safely against concurrent
// writers. The authoritative message list is re-fetched first, so an
// append commutes with whatever arrived through the realtime feed
// between the caller's last read and this write; the message is
// dropped only if the same id is already persisted.
//
// Callers must not assume first-invoked-first-appended under true
// concurrency; the persisted order is the order the re-fetches land.
func (s *Store) AddMessage(ctx context.Context, chatID string, msg types.ChatMessage, fallback *types.Chat) error {
	s.mu.Lock()
	var local types.Chat
	if i := indexByID(s.chats, chatID); i != -1 {
		local = s.chats[i]
	} else if fallback != nil && fallback.ID == chatID {
		// Just-created chat the cache hasn't caught up with yet.
		local = *fallback
	} else {
		s.mu.Unlock()
		return types.ErrChatNotFound
	}
	s.mu.Unlock()

	title := ""
	if msg.Role == types.RoleUser {
		title = types.DeriveTitle(msg.Content)
	}

	updated, err := s.reconcileAppend(ctx, chatID, msg, title)
	if err != nil {
		// Keep the user's input visible even though the write failed.
		// No retry; the caller decides what to do with the error.
		s.applyOptimistic(local, msg)
		s.ClearPending(chatID)
		return err
	}

	s.mu.Lock()
	replaceOrInsert(&s.chats, updated)
	if msg.Role == types.RoleAssistant {
		delete(s.pending, chatID)
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// reconcileAppend is the re-fetch-then-merge write: authoritative list
// first, dedupe by id, append if new, persist with a fresh updated_at.
func (s *Store) reconcileAppend(ctx context.Context, chatID string, msg types.ChatMessage, title string) (types.Chat, error) {
	remote, err := s.db.FetchMessages(ctx, chatID)
	if err != nil {
		return types.Chat{}, fmt.Errorf("failed to fetch current messages: %w", err)
	}

	isDuplicate := false
	for _, m := range remote {
		if m.ID == msg.ID {
			isDuplicate = true
			break
		}
	}

	effective := remote
	if !isDuplicate {
		effective = append(append([]types.ChatMessage{}, remote...), msg)
	}

	updated, err := s.db.UpdateMessages(ctx, chatID, effective, title)
	if err != nil {
		return types.Chat{}, fmt.Errorf("failed to update chat: %w", err)
	}
	return updated, nil
}

func (s *Store) applyOptimistic(local types.Chat, msg types.ChatMessage) {
	found := false
	for _, m := range local.Messages {
		if m.ID == msg.ID {
			found = true
			break
		}
	}
	if !found {
		local.Messages = append(append([]types.ChatMessage{}, local.Messages...), msg)
	}
	now := time.Now()
	local.UpdatedAt = &now

	s.mu.Lock()
	replaceOrInsert(&s.chats, local)
	s.mu.Unlock()
	s.notify()
}

// DeleteChat removes the chat durably and from the cache. A locally
// initiated delete clears the current pointer without selecting a
// replacement; the realtime delete merge is the path that reassigns.
func (s *Store) DeleteChat(ctx context.Context, id string) error {
	if err := s.db.DeleteChat(ctx, id); err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}

	s.mu.Lock()
	if i := indexByID(s.chats, id); i != -1 {
		s.chats = append(s.chats[:i], s.chats[i+1:]...)
	}
	delete(s.pending, id)
	if s.current == id {
		s.current = ""
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// ApplyChange merges one realtime event into the cache. This is the
// single merge primitive both the change feed and any other producer
// go through; nothing mutates the cached list from two call sites.
func (s *Store) ApplyChange(ev ChangeEvent) {
	switch ev.Type {
	case ChangeInsert, ChangeUpdate:
		if ev.New == nil {
			return
		}
		s.mu.Lock()
		replaceOrInsert(&s.chats, *ev.New)
		s.mu.Unlock()
	case ChangeDelete:
		if ev.Old == nil {
			return
		}
		s.mu.Lock()
		if i := indexByID(s.chats, ev.Old.ID); i != -1 {
			s.chats = append(s.chats[:i], s.chats[i+1:]...)
		}
		delete(s.pending, ev.Old.ID)
		if s.current == ev.Old.ID {
			s.current = ""
			for _, c := range s.chats { // sorted, so first hit is most recent
				if c.Tab == ev.Old.Tab {
					s.current = c.ID
					break
				}
			}
		}
		s.mu.Unlock()
	default:
		config.Logger.Warn("Ignoring unknown change event type:", ev.Type)
		return
	}
	s.notify()
}

// ChatsByTab reads the cache; no network.
func (s *Store) ChatsByTab(tab types.ChatTab) []types.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Chat
	for _, c := range s.chats {
		if c.Tab == tab {
			out = append(out, c)
		}
	}
	return out
}

// CurrentChat returns a copy of the current chat, or nil.
func (s *Store) CurrentChat() *types.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexByID(s.chats, s.current); i != -1 {
		c := s.chats[i]
		return &c
	}
	return nil
}

func (s *Store) SetPending(chatID string) {
	s.mu.Lock()
	s.pending[chatID] = PendingReply{StartedAt: time.Now()}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) ClearPending(chatID string) {
	s.mu.Lock()
	delete(s.pending, chatID)
	s.mu.Unlock()
	s.notify()
}

// Pending reports whether a reply is outstanding for the chat. There is
// no timeout; the marker clears when the reply lands or fails.
func (s *Store) Pending(chatID string) (PendingReply, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[chatID]
	return p, ok
}

// Reset clears everything; called at sign-out.
func (s *Store) Reset() {
	s.mu.Lock()
	s.chats = nil
	s.current = ""
	s.pending = make(map[string]PendingReply)
	s.mu.Unlock()
	s.notify()
}

func indexByID(chats []types.Chat, id string) int {
	if id == "" {
		return -1
	}
	for i, c := range chats {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func replaceOrInsert(chats *[]types.Chat, c types.Chat) {
	if i := indexByID(*chats, c.ID); i != -1 {
		(*chats)[i] = c
	} else {
		*chats = append(*chats, c)
	}
	sortChats(*chats)
}

func sortChats(chats []types.Chat) {
	sort.SliceStable(chats, func(i, j int) bool {
		a, b := chats[i].LastActivity(), chats[j].LastActivity()
		if a.Equal(b) {
			return chats[i].CreatedAt.After(chats[j].CreatedAt)
		}
		return a.After(b)
	})
}
