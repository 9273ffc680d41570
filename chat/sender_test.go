package chat_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindminds/chat-core/chat"
	"kindminds/chat-core/sentiment"
	"kindminds/chat-core/types"
)

type fakeInference struct {
	mu           sync.Mutex
	label        string
	score        float64
	sentimentErr error

	reply       string
	completeErr error
	lastReq     *types.CompletionRequest
	onComplete  func(req types.CompletionRequest)
}

func (f *fakeInference) AnalyzeSentiment(ctx context.Context, text string) (types.SentimentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sentimentErr != nil {
		return types.SentimentResult{}, f.sentimentErr
	}
	label := f.label
	if label == "" {
		label = "neutral"
	}
	return types.SentimentResult{Sentiment: label, Score: f.score}, nil
}

func (f *fakeInference) Complete(ctx context.Context, req types.CompletionRequest) (string, error) {
	f.mu.Lock()
	f.lastReq = &req
	hook := f.onComplete
	f.mu.Unlock()
	if hook != nil {
		hook(req)
	}
	if f.completeErr != nil {
		return "", f.completeErr
	}
	if f.reply == "" {
		return "Happy to help with that.", nil
	}
	return f.reply, nil
}

func (f *fakeInference) sentReq() *types.CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq
}

type fakeNav struct {
	mu    sync.Mutex
	paths []string
}

func (f *fakeNav) Navigate(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
}

type fakeLauncher struct {
	mu      sync.Mutex
	started []string
}

func (f *fakeLauncher) StartActivity(activity string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, activity)
}

func (f *fakeLauncher) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.started...)
}

type senderFixture struct {
	db       *fakeDB
	store    *chat.Store
	infer    *fakeInference
	nav      *fakeNav
	launcher *fakeLauncher
	sender   *chat.Sender
}

func newSenderFixture(t *testing.T) *senderFixture {
	t.Helper()
	db := newFakeDB()
	store := chat.New(db, testUser)
	infer := &fakeInference{}
	nav := &fakeNav{}
	launcher := &fakeLauncher{}
	router := sentiment.NewRouter(infer, db, nav)
	return &senderFixture{
		db:       db,
		store:    store,
		infer:    infer,
		nav:      nav,
		launcher: launcher,
		sender:   chat.NewSender(store, infer, router, launcher),
	}
}

func TestSendScoreRouting(t *testing.T) {
	cases := []struct {
		name         string
		score        float64
		wantNavigate bool
		wantActivity string
	}{
		{"deep crisis", -0.95, true, ""},
		{"crisis boundary", -0.8, true, ""},
		{"strongly negative", -0.5, false, sentiment.ActivityBreathing},
		{"strong boundary", -0.4, false, sentiment.ActivityBreathing},
		{"mildly negative", -0.3, false, sentiment.ActivityBreathing},
		{"mild boundary excluded", -0.2, false, ""},
		{"positive", 0.1, false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newSenderFixture(t)
			fx.infer.score = tc.score

			require.NoError(t, fx.sender.Send(context.Background(), types.TabMindfulness, "rough day"))

			if tc.wantNavigate {
				assert.Equal(t, []string{sentiment.GroundingPath}, fx.nav.paths)
			} else {
				assert.Empty(t, fx.nav.paths)
			}

			req := fx.infer.sentReq()
			require.NotNil(t, req, "completion must always be requested")
			if tc.wantActivity == "" {
				assert.Nil(t, req.Sentiment)
			} else {
				require.NotNil(t, req.Sentiment)
				assert.Equal(t, tc.wantActivity, req.Sentiment.SuggestedActivity)
			}
		})
	}
}

func TestSendCreatesChatWhenNoneCurrent(t *testing.T) {
	fx := newSenderFixture(t)

	require.NoError(t, fx.sender.Send(context.Background(), types.TabAcademic, "What is a derivative?"))

	chats := fx.store.ChatsByTab(types.TabAcademic)
	require.Len(t, chats, 1)
	assert.Equal(t, "What is a derivative?", chats[0].Title)
	require.Len(t, chats[0].Messages, 2, "user message plus assistant reply")
	assert.Equal(t, types.RoleUser, chats[0].Messages[0].Role)
	assert.Equal(t, types.RoleAssistant, chats[0].Messages[1].Role)
}

func TestSendUsesCurrentChatHistory(t *testing.T) {
	fx := newSenderFixture(t)
	seeded := fx.db.seed(types.Chat{UserID: testUser, Tab: types.TabAcademic,
		Messages: []types.ChatMessage{msg("m1", types.RoleUser, "earlier question")}})
	_, err := fx.store.LoadChats(context.Background(), types.TabAcademic)
	require.NoError(t, err)
	fx.store.SelectChat(seeded.ID)

	require.NoError(t, fx.sender.Send(context.Background(), types.TabAcademic, "follow-up"))

	req := fx.infer.sentReq()
	require.NotNil(t, req)
	assert.Equal(t, types.TabAcademic, req.ChatType)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "earlier question", req.Messages[0].Content)
	assert.Equal(t, "follow-up", req.Messages[1].Content)
}

func TestSendWrongTabCreatesNewChat(t *testing.T) {
	fx := newSenderFixture(t)
	seeded := fx.db.seed(types.Chat{UserID: testUser, Tab: types.TabAcademic})
	_, err := fx.store.LoadChats(context.Background(), types.TabAcademic)
	require.NoError(t, err)
	fx.store.SelectChat(seeded.ID)

	require.NoError(t, fx.sender.Send(context.Background(), types.TabMindfulness, "feeling off today"))

	assert.Len(t, fx.store.ChatsByTab(types.TabMindfulness), 1)
	assert.Empty(t, fx.db.messageIDs(seeded.ID), "the academic chat stays untouched")
}

func TestSendBlankOrSignedOutIsNoop(t *testing.T) {
	fx := newSenderFixture(t)
	require.NoError(t, fx.sender.Send(context.Background(), types.TabAcademic, "   "))
	assert.Nil(t, fx.infer.sentReq())
	assert.Empty(t, fx.store.ChatsByTab(types.TabAcademic))

	db := newFakeDB()
	store := chat.New(db, "")
	infer := &fakeInference{}
	router := sentiment.NewRouter(infer, db, &fakeNav{})
	sender := chat.NewSender(store, infer, router, &fakeLauncher{})
	require.NoError(t, sender.Send(context.Background(), types.TabAcademic, "hello"))
	assert.Nil(t, infer.sentReq())
}

func TestSendSentimentFailureStillSends(t *testing.T) {
	fx := newSenderFixture(t)
	fx.infer.sentimentErr = errors.New("scorer down")

	require.NoError(t, fx.sender.Send(context.Background(), types.TabMindfulness, "feeling anxious"))

	req := fx.infer.sentReq()
	require.NotNil(t, req, "completion proceeds without a sentiment signal")
	assert.Nil(t, req.Sentiment)
	assert.Empty(t, fx.nav.paths)

	chats := fx.store.ChatsByTab(types.TabMindfulness)
	require.Len(t, chats, 1)
	assert.Len(t, chats[0].Messages, 2)
	assert.Equal(t, 0, fx.db.eventCount())
}

func TestSendCompletionFailureRecordsFallback(t *testing.T) {
	fx := newSenderFixture(t)
	fx.infer.completeErr = errors.New("upstream 500")

	require.NoError(t, fx.sender.Send(context.Background(), types.TabAcademic, "hello"))

	chats := fx.store.ChatsByTab(types.TabAcademic)
	require.Len(t, chats, 1)
	require.Len(t, chats[0].Messages, 2)
	last := chats[0].Messages[1]
	assert.Equal(t, types.RoleAssistant, last.Role)
	assert.Equal(t, chat.FallbackAssistantReply, last.Content)

	_, pending := fx.store.Pending(chats[0].ID)
	assert.False(t, pending)
}

func TestSendPendingDuringCompletion(t *testing.T) {
	fx := newSenderFixture(t)
	var sawPending bool
	fx.infer.onComplete = func(req types.CompletionRequest) {
		current := fx.store.CurrentChat()
		if current != nil {
			_, sawPending = fx.store.Pending(current.ID)
		}
	}

	require.NoError(t, fx.sender.Send(context.Background(), types.TabAcademic, "hello"))
	assert.True(t, sawPending, "typing indicator is up while the reply is in flight")

	current := fx.store.CurrentChat()
	require.NotNil(t, current)
	_, pending := fx.store.Pending(current.ID)
	assert.False(t, pending, "cleared once the reply lands")
}

func TestSendSuggestionMetadataOnReply(t *testing.T) {
	fx := newSenderFixture(t)
	fx.infer.label = "negative"
	fx.infer.score = -0.5

	require.NoError(t, fx.sender.Send(context.Background(), types.TabMindfulness, "everything is too much"))

	chats := fx.store.ChatsByTab(types.TabMindfulness)
	require.Len(t, chats, 1)
	last := chats[0].Messages[len(chats[0].Messages)-1]
	require.NotNil(t, last.Metadata)
	assert.Equal(t, "suggested-activity", last.Metadata[types.MetaCTA])
	assert.Equal(t, sentiment.ActivityBreathing, last.Metadata[types.MetaActivityType])
}

func TestSendAffirmativeStartsPriorSuggestion(t *testing.T) {
	fx := newSenderFixture(t)
	fx.infer.label = "negative"
	fx.infer.score = -0.5

	require.NoError(t, fx.sender.Send(context.Background(), types.TabMindfulness, "I can't focus, everything is heavy"))
	assert.Empty(t, fx.launcher.all(), "suggestion turn itself starts nothing")

	fx.infer.label = "neutral"
	fx.infer.score = 0
	require.NoError(t, fx.sender.Send(context.Background(), types.TabMindfulness, "yeah let's do it"))
	assert.Equal(t, []string{sentiment.ActivityBreathing}, fx.launcher.all())

	// The neutral turn retired the offer, so a later "yes" is inert.
	require.NoError(t, fx.sender.Send(context.Background(), types.TabMindfulness, "yes"))
	assert.Equal(t, []string{sentiment.ActivityBreathing}, fx.launcher.all())
}

func TestSendAffirmativeSubstringFalsePositive(t *testing.T) {
	fx := newSenderFixture(t)
	fx.infer.label = "negative"
	fx.infer.score = -0.5
	require.NoError(t, fx.sender.Send(context.Background(), types.TabMindfulness, "today was awful"))

	fx.infer.score = -0.5
	require.NoError(t, fx.sender.Send(context.Background(), types.TabMindfulness, "yesterday was hard too"))
	// "yesterday" contains "yes"; the naive matcher fires and that is
	// the accepted behavior.
	assert.Equal(t, []string{sentiment.ActivityBreathing}, fx.launcher.all())
}

func TestSendCrisisNeverArmsSuggestion(t *testing.T) {
	fx := newSenderFixture(t)
	fx.infer.label = "negative"
	fx.infer.score = -0.95
	require.NoError(t, fx.sender.Send(context.Background(), types.TabMindfulness, "I can't do this anymore"))
	require.Equal(t, []string{sentiment.GroundingPath}, fx.nav.paths)

	fx.infer.score = 0
	require.NoError(t, fx.sender.Send(context.Background(), types.TabMindfulness, "yes"))
	assert.Empty(t, fx.launcher.all(), "crisis turns navigate instead of arming an offer")
}

func TestSendLogsSentimentEvent(t *testing.T) {
	fx := newSenderFixture(t)
	fx.infer.label = "negative"
	fx.infer.score = -0.5

	require.NoError(t, fx.sender.Send(context.Background(), types.TabMindfulness, "not great"))

	require.Eventually(t, func() bool {
		return fx.db.eventCount() == 1
	}, time.Second, 10*time.Millisecond, "event insert happens off the send path")
}
