package sentiment

import (
	"context"
	"math"
	"strings"
	"time"

	"kindminds/chat-core/config"
	"kindminds/chat-core/types"
)

// Activity flows the router can point a user at.
const (
	ActivityGrounding = "54321"     // guided 5-4-3-2-1 de-escalation
	ActivityBreathing = "breathing" // breathing exercise
)

// GroundingPath is where a crisis-level score sends the user.
const GroundingPath = "/grounding"

// Analyzer scores raw message text.
type Analyzer interface {
	AnalyzeSentiment(ctx context.Context, text string) (types.SentimentResult, error)
}

// EventLog records sentiment events for analytics.
type EventLog interface {
	InsertSentimentEvent(ctx context.Context, ev types.SentimentEvent) error
}

// Navigator moves the user to another screen.
type Navigator interface {
	Navigate(path string)
}

// ActivityLauncher starts an interactive activity flow in place.
type ActivityLauncher interface {
	StartActivity(activity string)
}

// Decision is one scored message's outcome.
type Decision struct {
	Sentiment string
	Score     float64
	Activity  string // empty when nothing is suggested
	Crisis    bool
}

// ActivityForScore maps a score in [-1, 1] to an intervention.
// The crisis bucket navigates unconditionally; the two breathing
// buckets only produce a suggestion for the assistant to voice.
func ActivityForScore(score float64) (activity string, crisis bool) {
	switch {
	case score <= -0.8:
		return ActivityGrounding, true
	case score <= -0.4:
		return ActivityBreathing, false
	case score < -0.2:
		return ActivityBreathing, false
	}
	return "", false
}

// Router scores a freshly sent user message and decides among doing
// nothing, suggesting an activity, and forcing crisis navigation.
// Stateless per call; the decision is driven purely by the score.
type Router struct {
	analyzer Analyzer
	events   EventLog
	nav      Navigator
}

func NewRouter(analyzer Analyzer, events EventLog, nav Navigator) *Router {
	return &Router{analyzer: analyzer, events: events, nav: nav}
}

// Evaluate runs sentiment analysis for one user message. A nil return
// means "no signal": analysis failed and the send flow must proceed
// without sentiment influence.
func (r *Router) Evaluate(ctx context.Context, chatID, text string) *Decision {
	res, err := r.analyzer.AnalyzeSentiment(ctx, text)
	if err != nil {
		config.Logger.Warn("Sentiment analysis failed, continuing without it:", err)
		return nil
	}

	label := strings.ToLower(res.Sentiment)
	if label == "" {
		label = "neutral"
	}
	score := res.Score
	if math.IsNaN(score) {
		score = 0
	}

	// Analytics only; a failed insert never reaches the user.
	go func() {
		ev := types.SentimentEvent{
			ChatID:    chatID,
			Sentiment: label,
			Score:     score,
			CreatedAt: time.Now(),
		}
		if err := r.events.InsertSentimentEvent(context.Background(), ev); err != nil {
			config.Logger.Warn("Failed to log sentiment event:", err)
		}
	}()

	activity, crisis := ActivityForScore(score)
	if crisis {
		config.Logger.Info("Crisis-level sentiment detected, redirecting to grounding, score:", score)
		r.nav.Navigate(GroundingPath)
	}

	return &Decision{
		Sentiment: label,
		Score:     score,
		Activity:  activity,
		Crisis:    crisis,
	}
}

// Hint builds the completion-request payload for a non-crisis
// suggestion, or nil when there is nothing to suggest.
func (d *Decision) Hint() *types.SentimentHint {
	if d == nil || d.Crisis || d.Activity == "" {
		return nil
	}
	return &types.SentimentHint{
		Sentiment:         d.Sentiment,
		Score:             d.Score,
		SuggestedActivity: d.Activity,
	}
}

var affirmativeTokens = []string{
	"yes", "yeah", "yep", "sure", "okay", "ok", "alright",
	"let's do it", "start", "begin", "go ahead",
}

// IsAffirmative reports whether the user's own text reads as agreement.
// Deliberately a naive case-insensitive substring match, so "yesterday"
// matches "yes"; that false positive is accepted behavior, not a bug.
func IsAffirmative(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, token := range affirmativeTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}
