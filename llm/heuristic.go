package llm

import (
	"regexp"
	"strings"

	"kindminds/chat-core/types"
)

// Lexicon fallback scorer, used when no provider is reachable. Crisis
// phrasing short-circuits to -0.95; otherwise weighted word counts are
// normalized into the same bands the model prompt describes.

var crisisPatterns = []*regexp.Regexp{
	regexp.MustCompile(`harm\s+(myself|self)`),
	regexp.MustCompile(`hurt\s+(myself|self)`),
	regexp.MustCompile(`kill\s+(myself|self)`),
	regexp.MustCompile(`suicide|suicidal`),
	regexp.MustCompile(`end\s+(it\s+all|my\s+life|everything)`),
	regexp.MustCompile(`want\s+to\s+die`),
	regexp.MustCompile(`don'?t\s+want\s+to\s+live`),
	regexp.MustCompile(`better\s+off\s+dead`),
	regexp.MustCompile(`no\s+point\s+in\s+living`),
}

var highNegativePhrases = []string{
	"hopeless", "desperate", "worthless", "useless", "pathetic", "failure",
	"hate myself", "hate my life", "can't go on", "can't take it",
	"breaking down", "falling apart", "losing it", "going crazy",
	"terrified", "panic", "panic attack", "breakdown", "meltdown",
}

var moderateNegativeWords = []string{
	"stressed", "anxious", "overwhelmed", "sad", "depressed", "down",
	"angry", "frustrated", "annoyed", "irritated", "upset", "worried",
	"tired", "exhausted", "drained", "burned out", "lonely", "isolated",
	"scared", "afraid", "nervous", "uneasy", "uncomfortable", "unhappy",
	"disappointed", "let down", "hurt", "pain", "suffering", "struggling",
	"difficult", "hard", "tough", "challenging", "problem", "issue",
}

var mildNegativeWords = []string{
	"concerned", "uncertain", "confused", "unsure", "hesitant", "reluctant",
}

var positiveWords = []string{
	"grateful", "thankful", "happy", "joyful", "excited", "enthusiastic",
	"calm", "peaceful", "relaxed", "content", "satisfied", "pleased",
	"confident", "proud", "accomplished", "successful", "optimistic",
	"hopeful", "motivated", "energetic", "refreshed", "renewed",
	"better", "improving", "progress", "breakthrough", "relief",
}

// HeuristicSentiment scores text without any model call.
func HeuristicSentiment(text string) types.SentimentResult {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return types.SentimentResult{Sentiment: "neutral", Score: 0}
	}

	for _, pattern := range crisisPatterns {
		if pattern.MatchString(lower) {
			return types.SentimentResult{Sentiment: "negative", Score: -0.95}
		}
	}

	highHits := countMatches(lower, highNegativePhrases)
	moderateHits := countMatches(lower, moderateNegativeWords)
	mildHits := countMatches(lower, mildNegativeWords)
	positiveHits := countMatches(lower, positiveWords)

	// High negative weighs -3, moderate -1, mild -0.3, positive +1.
	score := float64(positiveHits)*1.0 - float64(highHits)*3.0 - float64(moderateHits)*1.0 - float64(mildHits)*0.3

	switch {
	case score < -1.5:
		return types.SentimentResult{Sentiment: "negative", Score: clamp(score/5.0, -1.0, 0)}
	case score < -0.3:
		return types.SentimentResult{Sentiment: "negative", Score: clamp(score/3.0, -1.0, -0.3)}
	case score > 0.3:
		return types.SentimentResult{Sentiment: "positive", Score: clamp(score/3.0, 0.3, 1.0)}
	}
	return types.SentimentResult{Sentiment: "neutral", Score: 0}
}

func countMatches(text string, needles []string) int {
	n := 0
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			n++
		}
	}
	return n
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
