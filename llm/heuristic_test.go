package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicSentimentCrisis(t *testing.T) {
	crisis := []string{
		"I want to die",
		"sometimes I think about suicide",
		"I just want to end it all",
		"I don't want to live anymore",
		"everyone would be better off dead without me",
		"I might hurt myself",
	}
	for _, text := range crisis {
		res := HeuristicSentiment(text)
		assert.Equalf(t, "negative", res.Sentiment, "%q", text)
		assert.Equalf(t, -0.95, res.Score, "%q", text)
	}
}

func TestHeuristicSentimentNegative(t *testing.T) {
	res := HeuristicSentiment("I'm so stressed and anxious and overwhelmed")
	assert.Equal(t, "negative", res.Sentiment)
	assert.InDelta(t, -0.6, res.Score, 1e-9, "three moderate hits normalize to -3/5")

	res = HeuristicSentiment("feeling concerned and unsure about this")
	assert.Equal(t, "negative", res.Sentiment)
	assert.Equal(t, -0.3, res.Score, "mild hits clamp up to the band floor")

	res = HeuristicSentiment("I feel hopeless and exhausted, everything is hard")
	assert.Equal(t, "negative", res.Sentiment)
	assert.Equal(t, -1.0, res.Score, "heavy scores clamp at -1")
}

func TestHeuristicSentimentPositive(t *testing.T) {
	res := HeuristicSentiment("feeling grateful and happy today")
	assert.Equal(t, "positive", res.Sentiment)
	assert.InDelta(t, 2.0/3.0, res.Score, 1e-9)

	res = HeuristicSentiment("doing a little better")
	assert.Equal(t, "positive", res.Sentiment)
	assert.InDelta(t, 1.0/3.0, res.Score, 1e-9)
}

func TestHeuristicSentimentNeutral(t *testing.T) {
	for _, text := range []string{"", "   ", "hello there", "what time is the lecture"} {
		res := HeuristicSentiment(text)
		assert.Equalf(t, "neutral", res.Sentiment, "%q", text)
		assert.Zerof(t, res.Score, "%q", text)
	}

	// One mild word lands exactly on the band edge and stays neutral.
	res := HeuristicSentiment("a bit concerned")
	assert.Equal(t, "neutral", res.Sentiment)
	assert.Zero(t, res.Score)
}
