package llm

import (
	"fmt"
	"os"

	"kindminds/chat-core/types"
)

type Model string

const (
	OpenAI Model = "openai"
	Gemini Model = "gemini"
)

// DefaultModel picks the provider from LLM_PROVIDER, Gemini by default.
func DefaultModel() Model {
	if Model(os.Getenv("LLM_PROVIDER")) == OpenAI {
		return OpenAI
	}
	return Gemini
}

// Complete generates a reply using the specified provider.
func Complete(model Model, systemPrompt string, messages []types.PromptMessage) (string, error) {
	switch model {
	case OpenAI:
		return OpenAIComplete(systemPrompt, messages)
	case Gemini:
		return GeminiComplete(systemPrompt, messages)
	default:
		return "", fmt.Errorf("unsupported model: %s (supported: %s, %s)", model, OpenAI, Gemini)
	}
}

// AnalyzeSentiment scores text using the specified provider.
func AnalyzeSentiment(model Model, text string) (types.SentimentResult, error) {
	switch model {
	case OpenAI:
		return OpenAIAnalyzeSentiment(text)
	case Gemini:
		return GeminiAnalyzeSentiment(text)
	default:
		return types.SentimentResult{}, fmt.Errorf("unsupported model: %s (supported: %s, %s)", model, OpenAI, Gemini)
	}
}
