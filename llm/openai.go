package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"kindminds/chat-core/types"
)

const openaiURL = "https://api.openai.com/v1/chat/completions"

var openaiHTTP = &http.Client{Timeout: 30 * time.Second}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiRequest struct {
	Model          string          `json:"model"`
	Messages       []openaiMessage `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

type openaiResponse struct {
	Choices []struct {
		Message openaiMessage `json:"message"`
	} `json:"choices"`
}

// OpenAIComplete generates the assistant reply through the chat
// completions API with the system prompt as a proper system message.
func OpenAIComplete(systemPrompt string, messages []types.PromptMessage) (string, error) {
	msgs := make([]openaiMessage, 0, len(messages)+1)
	msgs = append(msgs, openaiMessage{Role: "system", Content: systemPrompt})
	for _, m := range messages {
		msgs = append(msgs, openaiMessage{Role: m.Role, Content: m.Content})
	}

	return openaiChat(openaiRequest{
		Model:       openaiModel(),
		Messages:    msgs,
		Temperature: 0.7,
		MaxTokens:   1024,
	})
}

// OpenAIAnalyzeSentiment scores text, forcing a JSON object response.
func OpenAIAnalyzeSentiment(text string) (types.SentimentResult, error) {
	req := openaiRequest{
		Model: openaiModel(),
		Messages: []openaiMessage{
			{Role: "system", Content: sentimentPrompt},
			{Role: "user", Content: "Analyze the sentiment of this text: " + text},
		},
		Temperature: 0.1,
		MaxTokens:   150,
		ResponseFormat: &struct {
			Type string `json:"type"`
		}{Type: "json_object"},
	}

	raw, err := openaiChat(req)
	if err != nil {
		return types.SentimentResult{}, err
	}
	return parseSentimentJSON(raw)
}

func openaiModel() string {
	if m := os.Getenv("OPENAI_MODEL"); m != "" {
		return m
	}
	return "gpt-4o-mini"
}

func openaiChat(reqBody openaiRequest) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", openaiURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := openaiHTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var res openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return res.Choices[0].Message.Content, nil
}
