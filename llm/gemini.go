package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"kindminds/chat-core/types"
)

const geminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

var geminiHTTP = &http.Client{Timeout: 30 * time.Second}

// GeminiComplete generates the assistant reply for one conversation.
func GeminiComplete(systemPrompt string, messages []types.PromptMessage) (string, error) {
	prompt := buildTranscript(systemPrompt, messages)
	return geminiGenerate(prompt, 0.7, 1024)
}

// GeminiAnalyzeSentiment scores text with a low-temperature JSON-only
// prompt and clamps the result into [-1, 1].
func GeminiAnalyzeSentiment(text string) (types.SentimentResult, error) {
	prompt := sentimentPrompt + "\n\nAnalyze the sentiment of this text: " + text
	raw, err := geminiGenerate(prompt, 0.1, 150)
	if err != nil {
		return types.SentimentResult{}, err
	}
	return parseSentimentJSON(raw)
}

func geminiGenerate(prompt string, temperature float64, maxTokens int) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not set")
	}

	body := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     temperature,
			"maxOutputTokens": maxTokens,
			"topP":            0.8,
		},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", geminiURL+"?key="+apiKey, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := geminiHTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var res map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return extractGeminiText(res)
}

// extractGeminiText walks candidates[0].content.parts[0].text.
func extractGeminiText(res map[string]interface{}) (string, error) {
	candidates, ok := res["candidates"].([]interface{})
	if !ok || len(candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate, ok := candidates[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid candidate format")
	}

	content, ok := candidate["content"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("no content in candidate")
	}

	parts, ok := content["parts"].([]interface{})
	if !ok || len(parts) == 0 {
		return "", fmt.Errorf("no parts in content")
	}

	part, ok := parts[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid part format")
	}

	text, ok := part["text"].(string)
	if !ok {
		return "", fmt.Errorf("no text in part")
	}

	return text, nil
}

// parseSentimentJSON extracts the {sentiment, score} object from model
// output that may be fenced or wrapped in prose.
func parseSentimentJSON(raw string) (types.SentimentResult, error) {
	jsonStr, ok := extractJSONObject(raw)
	if !ok {
		return types.SentimentResult{}, fmt.Errorf("no JSON object in sentiment response")
	}

	var res types.SentimentResult
	if err := json.Unmarshal([]byte(jsonStr), &res); err != nil {
		return types.SentimentResult{}, fmt.Errorf("failed to parse sentiment JSON: %w", err)
	}

	res.Sentiment = strings.ToLower(res.Sentiment)
	switch res.Sentiment {
	case "positive", "negative", "neutral":
	default:
		res.Sentiment = "neutral"
		res.Score = 0
	}
	if res.Score > 1 {
		res.Score = 1
	} else if res.Score < -1 {
		res.Score = -1
	}
	return res, nil
}

// extractJSONObject returns the first balanced top-level JSON object.
func extractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		if ch == '{' {
			depth++
		} else if ch == '}' {
			depth--
			if depth == 0 {
				candidate := text[start : i+1]
				if json.Valid([]byte(candidate)) {
					return candidate, true
				}
				return "", false
			}
		}
	}
	return "", false
}
