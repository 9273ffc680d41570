package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"kindminds/chat-core/config"
	"kindminds/chat-core/llm"
	"kindminds/chat-core/types"
)

// SentimentHandler handles POST /api/tools/sentiment. Empty text is
// neutral; a provider failure falls back to the lexicon scorer so the
// endpoint itself stays available.
func (a *API) SentimentHandler(w http.ResponseWriter, r *http.Request) {
	var req types.SentimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeJSON(w, http.StatusOK, types.SentimentResult{Sentiment: "neutral", Score: 0})
		return
	}

	result, err := a.analyze(a.Model, text)
	if err != nil {
		config.Logger.Warn("Model sentiment scoring failed, using heuristic:", err)
		result = llm.HeuristicSentiment(text)
	}

	writeJSON(w, http.StatusOK, result)
}
