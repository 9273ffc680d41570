package handlers

import (
	"encoding/json"
	"net/http"

	"kindminds/chat-core/config"
	"kindminds/chat-core/llm"
	"kindminds/chat-core/types"
)

// API serves the inference endpoints the chat client calls.
type API struct {
	Model    llm.Model
	complete func(llm.Model, string, []types.PromptMessage) (string, error)
	analyze  func(llm.Model, string) (types.SentimentResult, error)
}

func NewAPI() *API {
	return &API{
		Model:    llm.DefaultModel(),
		complete: llm.Complete,
		analyze:  llm.AnalyzeSentiment,
	}
}

// ChatHandler handles POST /api/chat: category system prompt, optional
// sentiment suggestion block, provider call, and LaTeX post-processing
// for academic replies.
func (a *API) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req types.CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, "Missing messages", http.StatusBadRequest)
		return
	}

	systemPrompt := llm.SystemPrompt(req.ChatType) + llm.SentimentSuggestion(req.Sentiment)

	response, err := a.complete(a.Model, systemPrompt, req.Messages)
	if err != nil {
		config.Logger.Error("Completion failed:", err)
		writeError(w, "Failed to generate response", http.StatusInternalServerError)
		return
	}

	if req.ChatType == types.TabAcademic {
		response = llm.ConvertMathToLaTeX(response)
	}

	writeJSON(w, http.StatusOK, types.CompletionResponse{Response: response})
}
