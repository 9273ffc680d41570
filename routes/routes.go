package routes

import (
	"net/http"

	"kindminds/chat-core/handlers"
)

// RegisterRoutes wires the inference service surface onto the mux.
func RegisterRoutes(mux *http.ServeMux, api *handlers.API) {
	mux.HandleFunc("POST /api/chat", api.ChatHandler)
	mux.HandleFunc("POST /api/tools/sentiment", api.SentimentHandler)
}
