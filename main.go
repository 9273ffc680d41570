package main

import (
	"net/http"

	"kindminds/chat-core/config"
	"kindminds/chat-core/handlers"
	"kindminds/chat-core/middleware"
	"kindminds/chat-core/routes"
)

func main() {
	config.LoadEnv()
	config.InitLogger()

	mux := http.NewServeMux()
	routes.RegisterRoutes(mux, handlers.NewAPI())

	handler := middleware.Chain(
		middleware.CORSMiddleware,
		middleware.LoggingMiddleware,
	)(mux)

	port := config.Getenv("PORT", "8000")
	config.Logger.Info("Inference API listening on port ", port)
	config.Logger.Fatal(http.ListenAndServe(":"+port, handler))
}
