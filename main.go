package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"live-class-server/pkg/api"
	"live-class-server/pkg/connections"
	"live-class-server/pkg/db"
	"live-class-server/pkg/hub"
	"live-class-server/pkg/types"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}
	setupLogger()

	ctx := context.Background()
	store, err := db.Connect(ctx)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Init(ctx); err != nil {
		slog.Warn("schema initialization failed", "error", err)
	}

	h := hub.New()

	http.HandleFunc("/ws", connections.HandleInitConnection(h))
	http.HandleFunc("POST /api/login", api.LoginHandler(store))
	http.HandleFunc("GET /api/courses/{studentId}", api.CoursesHandler(store))
	http.HandleFunc("GET /health", healthHandler)
	http.HandleFunc("GET /stats", statsHandler(h))

	publicDir := os.Getenv("PUBLIC_DIR")
	if publicDir == "" {
		publicDir = "public"
	}
	// The login page lives at the extensionless /login, which a bare
	// FileServer would 404.
	http.HandleFunc("GET /login", loginPageHandler(publicDir))
	http.Handle("/", http.FileServer(http.Dir(publicDir)))

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	slog.Info("server listening", "port", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func setupLogger() {
	level := slog.LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func loginPageHandler(publicDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(publicDir, "login.html"))
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func statsHandler(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participants := h.Participants()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"room":         types.DefaultRoom,
			"participants": len(participants),
		})
	}
}
