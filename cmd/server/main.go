package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/mathblitz/api/internal/database"
	"github.com/mathblitz/api/internal/game"
	"github.com/mathblitz/api/internal/handlers"
	"github.com/mathblitz/api/internal/middleware"
	"github.com/mathblitz/api/internal/profiles"
	"github.com/mathblitz/api/internal/store"
)

func main() {
	// Load .env if present; real deployments use the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("[API] Loaded configuration from .env")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Initialize the key-value store
	log.Println("[API] Initializing store connection...")
	storeClient, err := store.NewClient(store.LoadConfigFromEnv())
	if err != nil {
		log.Fatalf("[API] Failed to connect to store: %v", err)
	}
	defer storeClient.Close()

	// Optional submission archive
	var audit game.AuditLog
	dbConfig := database.LoadConfigFromEnv()
	if dbConfig.Enabled() {
		db, err := database.NewConnection(dbConfig)
		if err != nil {
			log.Fatalf("[API] Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.InitSchema(); err != nil {
			log.Fatalf("[API] Failed to initialize schema: %v", err)
		}
		audit = db
	} else {
		log.Println("[API] Submission archive disabled (no DB_HOST)")
	}

	// Optional profile directory for avatars
	directory := profiles.NewClient(profiles.LoadConfigFromEnv())
	if directory == nil {
		log.Println("[API] Profile directory disabled (no PROFILE_API_URL)")
	}

	issuer := game.NewIssuer(storeClient)
	validator := game.NewValidator(storeClient, storeClient, audit)
	reader := game.NewReader(storeClient, readerDirectory(directory))

	sessionHandler := handlers.NewSessionHandler(issuer)
	submitHandler := handlers.NewSubmitHandler(validator)
	leaderboardHandler := handlers.NewLeaderboardHandler(reader)
	debugHandler := handlers.NewDebugHandler(storeClient)

	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/session", sessionHandler.Create).Methods(http.MethodPost)
	router.HandleFunc("/api/submit", submitHandler.Submit).Methods(http.MethodPost)
	router.HandleFunc("/api/leaderboard", leaderboardHandler.GetLeaderboard).Methods(http.MethodGet)
	router.HandleFunc("/api/debug", debugHandler.Ping).Methods(http.MethodGet)

	// Bearer tokens are optional; when MINIAPP_JWT_SECRET is unset the
	// service trusts the claimed identity (the HMAC protocol still holds).
	jwtSecret := []byte(os.Getenv("MINIAPP_JWT_SECRET"))
	if len(jwtSecret) == 0 {
		log.Println("[API] Mini-app bearer auth disabled (no MINIAPP_JWT_SECRET)")
	}
	handler := corsMiddleware(middleware.MiniAppAuth(jwtSecret, router))

	log.Printf("[API] Starting server on port %s...", port)
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("[API] Server failed: %v", err)
	}
}

// readerDirectory avoids handing the reader a non-nil interface wrapping a
// nil *profiles.Client.
func readerDirectory(client *profiles.Client) game.ProfileDirectory {
	if client == nil {
		return nil
	}
	return client
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
