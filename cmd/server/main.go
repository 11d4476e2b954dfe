package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/linguareader/backend/internal/auth"
	"github.com/linguareader/backend/internal/content"
	"github.com/linguareader/backend/internal/database"
	"github.com/linguareader/backend/internal/generator"
	"github.com/linguareader/backend/internal/middleware"
	"github.com/linguareader/backend/internal/progress"
	"github.com/linguareader/backend/internal/stats"
	"github.com/rs/cors"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize services
	gen := generator.NewGenerator()

	contentStore := content.NewStore(db)
	contentService := content.NewService(contentStore, gen)

	statsStore := stats.NewStore(db)
	statsService := stats.NewService(statsStore)

	progressStore := progress.NewStore(db)
	progressService := progress.NewService(progressStore)
	progressService.SetStatsService(statsService)

	// Initialize handlers
	authHandler := auth.NewHandler(db)
	contentHandler := content.NewHandler(contentService)
	progressHandler := progress.NewHandler(progressService)
	statsHandler := stats.NewHandler(statsService)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")
	contentHandler.RegisterRoutes(protected)
	progressHandler.RegisterRoutes(protected)
	statsHandler.RegisterRoutes(protected)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
