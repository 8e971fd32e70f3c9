package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wellTrackAPI/handlers"
	"wellTrackAPI/internal/database"
	"wellTrackAPI/middleware"
	"wellTrackAPI/services"
)

var (
	dbPool           *pgxpool.Pool
	userService      *services.UserService
	challengeService *services.ChallengeService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	dbPool, err = database.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("Successfully connected to PostgreSQL")

	if err := database.CreateSchema(ctx, dbPool); err != nil {
		log.Fatal("Failed to create schema:", err)
	}

	userService = services.NewUserService(dbPool)
	challengeService = services.NewChallengeService(dbPool)

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	userHandler := handlers.NewUserHandler(userService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)

	r := mux.NewRouter()

	// Any request matching no (verb, path) pair gets the same 404, so a
	// known path with the wrong verb is not told apart from an unknown path.
	routeNotFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Route not found"})
	})
	r.NotFoundHandler = routeNotFound
	r.MethodNotAllowedHandler = routeNotFound

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)
	r.Use(middleware.RequestIDMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler())).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "wellTrack-api"}`))
	}).Methods("GET")

	r.Handle("/users",
		middleware.RequireFields("username")(http.HandlerFunc(userHandler.CreateUser))).Methods("POST")
	r.HandleFunc("/users", userHandler.GetUsers).Methods("GET")
	r.HandleFunc("/users/{user_id:[0-9]+}", userHandler.GetUser).Methods("GET")
	r.HandleFunc("/users/{user_id:[0-9]+}", userHandler.UpdateUser).Methods("PUT")

	r.Handle("/challenges",
		middleware.RequireFields("user_id", "description", "points")(http.HandlerFunc(challengeHandler.CreateChallenge))).Methods("POST")
	r.HandleFunc("/challenges", challengeHandler.GetChallenges).Methods("GET")
	r.Handle("/challenges/{challenge_id:[0-9]+}",
		middleware.RequireFields("user_id", "description", "points")(http.HandlerFunc(challengeHandler.UpdateChallenge))).Methods("PUT")
	r.HandleFunc("/challenges/{challenge_id:[0-9]+}", challengeHandler.DeleteChallenge).Methods("DELETE")
	r.Handle("/challenges/{challenge_id:[0-9]+}",
		middleware.RequireFields("user_id", "details")(http.HandlerFunc(challengeHandler.CompleteChallenge))).Methods("POST")
	r.HandleFunc("/challenges/{challenge_id:[0-9]+}", challengeHandler.GetChallengeCompletions).Methods("GET")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "X-Request-ID"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length", "X-Request-ID"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
