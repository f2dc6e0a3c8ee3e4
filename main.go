// Conduit backend entry point: loads configuration, connects to
// Postgres, runs migrations, wires services and handlers, and serves
// the REST API with graceful shutdown.
//
// @title Conduit API
// @version 1.0
// @description RealWorld social blogging backend.
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/jameslahm/conduit-server-rest/apperror"
	"github.com/jameslahm/conduit-server-rest/articles"
	"github.com/jameslahm/conduit-server-rest/auth"
	"github.com/jameslahm/conduit-server-rest/comments"
	"github.com/jameslahm/conduit-server-rest/config"
	"github.com/jameslahm/conduit-server-rest/db"
	"github.com/jameslahm/conduit-server-rest/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Services with manual dependency injection; handlers sit on top.
	tokens := auth.NewTokenService(cfg.Auth)

	userRepo := users.NewPostgresRepository(pool)
	userService := users.NewService(userRepo)
	userHandlers := users.NewHandlers(userService, tokens)

	articleRepo := articles.NewPostgresRepository(pool)
	articleService := articles.NewService(articleRepo, userService)
	articleHandlers := articles.NewHandlers(articleService, userService)

	commentRepo := comments.NewPostgresRepository(pool)
	commentService := comments.NewService(commentRepo, articleService)
	commentHandlers := comments.NewHandlers(commentService, userService)

	optional := auth.Authenticator(tokens, userService, auth.Optional)
	required := auth.Authenticator(tokens, userService, auth.Required)

	r := chi.NewRouter()

	// Chi requires all middleware registered before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic recovery that keeps the error envelope consistent.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Printf("Panic: %+v", rvr)
					writeError(ww, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", userHandlers.HandleRegister())
		r.Post("/users/login", userHandlers.HandleLogin())

		r.Group(func(r chi.Router) {
			r.Use(required)
			r.Get("/user", userHandlers.HandleCurrentUser())
			r.Put("/user", userHandlers.HandleUpdateUser())
		})

		// Profile routes run in optional mode: the handlers report an
		// unknown username before complaining about a missing credential.
		r.Route("/profiles/{username}", func(r chi.Router) {
			r.Use(optional)
			r.Get("/", userHandlers.HandleGetProfile())
			r.Post("/follow", userHandlers.HandleFollow())
			r.Delete("/follow", userHandlers.HandleUnfollow())
		})

		r.Route("/articles", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(optional)
				r.Get("/", articleHandlers.HandleList())
				r.Get("/{slug}", articleHandlers.HandleGet())
				r.Get("/{slug}/comments", commentHandlers.HandleList())
			})

			r.Group(func(r chi.Router) {
				r.Use(required)
				r.Get("/feed", articleHandlers.HandleFeed())
				r.Post("/", articleHandlers.HandleCreate())
				r.Put("/{slug}", articleHandlers.HandleUpdate())
				r.Delete("/{slug}", articleHandlers.HandleDelete())
				r.Post("/{slug}/favorite", articleHandlers.HandleFavorite())
				r.Delete("/{slug}/favorite", articleHandlers.HandleUnfavorite())
				r.Post("/{slug}/comments", commentHandlers.HandleCreate())
				r.Delete("/{slug}/comments/{id}", commentHandlers.HandleDelete())
			})
		})

		r.Get("/tags", articleHandlers.HandleTags())
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// writeError formats panic-recovery errors with the apperror envelope.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"errors":"internal server error"}`, http.StatusInternalServerError)
	}
}
