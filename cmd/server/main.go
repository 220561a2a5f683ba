package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/rpattn/paramquery/internal/builder"
	"github.com/rpattn/paramquery/internal/config"
	"github.com/rpattn/paramquery/internal/db"
	"github.com/rpattn/paramquery/internal/domain"
	"github.com/rpattn/paramquery/internal/middleware"
	"github.com/rpattn/paramquery/internal/query"
	"github.com/rpattn/paramquery/internal/repository"
	"github.com/rpattn/paramquery/internal/schema/validator"
	"github.com/rpattn/paramquery/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, conn.Pool, cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	registry := builder.NewRegistry()
	registerBuilders(registry, cfg)

	executor := repository.NewPgExecutor(conn.Pool)
	handler := server.NewHandler(registry, executor)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	http.Handle("/", corsHandler.Handler(middleware.LoggingMiddleware(handler)))

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting query server on %s", cfg.ListenAddr)
		log.Printf("Registered builders: %v", registry.Idents())

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// registerBuilders declares the entity types this deployment serves. The
// config may tighten any builder with a whitelist keyed by its identifier.
func registerBuilders(registry *builder.Registry, cfg config.Config) {
	post := domain.NewEntityType("blog.Post", "posts", []domain.FieldDefinition{
		{Name: "title", Type: domain.FieldTypeString, Required: true},
		{Name: "author", Type: domain.FieldTypeString},
		{Name: "published", Type: domain.FieldTypeBoolean},
		{Name: "views", Type: domain.FieldTypeInteger},
		{Name: "created_at", Type: domain.FieldTypeTimestamp},
	})

	comment := domain.NewEntityType("blog.Comment", "comments", []domain.FieldDefinition{
		{Name: "post_id", Type: domain.FieldTypeInteger, Required: true},
		{Name: "author", Type: domain.FieldTypeString},
		{Name: "approved", Type: domain.FieldTypeBoolean},
	})

	postOpts := []builder.Option{
		// "search" is not a column; it becomes a case-insensitive substring
		// match on the title.
		builder.WithOverride("search", func(q query.Query, value any, rest domain.PairList) (query.Query, bool, error) {
			term, _ := value.(string)
			return q.Where("title", query.OpILike, "%"+term+"%"), false, nil
		}),
	}
	if fields, ok := cfg.Whitelists[domain.DeriveIdent("blog.Post")]; ok {
		postOpts = append(postOpts, builder.WithWhitelist(fields...))
	}

	var commentOpts []builder.Option
	if fields, ok := cfg.Whitelists[domain.DeriveIdent("blog.Comment")]; ok {
		commentOpts = append(commentOpts, builder.WithWhitelist(fields...))
	}

	for _, entity := range []domain.EntityType{post, comment} {
		if err := validator.ValidateEntityType(entity); err != nil {
			log.Fatalf("Invalid entity type: %v", err)
		}
	}

	registry.MustRegister(builder.New(post, postOpts...))
	registry.MustRegister(builder.New(comment, commentOpts...))
}
