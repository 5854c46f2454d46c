package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/globizsReact/dmu-journal-sub000/internal/auth"
	"github.com/globizsReact/dmu-journal-sub000/internal/events"
	"github.com/globizsReact/dmu-journal-sub000/internal/journals"
	"github.com/globizsReact/dmu-journal-sub000/internal/manuscripts"
	"github.com/globizsReact/dmu-journal-sub000/internal/reviews"
	"github.com/globizsReact/dmu-journal-sub000/pkg/database"
	"github.com/globizsReact/dmu-journal-sub000/pkg/utils"
)

func main() {
	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// lifecycle event feed
	hub := events.NewHub()
	router.GET("/ws", events.WSHandler(hub))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"ws_clients": stats.WSClients,
		})
	})

	// Journal catalog (public)
	journalRepo := journals.NewRepo(db)
	journalHandler := journals.NewHandler(journalRepo)
	journalHandler.RegisterRoutes(router.Group("/journals"))

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	authRequired := auth.AuthMiddleware(tokenSvc, authRepo)

	// Protected routes
	protected := router.Group("/users")
	protected.Use(authRequired)

	protected.GET("/me", func(c *gin.Context) {
		ident, _ := auth.GetIdentity(c)
		c.JSON(http.StatusOK, ident)
	})

	// Manuscript lifecycle (protected)
	manuscriptRepo := manuscripts.NewRepo(db)
	manuscriptSvc := manuscripts.NewService(manuscriptRepo, journalRepo, hub)
	manuscriptHandler := manuscripts.NewHandler(manuscriptSvc)

	manuscriptGroup := router.Group("/manuscripts")
	manuscriptGroup.Use(authRequired)
	manuscriptHandler.RegisterRoutes(manuscriptGroup)

	// Review comments ride on the manuscripts group
	reviewRepo := reviews.NewRepo(db)
	reviewHandler := reviews.NewHandler(reviewRepo, manuscriptSvc)
	reviewHandler.RegisterRoutes(manuscriptGroup)

	// Admin-only
	admin := router.Group("/admin")
	admin.Use(authRequired, auth.RequireAdmin())
	authHandler.RegisterAdminRoutes(admin)

	adminJournals := router.Group("/journals")
	adminJournals.Use(authRequired, auth.RequireAdmin())
	journalHandler.RegisterAdminRoutes(adminJournals)

	httpSrv := &http.Server{
		Addr:    ":8080",
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Println("HTTP API server listening on :8080")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}
