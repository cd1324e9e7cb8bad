// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"shoplite-agent/internal/config"
	"shoplite-agent/internal/remote"
	"shoplite-agent/internal/router"
	"shoplite-agent/internal/services"
	"shoplite-agent/internal/session"
	"shoplite-agent/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Open local persistence and hydrate the store
	persistence, err := store.NewSQLitePersistence(cfg.Storage.Path)
	if err != nil {
		log.Fatal("Failed to open local storage:", err)
	}

	st := store.Open(persistence, cfg.Storage.StateKey)
	defer st.Close()
	<-st.Ready()

	// Remote document store. Without AWS credentials the agent still runs
	// fully offline against an in-memory remote.
	remoteStore := openRemote(cfg)

	sess := session.New()

	// Fast path: mirror committed mutations to the remote store
	propagator := services.NewPropagator(st, remoteStore, sess)
	propCtx, stopPropagator := context.WithCancel(context.Background())
	defer stopPropagator()
	go propagator.Run(propCtx)

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r, err := router.Initialize(st, remoteStore, sess, cfg)
	if err != nil {
		log.Fatal("Failed to initialize router:", err)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	// Stop the fast path before the final state flush
	stopPropagator()
	if err := st.Flush(); err != nil {
		log.Println("Final state flush failed:", err)
	}

	log.Println("Server exited")
}

func openRemote(cfg *config.Config) remote.Store {
	if cfg.AWS.AccessKeyID == "" || cfg.AWS.SecretAccessKey == "" {
		logrus.Warn("AWS credentials not configured, using in-memory remote store")
		return remote.NewMemoryStore()
	}

	ds, err := remote.NewDynamoStore(cfg)
	if err != nil {
		logrus.WithError(err).Warn("DynamoDB unavailable, using in-memory remote store")
		return remote.NewMemoryStore()
	}
	return ds
}
