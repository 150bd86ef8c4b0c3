package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	domain "gohousehold/domain/household"
	"gohousehold/internal/config"
	"gohousehold/internal/household"
	"gohousehold/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	schema, err := domain.LoadSchema(appConfig.Data.SchemaFile)
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}

	cache := household.NewCache(appConfig.Data.File, schema)
	if _, err := cache.Shaper(); err != nil {
		// The dashboard still starts and reports the failure on every page
		log.Printf("[Main] Warning: initial load of %s failed: %v", appConfig.Data.File, err)
	}

	server, err := ui.NewServer(appConfig, cache, ui.Assets)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	case sig := <-sigChan:
		log.Printf("[Main] Received %s", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("[Main] Shutdown error: %v", err)
		}
	}
}
