package main

import (
	"log"

	"go-log-analyzer/internal/api"
	"go-log-analyzer/internal/api/handler"
	"go-log-analyzer/internal/store"
	"go-log-analyzer/pkg/router"
	"go-log-analyzer/pkg/storage"

	_ "go-log-analyzer/docs"
)

// @title Log Analyzer API
// @version 1.0
// @description Parallel log analysis service with chunked map-reduce runs
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Init DB
	if err := store.InitDB("analyzer.db"); err != nil {
		panic(err)
	}

	// Report archive survives restarts
	archive, err := storage.NewBoltBackend("reports.db")
	if err != nil {
		log.Fatalf("failed to open report archive: %v", err)
	}
	defer archive.Close()

	handler.Init(archive)

	// Create router
	r := router.New()

	// Register API routes
	api.RegisterRoutes(r)

	// Start server
	r.Start(":8080")
}
