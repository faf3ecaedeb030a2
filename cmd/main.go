package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roamark/roamark_api/config"
	"github.com/roamark/roamark_api/internal/db"
	deps "github.com/roamark/roamark_api/internal/debs"
	api "github.com/roamark/roamark_api/internal/http/rest"
)

const (
	allowConnectionsAfterShutdown = 1 * time.Second
)

func main() {
	cfg := config.New()

	if cfg.MigrateOnStart {
		if err := db.RunMigrations(cfg.Dsn); err != nil {
			log.Panicln("failed to run migrations", "error", err)
		}
	}

	deps := deps.New(cfg)

	a := &api.API{
		Config: cfg,
		Deps:   deps,
		DB:     deps.Pool(),
	}
	a.Init()
	go deps.WebSocket.Run()
	go func() {
		log.Printf("Server running on port %v ...", cfg.Port)
		log.Fatal(a.Serve())
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stopChan

	log.Println("Request to shutdown server. Doing nothing for ", allowConnectionsAfterShutdown)
	waitTimer := time.NewTimer(allowConnectionsAfterShutdown)
	<-waitTimer.C

	log.Println("Shutting down server...")

	if err := a.Shutdown(); err != nil {
		log.Println("server shutdown error", err)
	}

	deps.DB.Close()
	log.Println("Database connections closed.")
}
