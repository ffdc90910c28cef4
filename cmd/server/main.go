// cmd/server/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phrasehunt/phrasehunt-server/config"
	"github.com/phrasehunt/phrasehunt-server/internal/database"
	"github.com/phrasehunt/phrasehunt-server/internal/logger"
	"github.com/phrasehunt/phrasehunt-server/internal/services"
)

// The phrase engine core: bootstraps the schema, seeds the system
// phrase pool and keeps leaderboard snapshots fresh. The transport
// layer (HTTP/WebSocket) lives in a separate process and consumes the
// services wired up here.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.GlobalLogLevel = logger.ParseLevel(cfg.Log.Level)
	lg := logger.New()

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	lg.Info(fmt.Sprintf("Database ready at %s", cfg.Database.Path))

	phraseService := services.NewPhraseService(db)
	completionService := services.NewCompletionService(db)
	leaderboardService := services.NewLeaderboardService(db)
	leaderboardService.SetDefaultLimit(cfg.Leaderboard.Size)

	if cfg.Game.SeedPhrases {
		if err := phraseService.SeedDefaultPhrases(cfg.Game.DefaultLanguage); err != nil {
			log.Fatalf("Failed to seed phrases: %v", err)
		}
		lg.Info("System phrase pool seeded")
	}

	if cfg.Leaderboard.RefreshOnComplete {
		completionService.SetRefresher(leaderboardService)
		lg.Info("Leaderboards refresh synchronously on completion")
	}

	interval := time.Duration(cfg.Leaderboard.RefreshIntervalSec) * time.Second
	refresher := services.NewRefresher(leaderboardService, interval)
	refresher.Start()
	lg.Info(fmt.Sprintf("Leaderboard refresher running every %s", interval))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("Shutting down")
	refresher.Stop()
}
