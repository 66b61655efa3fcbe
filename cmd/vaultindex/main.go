package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/vaultindex/vaultindex/internal/api"
	"github.com/vaultindex/vaultindex/internal/config"
	"github.com/vaultindex/vaultindex/internal/db"
	"github.com/vaultindex/vaultindex/internal/jobs"
	"github.com/vaultindex/vaultindex/internal/repository"
	"github.com/vaultindex/vaultindex/internal/scanner"
	"github.com/vaultindex/vaultindex/internal/scheduler"
	"github.com/vaultindex/vaultindex/internal/version"
	"github.com/google/uuid"
)

const bannerArt = `
 __      __         _ _   _____         _
 \ \    / /        | | | |_   _|       | |
  \ \  / /_ _ _   _| | |_  | |  _ __   __| | _____  __
   \ \/ / _' | | | | | __| | | | '_ \ / _' |/ _ \ \/ /
    \  / (_| | |_| | | |_ _| |_| | | | (_| |  __/>  <
     \/ \__,_|\__,_|_|\__|_____|_| |_|\__,_|\___/_/\_\
`

func main() {
	v := version.Load()
	fmt.Println(bannerArt)
	fmt.Printf("  VaultIndex %s\n\n", v.Version)

	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database, "migrations"); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	cfg.MergeFromDB(database)

	indexRepo := repository.NewIndexRepository(database)
	itemRepo := repository.NewVideoItemRepository(database)
	versionRepo := repository.NewVideoVersionRepository(database)
	partRepo := repository.NewVideoPartRepository(database)

	jobQueue := jobs.NewQueue(cfg.RedisAddr)

	sc := scanner.New(database, indexRepo, cfg.ScanPollInterval)

	jobQueue.RegisterWakeHandler(func(ctx context.Context, indexID string) error {
		// The wake task carries no work of its own: this handler only logs
		// it. RunLoop is not signalled and still finds the queued index on
		// its next poll, up to ScanPollInterval later.
		log.Printf("jobs: scan wake received for index %s", indexID)
		return nil
	})

	go func() {
		if err := jobQueue.Start(context.Background()); err != nil {
			log.Printf("jobs: queue worker stopped: %v", err)
		}
	}()
	defer jobQueue.Stop()

	scanCtx, cancelScan := context.WithCancel(context.Background())
	go sc.RunLoop(scanCtx)
	defer cancelScan()

	sched, err := scheduler.New(indexRepo, func(indexID uuid.UUID) {
		if err := indexRepo.EnqueueScan(indexID); err != nil {
			log.Printf("scheduler: enqueue scan for %s: %v", indexID, err)
			return
		}
		if err := jobQueue.EnqueueScanWake(indexID.String()); err != nil {
			log.Printf("scheduler: wake signal for %s: %v", indexID, err)
		}
	}, "@every 1m")
	if err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	server := api.NewServer(cfg, indexRepo, itemRepo, versionRepo, partRepo, sc, jobQueue)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("server starting on http://0.0.0.0%s", addr)
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
