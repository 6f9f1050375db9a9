package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/heimdex/heimdex-editor/internal/api"
	"github.com/heimdex/heimdex-editor/internal/catalog"
	"github.com/heimdex/heimdex-editor/internal/config"
	"github.com/heimdex/heimdex-editor/internal/db"
	"github.com/heimdex/heimdex-editor/internal/editor"
	"github.com/heimdex/heimdex-editor/internal/export"
	"github.com/heimdex/heimdex-editor/internal/logging"
	"github.com/heimdex/heimdex-editor/internal/playback"
	"github.com/heimdex/heimdex-editor/internal/ui"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	for _, dir := range []string{cfg.DataDir(), cfg.MediaDir(), cfg.ExportDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting heimdex editor",
		"version", config.Version,
		"data_dir", logging.SanitizePath(cfg.DataDir()),
		"max_upload", humanize.Bytes(uint64(cfg.MaxUploadBytes())),
	)

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := catalog.NewRepository(database.Conn())

	authToken, err := ensureAuthToken(repo)
	if err != nil {
		return fmt.Errorf("failed to ensure auth token: %w", err)
	}

	store, err := catalog.NewStore(repo, cfg.MediaDir(), cfg.MaxUploadBytes(), logger)
	if err != nil {
		return fmt.Errorf("failed to open media store: %w", err)
	}

	// Sessions live in memory, so uploads left over from a previous run have
	// no owner.
	orphans, err := database.PurgeOrphanAssets(context.Background())
	if err != nil {
		return fmt.Errorf("failed to purge orphan media: %w", err)
	}
	if len(orphans) > 0 {
		removed := store.RemoveFiles(orphans)
		logger.Info("purged orphan media", "assets", len(orphans), "files_removed", removed)
	}

	apiURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Port())
	fmt.Println()
	fmt.Printf("  Heimdex Editor %s\n", config.Version)
	fmt.Printf("  API URL:    %s\n", apiURL)
	fmt.Printf("  Auth Token: %s\n", authToken)
	fmt.Println()

	manager := editor.NewManager(store, logging.WithComponent(logger, "editor"))
	defer manager.Close()

	driver := playback.NewDriver(manager, cfg.TickInterval(), logging.WithComponent(logger, "playback"))
	exportLogger := logging.WithComponent(logger, "export")
	var renderer export.Renderer
	if ff, err := export.NewFFmpegRenderer(cfg.FFmpegPath(), cfg.RenderTimeout(), exportLogger); err != nil {
		logger.Warn("ffmpeg unavailable, mp4 exports copy the source uncut", "error", err)
		renderer = export.NewStubRenderer(exportLogger)
	} else {
		renderer = ff
	}
	exports := export.NewService(repo, store, renderer, cfg.ExportDir(), exportLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go driver.Start(ctx)

	apiServer := api.NewServer(api.ServerConfig{
		Port:           cfg.Port(),
		Manager:        manager,
		Store:          store,
		Media:          playback.NewMediaServer(store, logger),
		Exports:        exports,
		Repository:     repo,
		Driver:         driver,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Logger:         logger,
		StartTime:      startTime,
		Version:        config.Version,
	})

	quitCh := make(chan struct{})
	var quitOnce sync.Once
	quit := func() { quitOnce.Do(func() { close(quitCh) }) }

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
			quit()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			quit()
		case <-quitCh:
		}
	}()

	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		tray := ui.NewTray(ui.TrayConfig{
			Sessions: manager,
			Playback: driver,
			APIURL:   apiURL,
			Logger:   logging.WithComponent(logger, "tray"),
			OnQuit:   quit,
		})
		go tray.Run()
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func ensureAuthToken(repo catalog.Repository) (string, error) {
	ctx := context.Background()

	existing, err := repo.GetConfig(ctx, api.AuthTokenKey)
	if err == nil && existing != "" {
		return existing, nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	if err := repo.SetConfig(ctx, api.AuthTokenKey, token); err != nil {
		return "", err
	}

	return token, nil
}
