package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"outlay/internal/api"
	"outlay/internal/config"
	"outlay/internal/database"
	"outlay/internal/database/repository"
	"outlay/internal/expense"
	"outlay/internal/service"
	"outlay/internal/session"
	"outlay/internal/tokenstore"
	"outlay/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// the cache is advisory; a broken local db should not keep the app
	// from talking to the server
	cache := openCache(ctx, cfg)

	tokens := tokenstore.New()
	sess := session.New(tokens)
	client := api.NewClient(cfg.API.BaseURL, sess, cfg.API.Timeout)

	store := expense.NewStore()
	sync := &service.SyncService{API: client, Store: store, Cache: cache}
	writer := &service.ExpenseWriter{API: client, Store: store, Cache: cache}

	p := tea.NewProgram(tui.New(ctx, cfg, sess, tokens, client, store, sync, writer), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func openCache(ctx context.Context, cfg config.Config) *repository.ExpenseRepo {
	if err := os.MkdirAll(filepath.Dir(cfg.Cache.Path), 0o755); err != nil {
		log.Printf("warn: cache disabled, mkdir: %v", err)
		return nil
	}
	if err := database.RunMigrations(cfg.Cache.Path, "internal/database/migrations"); err != nil {
		log.Printf("warn: cache disabled, migrate: %v", err)
		return nil
	}
	db, err := database.Open(cfg.Cache.Path)
	if err != nil {
		log.Printf("warn: cache disabled, open: %v", err)
		return nil
	}
	if err := db.PingContext(ctx); err != nil {
		log.Printf("warn: cache disabled, ping: %v", err)
		return nil
	}
	return repository.NewExpenseRepo(db)
}
