package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"max.ks1230/finance-manager/internal/clients/console"
	"max.ks1230/finance-manager/internal/config"
	"max.ks1230/finance-manager/internal/model/auth"
	"max.ks1230/finance-manager/internal/model/backup"
	"max.ks1230/finance-manager/internal/model/budgets"
	"max.ks1230/finance-manager/internal/model/ledger"
	"max.ks1230/finance-manager/internal/model/menu"
	"max.ks1230/finance-manager/internal/model/reports"
	"max.ks1230/finance-manager/internal/model/storage"
)

func main() {
	_ = godotenv.Load()

	conf, err := config.New()
	if err != nil {
		log.Fatal("failed to init config:", err)
	}

	store, err := newStorage(conf)
	if err != nil {
		log.Fatal("failed to init storage:", err)
	}
	defer func() {
		_ = store.Close()
	}()

	authService := auth.NewService(store)
	budgetService := budgets.NewService(store)
	ledgerService := ledger.NewService(store, budgetService)
	generator := reports.NewGenerator(ledgerService)
	backupService := backup.NewService(ledgerService, budgetService, store)

	menuService := menu.NewService(console.New(),
		authService, ledgerService, budgetService, generator, backupService)

	if err = menuService.Run(context.Background()); err != nil {
		log.Fatal("menu loop:", err)
	}
}

func newStorage(conf *config.Service) (*storage.Storage, error) {
	if conf.App().Storage() == "postgres" {
		return storage.NewPostgresStorage(conf.Postgres())
	}
	return storage.NewSQLiteStorage(conf.SQLite())
}
