// Package storage picks the deck store named by the configuration.
package storage

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/youruser/cahdeck/internal/config"
	"github.com/youruser/cahdeck/internal/sqlite"
	"github.com/youruser/cahdeck/internal/store"
	"github.com/youruser/cahdeck/internal/util"
)

func Open(cfg config.StoreConfig, logger *zap.Logger) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverFile:
		return store.NewFileStore(cfg.DecksDir, logger)
	case config.DriverSQLite, "":
		if err := util.EnsureParentDir(cfg.DBPath); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
		db, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return sqlite.NewDeckRepository(db), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
