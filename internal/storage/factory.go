// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/havenplan/layout/internal/config"
	"github.com/havenplan/layout/internal/database"
	"github.com/havenplan/layout/internal/storage/gormstore"
	"github.com/havenplan/layout/internal/storage/memory"
	"github.com/havenplan/layout/internal/storage/websocket"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		db, err := database.GetPostgresDB()
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		return gormstore.New(db), nil
	case "sqlite":
		path := cfg.SQLite.Path
		if cfg.SQLite.InMemory {
			path = ""
		}
		db, err := database.GetSqliteDB(path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		return gormstore.New(db), nil
	case "websocket":
		return websocket.New(websocket.Config{
			URL:    cfg.Websocket.URL,
			Secret: cfg.Websocket.Secret,
		}), nil
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
