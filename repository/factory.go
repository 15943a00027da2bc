package repository

import (
	"fmt"

	"mpfm/config"
	"mpfm/db"
)

// NewStoreFromConfig builds the sidecar store selected by the configuration
// and returns it with a cleanup function for any connection it opened.
func NewStoreFromConfig(cfg *config.Config) (SidecarStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreBackend {
	case config.StoreFile, "":
		store, err := NewFileSidecarStore(cfg.SidecarDir)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case config.StoreMySQL:
		if err := db.ConnectDB(cfg); err != nil {
			return nil, nil, err
		}
		if err := db.InitDB(); err != nil {
			db.DB.Close()
			return nil, nil, err
		}
		return NewMySQLSidecarStore(), func() error { return db.DB.Close() }, nil

	case config.StoreRedis:
		if err := db.ConnectRedis(cfg); err != nil {
			return nil, nil, err
		}
		return NewRedisSidecarStore(db.RedisClient), db.CloseRedis, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
