package store

import (
	"context"
	"fmt"
	"io"

	"github.com/ayyaapp/ayya/config"
	"github.com/ayyaapp/ayya/store/memory"
	"github.com/ayyaapp/ayya/store/postgres"
	"github.com/ayyaapp/ayya/store/supabase"
	"github.com/ayyaapp/ayya/store/types"
	"github.com/yaoapp/kun/log"
)

// Open open the record store selected by the config
func Open(ctx context.Context, cfg config.Store) (types.Store, error) {

	log.Trace("[Store] open %s", cfg.Driver)
	switch cfg.Driver {
	case "supabase":
		s, err := supabase.New(supabase.Option{
			URL:      cfg.SupabaseURL,
			Key:      cfg.SupabaseKey,
			Column:   cfg.CreatedColumn,
			OrderKey: cfg.OrderKey,
			PageSize: cfg.PageSize,
			Timeout:  cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return s, nil

	case "postgres":
		db, err := postgres.Connect(ctx, cfg.DSN, cfg.MaxConns)
		if err != nil {
			return nil, err
		}
		return postgres.New(db, cfg.CreatedColumn), nil

	case "file":
		mem, err := memory.Open(cfg.File, cfg.CreatedColumn)
		if err != nil {
			return nil, err
		}
		return mem, nil
	}

	return nil, fmt.Errorf("store driver %s is not supported", cfg.Driver)
}

// Close release the connections the store holds
func Close(store types.Store) error {
	if closer, ok := store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
