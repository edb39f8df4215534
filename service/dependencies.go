package service

import (
	"context"
	"net/http"
	"time"

	"github.com/ayyaapp/ayya/auth"
	"github.com/ayyaapp/ayya/config"
	"github.com/ayyaapp/ayya/excel"
	"github.com/ayyaapp/ayya/export"
	"github.com/ayyaapp/ayya/metrics"
	"github.com/ayyaapp/ayya/network"
	"github.com/ayyaapp/ayya/share"
	"github.com/ayyaapp/ayya/store"
	"github.com/ayyaapp/ayya/store/types"
	"github.com/yaoapp/kun/log"
)

// Dependencies the collaborators behind the routes
type Dependencies struct {
	Admin      *auth.Admin        // Login and logout, nil disables both
	Authorizer auth.Authorizer    // Guards the admin routes, nil rejects every request
	Aggregator *export.Aggregator // Reads the bundle
	Builder    *excel.Builder     // Builds workbooks
	Location   *time.Location     // Export range days, nil means UTC
	Metrics    http.Handler       // Defaults to the Prometheus registry
	Now        func() time.Time   // Defaults to time.Now
	Store      types.Store
}

// Load wire the dependencies from the config
func Load(ctx context.Context, cfg config.Config) (*Dependencies, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	records, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	aggregator := export.NewAggregator(records, share.Collections())
	aggregator.Concurrency = cfg.Export.QueryConcurrency
	aggregator.Timeout = cfg.Store.Timeout

	builder := excel.NewBuilder(network.NewImageFetcher(network.Option{
		Timeout:  cfg.Export.FetchTimeout,
		MaxBytes: cfg.Export.MaxImageBytes,
		Hosts:    cfg.Export.ImageHosts,
	}))
	builder.Cap = cfg.Export.ImageCap
	builder.Size = cfg.Export.ImageSize
	builder.Concurrency = cfg.Export.FetchConcurrency

	admin := auth.NewAdmin(cfg.Admin)
	if !admin.Configured() {
		log.Warn("[Admin] admin email or password is not set, admin requests will be rejected")
	}

	return &Dependencies{
		Admin:      admin,
		Authorizer: admin,
		Aggregator: aggregator,
		Builder:    builder,
		Location:   loc,
		Store:      records,
	}, nil
}

// Close release the store
func (deps *Dependencies) Close() error {
	return store.Close(deps.Store)
}

func (deps *Dependencies) metrics() http.Handler {
	if deps.Metrics != nil {
		return deps.Metrics
	}
	return metrics.Handler()
}

func (deps *Dependencies) now() time.Time {
	if deps.Now != nil {
		return deps.Now()
	}
	return time.Now()
}
