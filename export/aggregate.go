package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ayyaapp/ayya/metrics"
	"github.com/ayyaapp/ayya/store/types"
	"github.com/hashicorp/go-multierror"
	"github.com/yaoapp/kun/log"
	"golang.org/x/sync/errgroup"
)

// Aggregator reads the fixed collection list from the store into a bundle
type Aggregator struct {
	Store       types.Store
	Collections []string
	Concurrency int           // Collections queried at once, below 1 means one at a time
	Timeout     time.Duration // Per collection, 0 means no limit
}

// NewAggregator create an aggregator querying the collections one at a time
func NewAggregator(store types.Store, collections []string) *Aggregator {
	return &Aggregator{
		Store:       store,
		Collections: append([]string(nil), collections...),
		Concurrency: 1,
	}
}

// Aggregate query every collection inside the range and bundle the ones with rows, in list order.
// A collection whose query fails is left out of the bundle. The bundle is never nil; the error,
// when not nil, lists the omitted collections and is informational.
func (agg *Aggregator) Aggregate(ctx context.Context, rng types.Range) (*Bundle, error) {

	results := make([][]*types.Row, len(agg.Collections))
	failures := make([]error, len(agg.Collections))

	limit := agg.Concurrency
	if limit < 1 {
		limit = 1
	}

	g := errgroup.Group{}
	g.SetLimit(limit)
	for i, name := range agg.Collections {
		g.Go(func() error {
			results[i], failures[i] = agg.query(ctx, name, rng)
			return nil
		})
	}
	g.Wait()

	bundle := NewBundle()
	var omitted *multierror.Error
	for i, name := range agg.Collections {
		if err := failures[i]; err != nil {
			reason := "error"
			if errors.Is(err, types.ErrNotFound) {
				reason = "missing"
				log.Trace("[Export] %s omitted: %s", name, err.Error())
			} else {
				log.With(log.F{"collection": name}).Warn("[Export] %s omitted: %s", name, err.Error())
			}
			metrics.CollectionsOmitted.WithLabelValues(name, reason).Inc()
			omitted = multierror.Append(omitted, fmt.Errorf("%s: %w", name, err))
			continue
		}

		metrics.CollectionRows.WithLabelValues(name).Add(float64(len(results[i])))
		bundle.Add(name, results[i])
	}

	return bundle, omitted.ErrorOrNil()
}

func (agg *Aggregator) query(ctx context.Context, name string, rng types.Range) (rows []*types.Row, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("query %s panicked: %v", name, r)
		}
	}()

	if agg.Store == nil {
		return nil, fmt.Errorf("no store")
	}

	if agg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, agg.Timeout)
		defer cancel()
	}

	return agg.Store.Query(ctx, name, rng)
}
