package services

import (
	"context"
	"fmt"

	"github.com/yourusername/reserved/models"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchSize = 100
	batchWorkers     = 4
)

// CheckInBatches checks large lists chunk by chunk, stopping early when ctx
// is cancelled. Results keep the input order.
func CheckInBatches(ctx context.Context, reg *Registry, names []string, chunkSize int) ([]models.CheckResult, error) {
	if names == nil {
		return nil, fmt.Errorf("%w: names must be a list", ErrInvalidArgument)
	}
	if chunkSize <= 0 {
		chunkSize = DefaultBatchSize
	}
	results := make([]models.CheckResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)
	for start := 0; start < len(names); start += chunkSize {
		if gctx.Err() != nil {
			break
		}
		lo, hi := start, min(start+chunkSize, len(names))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = models.CheckResult{Name: names[i], IsReserved: reg.IsReserved(names[i])}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
