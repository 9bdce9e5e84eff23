package jobs

import (
	"context"

	"wallfetch/internal/model"
)

// Sink receives the records of a run.
type Sink interface {
	Write(ctx context.Context, r model.Result) error
}

// Export writes found results to sink in order and returns how many were written.
func Export(ctx context.Context, results []model.Result, sink Sink) (int, error) {
	n := 0
	for _, r := range results {
		if !r.Found {
			continue
		}
		if err := sink.Write(ctx, r); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
