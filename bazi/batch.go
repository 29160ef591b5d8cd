package bazi

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of one request in a batch.
type BatchResult struct {
	Request  Request   `json:"request" yaml:"request"`
	Analysis *Analysis `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Err      error     `json:"-" yaml:"-"`
	Error    string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// AnalyzeBatch analyzes requests concurrently, at most parallel at a time.
// Results keep the request order. A failed request does not stop the others;
// only cancellation of ctx does.
func AnalyzeBatch(ctx context.Context, engine *Engine, reqs []Request, parallel int) ([]BatchResult, error) {
	if parallel < 1 {
		parallel = 1
	}
	results := make([]BatchResult, len(reqs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			a, err := engine.Analyze(req)
			results[i] = BatchResult{Request: req, Analysis: a, Err: err}
			if err != nil {
				results[i].Error = err.Error()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
