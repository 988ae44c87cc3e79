package pipeline

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/tdalton7/earnex/internal/config"
)

// Coordinator fans a batch of documents out across a bounded set of
// workers. The worker bound limits in-flight strategy runs; the tier
// pools further limit oracle concurrency within that.
type Coordinator struct {
	strategy   *Strategy
	maxWorkers int
	log        *slog.Logger
}

// NewCoordinator wires the pools, retry policy and strategy from
// configuration.
func NewCoordinator(cfg config.Config, oc Oracle, log *slog.Logger) *Coordinator {
	cheap := NewPool(cfg.CheapPoolSize, 0)
	vision := NewPool(cfg.VisionPoolSize, cfg.VisionCooldown)
	retry := Retry{
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
		JitterMax:   cfg.RetryJitterMax,
	}
	strategy := NewStrategy(oc, cheap, vision, retry, StrategyConfig{
		MinTextChars:  cfg.MinTextChars,
		MinFieldCount: cfg.MinFieldCount,
	}, log)

	return &Coordinator{
		strategy:   strategy,
		maxWorkers: cfg.BatchWorkers,
		log:        log,
	}
}

// NewCoordinatorWithStrategy builds a coordinator around an existing
// strategy (for tests).
func NewCoordinatorWithStrategy(strategy *Strategy, maxWorkers int, log *slog.Logger) *Coordinator {
	return &Coordinator{strategy: strategy, maxWorkers: maxWorkers, log: log}
}

// ExtractBatch runs the strategy for every document and returns one
// entry per input, in input order, regardless of completion order. A
// single document's failure never cancels its siblings; the batch
// resolves once every entry does.
func (c *Coordinator) ExtractBatch(ctx context.Context, docs []Document, maxWorkers int) BatchOutcome {
	if maxWorkers <= 0 {
		maxWorkers = c.maxWorkers
	}
	if maxWorkers <= 0 {
		maxWorkers = 3
	}
	if maxWorkers > len(docs) {
		maxWorkers = len(docs)
	}

	outcome := make(BatchOutcome, len(docs))
	var next atomic.Int64

	g := new(errgroup.Group)
	for w := 0; w < maxWorkers; w++ {
		g.Go(func() error {
			for {
				i := int(next.Add(1)) - 1
				if i >= len(docs) {
					return nil
				}
				outcome[i] = c.strategy.Run(ctx, docs[i])
			}
		})
	}
	g.Wait()

	ok := 0
	for _, r := range outcome {
		if r.Err == nil {
			ok++
		}
	}
	c.log.Info("batch complete", "documents", len(docs), "succeeded", ok)
	return outcome
}
