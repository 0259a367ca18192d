// Package generator defines the contract for the upstream stage that
// produces the candidate lineup pool, plus an in-memory reference
// implementation. The selection engine never runs generation itself; it
// consumes the materialized table a PoolSource hands back.
package generator

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mikehipps/simple-dfs/internal/csvtable"
	"github.com/mikehipps/simple-dfs/pkg/logger"
)

// PoolSource produces a candidate lineup pool. The returned table is
// either exhaustive for the source or explicitly truncated: when ctx is
// cancelled mid-run, generation stops after completing in-flight
// batches and returns whatever accumulated, without error.
type PoolSource interface {
	Generate(ctx context.Context) (*csvtable.Table, error)
}

// BatchFunc produces one batch of pool rows. Implementations must be
// safe for concurrent use; rng is owned by the calling worker.
type BatchFunc func(rng *rand.Rand, batchSize int) [][]string

// WorkerPool is the reference PoolSource: a fixed set of workers pull
// fixed-size batch jobs from a shared queue and append results under a
// lock, polling for cancellation between batches.
type WorkerPool struct {
	Headers   []string
	Batch     BatchFunc
	Workers   int
	BatchSize int
	Target    int
	Seed      int64
}

// Generate runs the worker pool until Target rows accumulate or ctx is
// cancelled.
func (p *WorkerPool) Generate(ctx context.Context) (*csvtable.Table, error) {
	if p.Batch == nil {
		return nil, fmt.Errorf("generator requires a batch function")
	}
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	batchSize := p.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}
	numBatches := (p.Target + batchSize - 1) / batchSize

	log := logger.WithComponent("generator")
	log.WithFields(logrus.Fields{
		"workers":    workers,
		"batch_size": batchSize,
		"target":     p.Target,
	}).Debug("Starting pool generation")

	jobs := make(chan int)
	var mu sync.Mutex
	rows := make([][]string, 0, p.Target)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(p.Seed + int64(workerID)))
			for range jobs {
				batch := p.Batch(rng, batchSize)
				mu.Lock()
				rows = append(rows, batch...)
				mu.Unlock()
			}
		}(w)
	}

	// Feed batch jobs, checking for cancellation between batches. A
	// worker already holding a job finishes it; nothing in flight is
	// discarded.
	cancelled := false
feed:
	for b := 0; b < numBatches; b++ {
		select {
		case <-ctx.Done():
			cancelled = true
			break feed
		default:
		}
		select {
		case <-ctx.Done():
			cancelled = true
			break feed
		case jobs <- b:
		}
	}
	close(jobs)
	wg.Wait()

	if len(rows) > p.Target {
		rows = rows[:p.Target]
	}
	log.WithFields(logrus.Fields{
		"rows":      len(rows),
		"cancelled": cancelled,
	}).Debug("Pool generation finished")
	return &csvtable.Table{Headers: p.Headers, Rows: rows}, nil
}
