package generator

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomRowBatch(rng *rand.Rand, batchSize int) [][]string {
	batch := make([][]string, batchSize)
	for i := range batch {
		batch[i] = []string{
			fmt.Sprintf("p%d", rng.Intn(100)),
			fmt.Sprintf("p%d", rng.Intn(100)),
		}
	}
	return batch
}

func TestWorkerPoolGeneratesTargetRows(t *testing.T) {
	p := &WorkerPool{
		Headers:   []string{"C", "W"},
		Batch:     randomRowBatch,
		Workers:   3,
		BatchSize: 4,
		Target:    10,
		Seed:      7,
	}
	tbl, err := p.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "W"}, tbl.Headers)
	assert.Len(t, tbl.Rows, 10)
}

func TestWorkerPoolDeterministicSingleWorker(t *testing.T) {
	mk := func() *WorkerPool {
		return &WorkerPool{
			Headers:   []string{"C", "W"},
			Batch:     randomRowBatch,
			Workers:   1,
			BatchSize: 5,
			Target:    15,
			Seed:      42,
		}
	}
	first, err := mk().Generate(context.Background())
	require.NoError(t, err)
	second, err := mk().Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Rows, second.Rows)
}

func TestWorkerPoolCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int64
	p := &WorkerPool{
		Headers: []string{"C"},
		Batch: func(rng *rand.Rand, batchSize int) [][]string {
			atomic.AddInt64(&calls, 1)
			return randomRowBatch(rng, batchSize)
		},
		Workers:   2,
		BatchSize: 5,
		Target:    50,
	}
	tbl, err := p.Generate(ctx)
	require.NoError(t, err)
	assert.Empty(t, tbl.Rows)
	assert.Zero(t, atomic.LoadInt64(&calls))
}

func TestWorkerPoolFinishesInFlightBatchOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &WorkerPool{
		Headers: []string{"C"},
		Batch: func(rng *rand.Rand, batchSize int) [][]string {
			cancel()
			return randomRowBatch(rng, batchSize)
		},
		Workers:   1,
		BatchSize: 3,
		Target:    3,
	}
	tbl, err := p.Generate(ctx)
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 3)
}

func TestWorkerPoolRequiresBatchFunc(t *testing.T) {
	p := &WorkerPool{Target: 1}
	_, err := p.Generate(context.Background())
	assert.Error(t, err)
}
