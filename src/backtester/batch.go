package backtester

import (
	"context"
	"fmt"
	"sync"

	"github.com/jiaming2012/mean-reversion-trader/src/logger"
	"github.com/jiaming2012/mean-reversion-trader/src/models"
	"github.com/jiaming2012/mean-reversion-trader/src/strategy"
)

type Job struct {
	Symbol  string
	Candles models.Candles
	Config  strategy.Config
}

type BatchResult struct {
	Symbol string
	Result *models.BacktestResult
	Err    error
}

// RunBatch runs independent backtests on up to maxWorkers goroutines. Every job gets its
// own engine and strategy. Results keep the order of jobs; jobs not started before ctx
// is done carry ctx.Err().
func RunBatch(ctx context.Context, jobs []Job, maxWorkers int) []BatchResult {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	results := make([]BatchResult, len(jobs))
	queue := make(chan int)
	wg := sync.WaitGroup{}

	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				results[idx] = runJob(jobs[idx])
			}
		}()
	}

	for idx := range jobs {
		select {
		case <-ctx.Done():
			results[idx] = BatchResult{Symbol: jobs[idx].Symbol, Err: ctx.Err()}
			continue
		default:
		}

		select {
		case queue <- idx:
		case <-ctx.Done():
			results[idx] = BatchResult{Symbol: jobs[idx].Symbol, Err: ctx.Err()}
		}
	}

	close(queue)
	wg.Wait()

	return results
}

func runJob(job Job) BatchResult {
	engine, err := NewEngine(job.Config)
	if err != nil {
		return BatchResult{Symbol: job.Symbol, Err: fmt.Errorf("job %s: %w", job.Symbol, err)}
	}

	entry := logger.NewEntry("batch").WithField("symbol", job.Symbol)

	result, err := engine.Run(job.Symbol, job.Candles)
	if err != nil {
		entry.Errorf("job failed: %v", err)
		return BatchResult{Symbol: job.Symbol, Err: err}
	}

	entry.Debugf("job done: %d trades", len(result.Trades))

	return BatchResult{Symbol: job.Symbol, Result: result}
}
