package app

import (
	"context"
	"log/slog"
	"time"
)

// Processor handles one item and always returns an outcome.
type Processor interface {
	Process(ctx context.Context, path string) Outcome
}

// Scheduler drives items through a processor in fixed-size batches.
// Items within a batch run concurrently; batches run strictly in
// sequence with a pause between consecutive batches.
type Scheduler struct {
	batchSize int
	delay     time.Duration
	processor Processor
}

func NewScheduler(batchSize int, delay time.Duration, processor Processor) *Scheduler {
	if batchSize < 1 {
		batchSize = 1
	}

	return &Scheduler{
		batchSize: batchSize,
		delay:     delay,
		processor: processor,
	}
}

// PlanBatches partitions paths into contiguous groups of at most size
// items; the last group may be smaller.
func PlanBatches(paths []string, size int) [][]string {
	if size < 1 {
		size = 1
	}

	var batches [][]string
	for start := 0; start < len(paths); start += size {
		end := min(start+size, len(paths))
		batches = append(batches, paths[start:end])
	}
	return batches
}

// Run attempts every item exactly once and returns one outcome per
// item. A failed item never affects its batch siblings or later
// batches.
func (s *Scheduler) Run(ctx context.Context, paths []string) []Outcome {
	batches := PlanBatches(paths, s.batchSize)
	outcomes := make([]Outcome, 0, len(paths))

	for i, batch := range batches {
		slog.Info("Starting batch", "batch", i+1, "total", len(batches), "size", len(batch))

		results := make(chan Outcome, len(batch))
		for _, path := range batch {
			go func(p string) {
				results <- s.processor.Process(ctx, p)
			}(path)
		}

		for range batch {
			outcomes = append(outcomes, <-results)
		}

		if i < len(batches)-1 {
			slog.Debug("Pausing before next batch", "delay", s.delay)
			select {
			case <-ctx.Done():
				return outcomes
			case <-time.After(s.delay):
			}
		}
	}

	return outcomes
}
