package pipeline

import (
	"bytes"
	"context"
	"time"
)

// BatchItem is one document of a batch.
type BatchItem struct {
	Filename string
	Data     []byte
	Mode     Mode
}

// BatchResult is the outcome of one BatchItem.
type BatchResult struct {
	Filename string
	Output   Output
	Err      error
	Duration time.Duration
}

// RunBatch converts items with at most workers conversions in flight.
// Results come back in the order of items; a failed document does not stop
// the others.
func RunBatch(ctx context.Context, conv *Converter, items []BatchItem, workers int) []BatchResult {
	if workers <= 0 {
		workers = 1
	}
	results := make([]BatchResult, len(items))
	sem := make(chan struct{}, workers)
	done := make(chan struct{}, len(items))

	for i, item := range items {
		sem <- struct{}{}
		go func(i int, item BatchItem) {
			defer func() {
				<-sem
				done <- struct{}{}
			}()
			start := time.Now()
			out, err := conv.Convert(ctx, bytes.NewReader(item.Data), item.Filename, item.Mode)
			results[i] = BatchResult{
				Filename: item.Filename,
				Output:   out,
				Err:      err,
				Duration: time.Since(start),
			}
		}(i, item)
	}
	for range items {
		<-done
	}
	return results
}
