package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"time"
)

// Worker processes a single conversion job.
type Worker struct {
	conv  *Converter
	stats *Stats
	log   *slog.Logger
}

func NewWorker(conv *Converter, stats *Stats, log *slog.Logger) *Worker {
	return &Worker{conv: conv, stats: stats, log: log}
}

// Process converts the job's file and records the outcome on the job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename, "mode", job.Mode)

	job.SetStatus(StatusProcessing, "converting")
	start := time.Now()
	out, err := w.conv.Convert(ctx, bytes.NewReader(job.FileData()), job.Filename, job.Mode)
	elapsed := time.Since(start)
	if w.stats != nil {
		w.stats.Record(job.Mode, elapsed, err)
	}
	if err != nil {
		log.Error("conversion failed", "error", err)
		job.Fail(err)
		return
	}
	job.Complete(out)
	log.Info("conversion complete", "output", out.Name, "segments", out.Segments, "bytes", len(out.Data), "ms", elapsed.Milliseconds())
}
