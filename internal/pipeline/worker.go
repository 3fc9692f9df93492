package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// Worker processes a single analysis job.
type Worker struct {
	analyzer *Analyzer
	stats    *RunStats
	log      *slog.Logger
}

func NewWorker(analyzer *Analyzer, stats *RunStats, log *slog.Logger) *Worker {
	return &Worker{analyzer: analyzer, stats: stats, log: log}
}

// Process runs the full analysis pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	if ctx.Err() != nil {
		job.AddError(ctx.Err().Error())
		job.SetStatus(StatusFailed, "canceled")
		return
	}

	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()

	job.SetStatus(StatusClassifying, "classifying")
	analysis, err := w.analyzer.Run(job.Data(), job.ChunkOptions())
	if err != nil {
		log.Error("analysis failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "analysis")
		return
	}

	job.SetStatus(StatusChunking, "chunking")
	for _, d := range analysis.Diagnostics {
		job.AddError(d)
	}
	job.SetResult(analysis)
	job.SetStatus(StatusCompleted, "done")

	w.stats.Record(time.Since(start).Milliseconds())

	docType := "unclassified"
	if analysis.Classification != nil && analysis.Classification.DocType != "" {
		docType = analysis.Classification.DocType
	}
	log.Info("analysis completed",
		"doc_type", docType,
		"chunks", len(analysis.Chunks),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
