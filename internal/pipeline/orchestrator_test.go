package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/chunk"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/config"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/formats"
)

func testOrchestrator(t *testing.T, queueSize int) *Orchestrator {
	t.Helper()
	reg, err := formats.Registry(nil)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: queueSize, JobTTL: time.Hour}
	return NewOrchestrator(cfg, NewAnalyzer(reg, log), log)
}

func TestOrchestrator_SubmitAndProcess(t *testing.T) {
	orch := testOrchestrator(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	orch.Start(ctx)
	defer func() {
		cancel()
		orch.Stop()
	}()

	job := NewJob("export.xml", []byte(servicenowSample), chunk.Options{})
	if err := orch.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if orch.GetJob(job.ID) != job {
		t.Fatal("submitted job not in store")
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		snap := job.Snapshot()
		if snap.Status == StatusCompleted {
			break
		}
		if snap.Status == StatusFailed {
			t.Fatalf("job failed: %v", snap.Progress.Errors)
		}
		if time.Now().After(deadline) {
			t.Fatalf("job stuck in status %q", snap.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}

	result := job.Result()
	if result == nil {
		t.Fatal("completed job has no result")
	}
	if result.Classification.DocType != "servicenow-export" {
		t.Errorf("doc type wrong: %q", result.Classification.DocType)
	}
	if len(result.Chunks) == 0 {
		t.Error("expected chunks")
	}
	if orch.Stats().Snapshot().Count == 0 {
		t.Error("expected a recorded latency sample")
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	// Workers never started, so the buffered queue fills up.
	orch := testOrchestrator(t, 1)

	first := NewJob("a.xml", []byte(`<a/>`), chunk.Options{})
	if err := orch.Submit(first); err != nil {
		t.Fatalf("first submit should fit: %v", err)
	}

	second := NewJob("b.xml", []byte(`<b/>`), chunk.Options{})
	if err := orch.Submit(second); err == nil {
		t.Fatal("expected queue-full error")
	}
	if second.Status != StatusFailed {
		t.Errorf("rejected job should be marked failed, got %s", second.Status)
	}
	if orch.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", orch.QueueDepth())
	}
}

func TestOrchestrator_SubmitAfterStopRejected(t *testing.T) {
	orch := testOrchestrator(t, 4)
	ctx, cancel := context.WithCancel(context.Background())
	orch.Start(ctx)
	cancel()
	orch.Stop()
	orch.Stop() // second stop is a no-op

	job := NewJob("late.xml", []byte(`<a/>`), chunk.Options{})
	if err := orch.Submit(job); err == nil {
		t.Fatal("submit after shutdown must fail")
	}
	if snap := job.Snapshot(); snap.Status != StatusFailed {
		t.Errorf("late job should be marked failed, got %s", snap.Status)
	}
	if orch.GetJob(job.ID) != nil {
		t.Error("rejected late job must not enter the store")
	}
}

func TestWorker_MalformedInputFailsJob(t *testing.T) {
	orch := testOrchestrator(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	orch.Start(ctx)
	defer func() {
		cancel()
		orch.Stop()
	}()

	job := NewJob("broken.xml", []byte(`<unload><incident>`), chunk.Options{})
	if err := orch.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		snap := job.Snapshot()
		if snap.Status == StatusFailed {
			if len(snap.Progress.Errors) == 0 {
				t.Error("failed job should carry an error message")
			}
			return
		}
		if snap.Status == StatusCompleted {
			t.Fatal("malformed input must not complete")
		}
		if time.Now().After(deadline) {
			t.Fatalf("job stuck in status %q", snap.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
