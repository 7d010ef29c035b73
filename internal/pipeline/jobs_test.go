package pipeline

import (
	"errors"
	"testing"
	"time"
)

func TestNewJob(t *testing.T) {
	job := NewJob("sheet.tsv", ModeBooklet, []byte("data"))
	if job.ID == "" {
		t.Fatal("expected a job ID")
	}
	if job.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, job.Status)
	}
	if other := NewJob("sheet.tsv", ModeBooklet, nil); other.ID == job.ID {
		t.Errorf("expected distinct IDs, got %q twice", job.ID)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusProcessing, "converting"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("missing columns")
	job.AddError("unknown sizes")

	snap := job.Snapshot()
	if len(snap.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Errors))
	}
	if snap.Errors[0] != "missing columns" {
		t.Errorf("expected first error %q, got %q", "missing columns", snap.Errors[0])
	}
}

func TestJob_Complete(t *testing.T) {
	job := NewJob("sheet.tsv", ModeSpread, []byte("raw"))
	if _, ok := job.Output(); ok {
		t.Fatal("expected no output before completion")
	}
	job.Complete(Output{Data: []byte("out"), Name: "sheet_spread.tsv", Title: "Homage", Segments: 3})

	out, ok := job.Output()
	if !ok || string(out.Data) != "out" {
		t.Fatalf("expected output %q, got %q (ok=%v)", "out", out.Data, ok)
	}
	if job.FileData() != nil {
		t.Error("expected input to be released after completion")
	}
	snap := job.Snapshot()
	if snap.Status != StatusCompleted || snap.Title != "Homage" || snap.Segments != 3 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if snap.OutputName != "sheet_spread.tsv" {
		t.Errorf("expected output name %q, got %q", "sheet_spread.tsv", snap.OutputName)
	}
}

func TestJob_FileData(t *testing.T) {
	data := []byte("file content here")
	job := NewJob("sheet.tsv", ModeBooklet, data)
	if got := job.FileData(); string(got) != string(data) {
		t.Errorf("expected file data %q, got %q", data, got)
	}
}

func TestJob_Fail(t *testing.T) {
	job := NewJob("sheet.tsv", ModeBooklet, []byte("raw"))
	job.Fail(errors.New("missing columns"))

	if job.FileData() != nil {
		t.Error("expected input to be released after failure")
	}
	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, snap.Status)
	}
	if len(snap.Errors) != 1 || snap.Errors[0] != "missing columns" {
		t.Errorf("expected the failure to be recorded, got %v", snap.Errors)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job, got %d", store.Len())
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
