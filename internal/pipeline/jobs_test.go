package pipeline

import (
	"testing"
	"time"
)

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob(2024)
	if job.ID != "scrape-2024" {
		t.Errorf("expected job ID scrape-2024, got %q", job.ID)
	}
	if job.Status != StatusQueued {
		t.Errorf("expected queued, got %q", job.Status)
	}

	for _, status := range []JobStatus{StatusFetching, StatusWriting, StatusCompleted} {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(status)

		if job.Status != status {
			t.Errorf("expected status %q, got %q", status, job.Status)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := NewJob(2023)
	job.AddError("fetch pdf: status 502")
	job.AddError("fetch pdf: status 503")

	snap := job.Snapshot()
	if len(snap.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Errors))
	}
	if snap.Errors[0] != "fetch pdf: status 502" {
		t.Errorf("unexpected first error %q", snap.Errors[0])
	}
}

func TestJob_SetResult(t *testing.T) {
	job := NewJob(2025)
	job.SetResult("html", 751)

	snap := job.Snapshot()
	if snap.Source != "html" {
		t.Errorf("expected source html, got %q", snap.Source)
	}
	if snap.TaxTableRows != 751 {
		t.Errorf("expected 751 rows, got %d", snap.TaxTableRows)
	}
}

func TestJob_SnapshotIsCopy(t *testing.T) {
	job := NewJob(2022)
	snap := job.Snapshot()
	job.AddError("later failure")
	if len(snap.Errors) != 0 {
		t.Error("snapshot must not share the errors slice with the job")
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob(2024)
	store.Put(job)

	got := store.Get("scrape-2024")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.Year != 2024 {
		t.Errorf("expected year 2024, got %d", got.Year)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("scrape-1999") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := NewJob(2020)
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	fresh := NewJob(2025)
	store.Put(fresh)

	store.Cleanup()

	if store.Get(expired.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
