package inmemory

import (
	"context"
	"testing"

	"github.com/sejin-dev/statement-converter/internal/jobs"
)

func TestStoreSaveAndGet(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	job := &jobs.ConvertStatementJob{
		JobID:      "job-1",
		DocumentID: "doc-1",
		FileURI:    "gs://bucket/statements/doc-1.pdf",
		BankID:     "kookmin",
		Status:     jobs.JobStatusPending,
	}

	if err := store.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	got, err := store.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got.DocumentID != "doc-1" || got.BankID != "kookmin" {
		t.Errorf("GetJob returned %+v", got)
	}

	// the store hands out copies; mutating one must not affect the other
	got.Status = jobs.JobStatusFailed
	again, err := store.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if again.Status != jobs.JobStatusPending {
		t.Errorf("stored job mutated through a returned copy: %v", again.Status)
	}
}

func TestStoreSaveRequiresID(t *testing.T) {
	store := NewStore()
	if err := store.SaveJob(context.Background(), &jobs.ConvertStatementJob{}); err == nil {
		t.Error("SaveJob accepted a job without an ID")
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := NewStore()
	if _, err := store.GetJob(context.Background(), "nope"); err == nil {
		t.Error("GetJob returned no error for an unknown job")
	}
}

func TestStoreListJobs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	seed := []*jobs.ConvertStatementJob{
		{JobID: "a", DocumentID: "doc-1", Status: jobs.JobStatusPending},
		{JobID: "b", DocumentID: "doc-1", Status: jobs.JobStatusCompleted},
		{JobID: "c", DocumentID: "doc-2", Status: jobs.JobStatusPending},
	}
	for _, j := range seed {
		if err := store.SaveJob(ctx, j); err != nil {
			t.Fatalf("SaveJob(%s) failed: %v", j.JobID, err)
		}
	}

	tests := []struct {
		name   string
		filter jobs.JobFilter
		want   int
	}{
		{name: "all", filter: jobs.JobFilter{}, want: 3},
		{name: "by document", filter: jobs.JobFilter{DocumentID: "doc-1"}, want: 2},
		{name: "by status", filter: jobs.JobFilter{Status: jobs.JobStatusPending}, want: 2},
		{name: "document and status", filter: jobs.JobFilter{DocumentID: "doc-1", Status: jobs.JobStatusCompleted}, want: 1},
		{name: "limit", filter: jobs.JobFilter{Limit: 2}, want: 2},
		{name: "offset past end", filter: jobs.JobFilter{Offset: 10}, want: 0},
		{name: "no match", filter: jobs.JobFilter{DocumentID: "doc-9"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListJobs(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListJobs failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("ListJobs returned %d jobs, want %d", len(got), tt.want)
			}
		})
	}
}

func TestStoreUpdateJobStatus(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	job := &jobs.ConvertStatementJob{JobID: "job-1", Status: jobs.JobStatusPending}
	if err := store.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	if err := store.UpdateJobStatus(ctx, "job-1", jobs.JobStatusFailed, "extraction timed out"); err != nil {
		t.Fatalf("UpdateJobStatus failed: %v", err)
	}

	got, err := store.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got.Status != jobs.JobStatusFailed {
		t.Errorf("status = %v, want failed", got.Status)
	}
	if got.Error != "extraction timed out" {
		t.Errorf("error = %q", got.Error)
	}

	if err := store.UpdateJobStatus(ctx, "missing", jobs.JobStatusFailed, ""); err == nil {
		t.Error("UpdateJobStatus accepted an unknown job")
	}
}
