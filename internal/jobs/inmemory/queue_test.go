package inmemory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sejin-dev/statement-converter/internal/jobs"
)

func TestQueuePublishAndProcess(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, store)
	defer q.Close()

	done := make(chan string, 1)
	handler := func(ctx context.Context, job jobs.Job) error {
		done <- job.GetID()
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := q.Start(ctx, handler); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	job := &jobs.ConvertStatementJob{DocumentID: "doc-1", FileURI: "gs://b/o.pdf"}
	if err := q.PublishConvertStatement(ctx, job); err != nil {
		t.Fatalf("PublishConvertStatement failed: %v", err)
	}
	if job.JobID == "" {
		t.Fatal("publish did not assign a job ID")
	}

	select {
	case id := <-done:
		if id != job.JobID {
			t.Errorf("handler got job %q, want %q", id, job.JobID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler never ran")
	}

	// status lands in the store once the handler returns
	deadline := time.Now().Add(5 * time.Second)
	for {
		saved, err := store.GetJob(ctx, job.JobID)
		if err != nil {
			t.Fatalf("GetJob failed: %v", err)
		}
		if saved.Status == jobs.JobStatusCompleted {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job status = %v, want completed", saved.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, store)
	defer q.Close()

	var attempts atomic.Int32
	handler := func(ctx context.Context, job jobs.Job) error {
		if attempts.Add(1) == 1 {
			return errors.New("transient extraction failure")
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := q.Start(ctx, handler); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	job := &jobs.ConvertStatementJob{DocumentID: "doc-1", FileURI: "gs://b/o.pdf"}
	if err := q.PublishConvertStatement(ctx, job); err != nil {
		t.Fatalf("PublishConvertStatement failed: %v", err)
	}

	deadline := time.Now().Add(10 * time.Second)
	for {
		saved, err := store.GetJob(ctx, job.JobID)
		if err != nil {
			t.Fatalf("GetJob failed: %v", err)
		}
		if saved.Status == jobs.JobStatusCompleted {
			if saved.RetryCount != 1 {
				t.Errorf("retry count = %d, want 1", saved.RetryCount)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("job never completed, status = %v", saved.Status)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestQueueRejectsAfterClose(t *testing.T) {
	q := NewQueue(1, NewStore())
	if err := q.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	job := &jobs.ConvertStatementJob{DocumentID: "doc-1"}
	if err := q.PublishConvertStatement(context.Background(), job); err == nil {
		t.Error("publish succeeded on a closed queue")
	}
	if err := q.Start(context.Background(), func(ctx context.Context, j jobs.Job) error { return nil }); err == nil {
		t.Error("Start succeeded on a closed queue")
	}
}
