package inmemory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvignesh/smsledger/internal/jobs"
)

func processJob(sender, body string) *jobs.ProcessMessageJob {
	return &jobs.ProcessMessageJob{
		Sender:     sender,
		Body:       body,
		ReceivedAt: time.Now(),
		Source:     "sms",
	}
}

func TestQueueProcessesJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewStore()
	queue := NewQueue(10, 2, store)

	var mu sync.Mutex
	seen := make(map[string]bool)
	done := make(chan struct{}, 3)

	handler := func(ctx context.Context, job jobs.Job) error {
		mu.Lock()
		seen[job.GetID()] = true
		mu.Unlock()
		done <- struct{}{}
		return nil
	}
	require.NoError(t, queue.Start(ctx, handler))

	var ids []string
	for i := 0; i < 3; i++ {
		job := processJob("HDFCBK", "Rs. 100 debited")
		require.NoError(t, queue.PublishProcessMessage(ctx, job))
		assert.NotEmpty(t, job.JobID, "publish assigns an id")
		ids = append(ids, job.JobID)
	}

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	for _, id := range ids {
		assert.True(t, seen[id])
	}

	require.NoError(t, queue.Close())
}

func TestQueueRetriesFailedJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewStore()
	queue := NewQueue(10, 1, store)

	var attempts int32
	done := make(chan struct{})
	handler := func(ctx context.Context, job jobs.Job) error {
		if atomic.AddInt32(&attempts, 1) == 1 {
			return errors.New("transient store error")
		}
		close(done)
		return nil
	}
	require.NoError(t, queue.Start(ctx, handler))

	job := processJob("HDFCBK", "Rs. 100 debited")
	job.MaxRetries = 2
	require.NoError(t, queue.PublishProcessMessage(ctx, job))

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("job was not retried")
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))

	require.NoError(t, queue.Close())
}

func TestQueueRejectsPublishAfterClose(t *testing.T) {
	queue := NewQueue(1, 1, nil)
	require.NoError(t, queue.Close())

	err := queue.PublishProcessMessage(context.Background(), processJob("HDFCBK", "x"))
	require.Error(t, err)
}

func TestStoreTracksJobLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	job := processJob("HDFCBK", "Rs. 100 debited")
	job.JobID = "j1"
	job.Status = jobs.JobStatusPending
	require.NoError(t, store.SaveJob(ctx, job))

	require.NoError(t, store.UpdateJobStatus(ctx, "j1", jobs.JobStatusCompleted, ""))
	got, err := store.GetJob(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, jobs.JobStatusCompleted, got.Status)

	listed, err := store.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusCompleted})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "j1", listed[0].JobID)

	_, err = store.GetJob(ctx, "missing")
	require.Error(t, err)
}
