// Package executor fans object uploads out across a bounded worker pool.
//
// Concurrency is capped with a semaphore channel. Submit blocks the caller
// until a worker slot frees, so archive reading never runs ahead of the
// pool by more than one entry.
package executor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/internal/upload"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/s3tartypes"
)

// Task is one planned object upload. The payload must be fully
// materialized before submission; workers never touch the archive stream.
type Task struct {
	// Path is the archive entry path, used in failure reports.
	Path string

	// Bucket is the destination bucket.
	Bucket string

	// Key is the destination object key.
	Key string

	// Data is the payload to store, already compressed when applicable.
	Data []byte

	// Config carries the headers for the object.
	Config *s3tartypes.UploadConfig
}

// Executor runs upload tasks with bounded concurrency.
type Executor struct {
	uploader       *upload.Uploader
	maxConcurrency int
	semaphore      chan struct{}
	tracker        s3tartypes.ProgressTracker

	wg            sync.WaitGroup
	uploadedFiles int64
	uploadedBytes int64

	mu       sync.Mutex
	failures []s3tartypes.UploadFailure
}

// New creates an Executor with the given concurrency. Values below one
// run uploads sequentially.
func New(uploader *upload.Uploader, maxConcurrency int) *Executor {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Executor{
		uploader:       uploader,
		maxConcurrency: maxConcurrency,
		semaphore:      make(chan struct{}, maxConcurrency),
	}
}

// WithProgressTracker attaches a progress tracker and returns the executor
// for chaining.
func (e *Executor) WithProgressTracker(tracker s3tartypes.ProgressTracker) *Executor {
	e.tracker = tracker
	return e
}

// Submit schedules one upload. It blocks until a worker slot is free, then
// runs the upload in the background. A task failure is recorded in the
// result rather than returned; the only error Submit itself reports is
// context cancellation while waiting for a slot.
func (e *Executor) Submit(ctx context.Context, task *Task) error {
	select {
	case e.semaphore <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("context cancelled during semaphore acquisition: %w", ctx.Err())
	}

	e.wg.Add(1)
	go func() {
		defer func() {
			<-e.semaphore
			e.wg.Done()
		}()

		_, err := e.uploader.Put(ctx, task.Bucket, task.Key, task.Data, task.Config)
		if err != nil {
			e.mu.Lock()
			e.failures = append(e.failures, s3tartypes.UploadFailure{
				Path:    task.Path,
				Key:     task.Key,
				Message: err.Error(),
			})
			e.mu.Unlock()

			if e.tracker != nil {
				e.tracker.ObjectFailed(task.Key, err)
			}
			return
		}

		atomic.AddInt64(&e.uploadedFiles, 1)
		atomic.AddInt64(&e.uploadedBytes, int64(len(task.Data)))

		if e.tracker != nil {
			e.tracker.ObjectUploaded(task.Key, int64(len(task.Data)))
		}
	}()

	return nil
}

// Result aggregates what the pool did.
type Result struct {
	// Uploaded is the number of objects stored successfully.
	Uploaded int

	// Bytes is the total payload bytes stored.
	Bytes int64

	// Failures lists every task that could not be uploaded.
	Failures []s3tartypes.UploadFailure
}

// Wait blocks until every submitted task has finished and returns the
// aggregate result. The executor must not be reused afterwards.
func (e *Executor) Wait() *Result {
	e.wg.Wait()

	e.mu.Lock()
	failures := e.failures
	e.mu.Unlock()

	return &Result{
		Uploaded: int(atomic.LoadInt64(&e.uploadedFiles)),
		Bytes:    atomic.LoadInt64(&e.uploadedBytes),
		Failures: failures,
	}
}
