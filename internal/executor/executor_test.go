// Package executor provides tests for the upload worker pool.
package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/internal/testutil"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/internal/upload"
)

func newTask(key string, size int) *Task {
	return &Task{
		Path:   key,
		Bucket: "test-bucket",
		Key:    key,
		Data:   make([]byte, size),
	}
}

func TestExecutorConcurrencyControl(t *testing.T) {
	var concurrentOps int64
	var maxConcurrent int64

	mockClient := &testutil.MockS3Client{
		PutObjectFunc: func(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			current := atomic.AddInt64(&concurrentOps, 1)
			defer atomic.AddInt64(&concurrentOps, -1)

			// Track maximum concurrent operations
			for {
				max := atomic.LoadInt64(&maxConcurrent)
				if current <= max || atomic.CompareAndSwapInt64(&maxConcurrent, max, current) {
					break
				}
			}

			// Simulate work
			time.Sleep(20 * time.Millisecond)
			return &s3.PutObjectOutput{}, nil
		},
	}

	executor := New(upload.New(mockClient), 2)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		task := newTask(fmt.Sprintf("asset-%02d.bin", i), 100)
		if err := executor.Submit(ctx, task); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	result := executor.Wait()

	if result.Uploaded != 10 {
		t.Errorf("Expected 10 uploads, got %d", result.Uploaded)
	}
	if result.Bytes != 1000 {
		t.Errorf("Expected 1000 bytes uploaded, got %d", result.Bytes)
	}
	if maxConcurrent > 2 {
		t.Errorf("Expected max concurrent operations <= 2, got %d", maxConcurrent)
	}
	if maxConcurrent < 1 {
		t.Errorf("Expected at least 1 concurrent operation, got %d", maxConcurrent)
	}
}

func TestExecutorFloorsConcurrency(t *testing.T) {
	var concurrentOps int64
	var maxConcurrent int64

	mockClient := &testutil.MockS3Client{
		PutObjectFunc: func(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			current := atomic.AddInt64(&concurrentOps, 1)
			defer atomic.AddInt64(&concurrentOps, -1)

			for {
				max := atomic.LoadInt64(&maxConcurrent)
				if current <= max || atomic.CompareAndSwapInt64(&maxConcurrent, max, current) {
					break
				}
			}

			time.Sleep(10 * time.Millisecond)
			return &s3.PutObjectOutput{}, nil
		},
	}

	// Zero and negative concurrency both run sequentially.
	executor := New(upload.New(mockClient), 0)
	if executor.maxConcurrency != 1 {
		t.Fatalf("Expected concurrency floor of 1, got %d", executor.maxConcurrency)
	}

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if err := executor.Submit(ctx, newTask(fmt.Sprintf("file-%d.txt", i), 10)); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	result := executor.Wait()

	if result.Uploaded != 4 {
		t.Errorf("Expected 4 uploads, got %d", result.Uploaded)
	}
	if maxConcurrent != 1 {
		t.Errorf("Expected sequential execution, saw %d concurrent operations", maxConcurrent)
	}
}

func TestExecutorRecordsFailures(t *testing.T) {
	mockClient := &testutil.MockS3Client{
		PutObjectFunc: func(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			if strings.HasPrefix(aws.ToString(input.Key), "bad/") {
				return nil, errors.New("simulated failure")
			}
			return &s3.PutObjectOutput{}, nil
		},
	}

	tracker := &testutil.MockProgressTracker{}
	executor := New(upload.New(mockClient), 3).WithProgressTracker(tracker)
	ctx := context.Background()

	tasks := []*Task{
		newTask("good/one.txt", 100),
		newTask("bad/two.txt", 200),
		newTask("good/three.txt", 300),
		newTask("bad/four.txt", 400),
		newTask("good/five.txt", 500),
	}
	for _, task := range tasks {
		if err := executor.Submit(ctx, task); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	result := executor.Wait()

	if result.Uploaded != 3 {
		t.Errorf("Expected 3 successful uploads, got %d", result.Uploaded)
	}
	if result.Bytes != 900 {
		t.Errorf("Expected 900 bytes from successful uploads, got %d", result.Bytes)
	}
	if len(result.Failures) != 2 {
		t.Fatalf("Expected 2 failures, got %d", len(result.Failures))
	}
	for _, failure := range result.Failures {
		if !strings.HasPrefix(failure.Key, "bad/") {
			t.Errorf("Unexpected failure for key %s", failure.Key)
		}
		if failure.Path == "" || failure.Message == "" {
			t.Errorf("Failure missing context: %+v", failure)
		}
		if !strings.Contains(failure.Message, "simulated failure") {
			t.Errorf("Failure message should carry the cause, got %s", failure.Message)
		}
	}

	if got := len(tracker.Uploaded()); got != 3 {
		t.Errorf("Expected 3 tracker upload events, got %d", got)
	}
	if got := len(tracker.Failed()); got != 2 {
		t.Errorf("Expected 2 tracker failure events, got %d", got)
	}
	// Completing the run is the deploy loop's job, not the pool's.
	if tracker.CompleteCalled() {
		t.Error("Executor should not call Complete")
	}
}

func TestExecutorContextCancellation(t *testing.T) {
	started := make(chan struct{}, 1)
	blocker := make(chan struct{})

	mockClient := &testutil.MockS3Client{
		PutObjectFunc: func(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			started <- struct{}{}
			<-blocker
			return &s3.PutObjectOutput{}, nil
		},
	}

	executor := New(upload.New(mockClient), 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First task occupies the only worker slot.
	if err := executor.Submit(ctx, newTask("slow.bin", 10)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	<-started

	cancel()

	// Second submission cannot acquire a slot and must observe cancellation.
	err := executor.Submit(ctx, newTask("queued.bin", 10))
	if err == nil {
		t.Fatal("Expected context cancellation error, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled in chain, got %v", err)
	}

	close(blocker)
	result := executor.Wait()

	if result.Uploaded != 1 {
		t.Errorf("Expected the in-flight task to finish, got %d uploads", result.Uploaded)
	}
}
