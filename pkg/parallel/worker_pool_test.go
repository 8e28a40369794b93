package parallel

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestPool(t *testing.T, workers int, opts ...Option) *WorkerPool {
	t.Helper()
	pool, err := NewWorkerPool(workers, opts...)
	if err != nil {
		t.Fatalf("NewWorkerPool(%d) failed: %v", workers, err)
	}
	return pool
}

func TestWorkerPoolWorkerCount(t *testing.T) {
	tests := []struct {
		name     string
		workers  int
		expected int
	}{
		{"zero defaults to one", 0, 1},
		{"negative defaults to one", -5, 1},
		{"single", 1, 1},
		{"several", 8, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newTestPool(t, tt.workers)
			defer pool.Close()
			if pool.Workers() != tt.expected {
				t.Errorf("Workers() = %d, want %d", pool.Workers(), tt.expected)
			}
			if cap(pool.taskQueue) != tt.expected*2 {
				t.Errorf("Queue capacity = %d, want %d", cap(pool.taskQueue), tt.expected*2)
			}
		})
	}
}

func TestWorkerPoolOverflow(t *testing.T) {
	_, err := NewWorkerPool(math.MaxInt)
	if !errors.Is(err, ErrTooManyWorkers) {
		t.Errorf("Expected ErrTooManyWorkers, got %v", err)
	}
}

// TestWorkerPoolConcurrentSubmissions tests concurrent task submissions
func TestWorkerPoolConcurrentSubmissions(t *testing.T) {
	pool := newTestPool(t, 10)

	numTasks := 100
	var counter int64

	var wg sync.WaitGroup
	for i := 0; i < numTasks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Submit(func() {
				atomic.AddInt64(&counter, 1)
			})
		}()
	}

	wg.Wait()
	pool.Close()

	if counter != int64(numTasks) {
		t.Errorf("Expected counter %d, got %d", numTasks, counter)
	}
}

// TestWorkerPoolCloseRace validates that closing while submitting does not panic
func TestWorkerPoolCloseRace(t *testing.T) {
	for iteration := 0; iteration < 50; iteration++ {
		pool := newTestPool(t, 4)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					pool.Submit(func() {
						time.Sleep(100 * time.Microsecond)
					})
				}
			}()
		}

		time.Sleep(time.Millisecond)
		pool.Close()
		wg.Wait()
	}
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := newTestPool(t, 2)
	pool.Close()
	pool.Close()

	if pool.Submit(func() { t.Error("This task should never execute") }) {
		t.Error("Task submission after close should return false")
	}
}

func TestWorkerPoolCapturesPanics(t *testing.T) {
	var handled int64
	pool := newTestPool(t, 4, WithPanicHandler(func(pe *PanicError) {
		atomic.AddInt64(&handled, 1)
	}))

	var counter int64
	for i := 0; i < 5; i++ {
		pool.Submit(func() {
			panic("edge endpoint mismatch")
		})
	}
	for i := 0; i < 10; i++ {
		pool.Submit(func() {
			atomic.AddInt64(&counter, 1)
		})
	}
	pool.Close()

	if counter != 10 {
		t.Errorf("Expected counter 10, got %d", counter)
	}

	panics := pool.Panics()
	if len(panics) != 5 || handled != 5 {
		t.Fatalf("Expected 5 captured panics, got %d (handler saw %d)", len(panics), handled)
	}
	if panics[0].Value != "edge endpoint mismatch" || len(panics[0].Stack) == 0 {
		t.Errorf("Unexpected panic record: %v", panics[0])
	}
	if panics[0].Error() != "task panicked: edge endpoint mismatch" {
		t.Errorf("Error() = %q", panics[0].Error())
	}
}

// BenchmarkWorkerPoolThroughput benchmarks worker pool throughput
func BenchmarkWorkerPoolThroughput(b *testing.B) {
	pool, _ := NewWorkerPool(10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.Submit(func() {})
	}

	pool.Close()
}
