package fibertasking_test

import (
	"sync/atomic"
	"testing"
	"time"

	fibertasking "github.com/pakoito/FiberTaskingLib"
)

// TestBootstrap tests the wired scheduler + heap + allocator setup
// Main test items:
// 1. Bootstrap returns an initialized scheduler with heap and allocator bound
// 2. Tasks can allocate through the context bundle
// 3. Round memory can be dropped between submissions
func TestBootstrap(t *testing.T) {
	cfg := fibertasking.DefaultTaskSchedulerConfig()
	cfg.WorkerCount = 2
	cfg.PinWorkers = false
	cfg.Logger = fibertasking.NewNoOpLogger()

	const tag = 42
	scheduler, heap, allocator, err := fibertasking.Bootstrap(cfg, 4096, tag)
	if err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	defer scheduler.Quit()
	defer allocator.Destroy()

	var allocated atomic.Int64
	tasks := make([]fibertasking.Task, 8)
	for i := range tasks {
		tasks[i] = fibertasking.Task{Function: func(tc *fibertasking.TaskContext, arg any) {
			buf := tc.Allocator.Alloc(16)
			copy(buf, "payload")
			allocated.Add(int64(len(buf)))
		}}
	}

	counter := scheduler.AddTasks(tasks)
	done := make(chan struct{})
	go func() {
		scheduler.WaitForCounter(nil, counter, 0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Timed out waiting for task group")
	}

	if got := allocated.Load(); got != 8*16 {
		t.Errorf("Expected 128 bytes allocated across tasks, got %d", got)
	}
	if heap.PageCount(tag) == 0 {
		t.Error("Expected live pages under the bootstrap tag")
	}

	heap.FreeAllPagesWithTag(tag)
	allocator.Reset(tag)
	if heap.PageCount(tag) != 0 {
		t.Error("Expected no pages after per-round free")
	}
}
