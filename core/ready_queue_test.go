package core

import (
	"sync"
	"testing"
)

func bundleWithID(id int) *TaskBundle {
	return &TaskBundle{
		Task:    Task{ArgData: id},
		Counter: NewCounter(1),
	}
}

// TestReadyQueue_PushPop tests basic queue behavior
// Main test items:
// 1. TryPop on an empty queue returns false
// 2. Pushed items come back out
// 3. Len tracks the number of queued items
func TestReadyQueue_PushPop(t *testing.T) {
	q := newReadyQueue()

	if _, ok := q.TryPop(); ok {
		t.Fatal("Expected TryPop to fail on empty queue")
	}

	q.Push(readyItem{bundle: bundleWithID(1)})
	q.Push(readyItem{bundle: bundleWithID(2)})

	if got := q.Len(); got != 2 {
		t.Errorf("Expected Len 2, got %d", got)
	}

	item, ok := q.TryPop()
	if !ok {
		t.Fatal("Expected TryPop to succeed")
	}
	if item.bundle.Task.ArgData.(int) != 1 {
		t.Errorf("Expected first pushed item, got %v", item.bundle.Task.ArgData)
	}

	q.TryPop()
	if got := q.Len(); got != 0 {
		t.Errorf("Expected Len 0 after draining, got %d", got)
	}
}

// TestReadyQueue_PushFront tests revived-fiber priority ordering
// Main test items:
// 1. PushFront items pop before previously queued items
// 2. PushFront preserves the order of its argument slice
func TestReadyQueue_PushFront(t *testing.T) {
	q := newReadyQueue()
	q.Push(readyItem{bundle: bundleWithID(99)})

	f1 := newFiber(1)
	f2 := newFiber(2)
	q.PushFront([]readyItem{{resume: f1}, {resume: f2}})

	item, _ := q.TryPop()
	if item.resume != f1 {
		t.Errorf("Expected fiber 1 first, got %+v", item)
	}
	item, _ = q.TryPop()
	if item.resume != f2 {
		t.Errorf("Expected fiber 2 second, got %+v", item)
	}
	item, _ = q.TryPop()
	if item.bundle == nil || item.bundle.Task.ArgData.(int) != 99 {
		t.Errorf("Expected original bundle last, got %+v", item)
	}
}

// TestReadyQueue_ConcurrentProducersConsumers tests MPMC safety
// Main test items:
// 1. Every pushed item is popped exactly once across concurrent consumers
func TestReadyQueue_ConcurrentProducersConsumers(t *testing.T) {
	const producers = 4
	const perProducer = 250
	q := newReadyQueue()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(readyItem{bundle: bundleWithID(base + i)})
			}
		}(p * perProducer)
	}
	wg.Wait()

	seen := make(map[int]bool)
	var seenMu sync.Mutex
	for c := 0; c < 4; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				item, ok := q.TryPop()
				if !ok {
					return
				}
				id := item.bundle.Task.ArgData.(int)
				seenMu.Lock()
				if seen[id] {
					t.Errorf("Item %d popped twice", id)
				}
				seen[id] = true
				seenMu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != producers*perProducer {
		t.Errorf("Expected %d distinct items, got %d", producers*perProducer, len(seen))
	}
}

// TestReadyQueue_Compaction tests that a drained queue releases capacity
func TestReadyQueue_Compaction(t *testing.T) {
	q := newReadyQueue()
	for i := 0; i < 256; i++ {
		q.Push(readyItem{bundle: bundleWithID(i)})
	}
	for i := 0; i < 256; i++ {
		if _, ok := q.TryPop(); !ok {
			t.Fatalf("Unexpected empty queue at %d", i)
		}
	}
	if got := cap(q.items); got > compactMinCap {
		t.Errorf("Expected compacted capacity <= %d, got %d", compactMinCap, got)
	}
}
