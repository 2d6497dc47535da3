package taggedheap

import "testing"

// TestTaggedHeap_PagesByTag tests tag-grouped page lifecycle
// Main test items:
// 1. AllocPage grows the page count for its tag only
// 2. FreeAllPagesWithTag releases every page under one tag
func TestTaggedHeap_PagesByTag(t *testing.T) {
	h := New(1024)

	h.AllocPage(1)
	h.AllocPage(1)
	h.AllocPage(2)

	if got := h.PageCount(1); got != 2 {
		t.Errorf("Expected 2 pages under tag 1, got %d", got)
	}
	if got := h.PageCount(2); got != 1 {
		t.Errorf("Expected 1 page under tag 2, got %d", got)
	}

	h.FreeAllPagesWithTag(1)
	if got := h.PageCount(1); got != 0 {
		t.Errorf("Expected 0 pages under tag 1 after free, got %d", got)
	}
	if got := h.PageCount(2); got != 1 {
		t.Errorf("Expected tag 2 untouched, got %d pages", got)
	}
}

func TestTaggedHeap_DefaultPageSize(t *testing.T) {
	h := New(0)
	if got := h.PageSize(); got != DefaultPageSize {
		t.Errorf("Expected default page size %d, got %d", DefaultPageSize, got)
	}
}

// TestLinearAllocator_Bump tests bump allocation across pages
// Main test items:
// 1. Sequential allocations come from the same page until it is exhausted
// 2. Exhaustion pulls a fresh page from the heap
// 3. Allocations do not alias
func TestLinearAllocator_Bump(t *testing.T) {
	h := New(64)
	var a LinearAllocator
	a.Init(h, 7)

	first := a.Alloc(40)
	second := a.Alloc(16)
	if h.PageCount(7) != 1 {
		t.Errorf("Expected both allocations from one page, got %d pages", h.PageCount(7))
	}

	// 40+16 used of 64; 16 more will not fit.
	third := a.Alloc(16)
	if h.PageCount(7) != 2 {
		t.Errorf("Expected a second page after exhaustion, got %d pages", h.PageCount(7))
	}

	first[0] = 0xAA
	second[0] = 0xBB
	third[0] = 0xCC
	if first[0] != 0xAA || second[0] != 0xBB || third[0] != 0xCC {
		t.Error("Allocations alias each other")
	}
}

// TestLinearAllocator_ResetAndDestroy tests allocator lifecycle
func TestLinearAllocator_ResetAndDestroy(t *testing.T) {
	h := New(64)
	var a LinearAllocator
	a.Init(h, 1)
	a.Alloc(8)

	h.FreeAllPagesWithTag(1)
	a.Reset(2)

	a.Alloc(8)
	if h.PageCount(2) != 1 {
		t.Errorf("Expected allocation under the new tag, got %d pages", h.PageCount(2))
	}

	a.Destroy()
	defer func() {
		if recover() == nil {
			t.Error("Expected Alloc after Destroy to panic")
		}
	}()
	a.Alloc(8)
}

func TestLinearAllocator_OversizedAllocPanics(t *testing.T) {
	h := New(64)
	var a LinearAllocator
	a.Init(h, 1)

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for allocation larger than page size")
		}
	}()
	a.Alloc(65)
}
