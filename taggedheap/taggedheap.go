// Package taggedheap provides a tag-partitioned page heap and a linear
// allocator backed by it.
//
// Allocations are grouped under a caller-chosen uint64 tag. All pages carrying
// a tag are released together with FreeAllPagesWithTag, which makes the heap a
// good fit for frame- or batch-scoped working memory: allocate freely during
// the batch, free everything in one call when the batch ends.
package taggedheap

import (
	"fmt"
	"sync"
)

// DefaultPageSize is the page size used when New is given a non-positive size.
const DefaultPageSize = 64 * 1024

// TaggedHeap hands out fixed-size pages grouped by tag.
type TaggedHeap struct {
	mu       sync.Mutex
	pageSize int
	pages    map[uint64][][]byte
}

// New creates a heap that allocates pages of the given size.
func New(pageSize int) *TaggedHeap {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &TaggedHeap{
		pageSize: pageSize,
		pages:    make(map[uint64][][]byte),
	}
}

// PageSize returns the size of pages handed out by AllocPage.
func (h *TaggedHeap) PageSize() int {
	return h.pageSize
}

// AllocPage allocates a new page under the given tag.
func (h *TaggedHeap) AllocPage(tag uint64) []byte {
	page := make([]byte, h.pageSize)

	h.mu.Lock()
	h.pages[tag] = append(h.pages[tag], page)
	h.mu.Unlock()

	return page
}

// FreeAllPagesWithTag releases every page allocated under tag.
// Outstanding slices into those pages must no longer be used by the caller.
func (h *TaggedHeap) FreeAllPagesWithTag(tag uint64) {
	h.mu.Lock()
	delete(h.pages, tag)
	h.mu.Unlock()
}

// PageCount returns the number of live pages under tag.
func (h *TaggedHeap) PageCount(tag uint64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pages[tag])
}

// LinearAllocator is a bump allocator over tagged heap pages.
//
// Alloc bumps a cursor through the current page and grabs a fresh page from
// the heap when the current one is exhausted. Reset drops the cursor and
// re-tags the allocator; it does not free pages — pair it with the heap's
// FreeAllPagesWithTag.
type LinearAllocator struct {
	mu      sync.Mutex
	heap    *TaggedHeap
	tag     uint64
	current []byte
	offset  int
}

// Init binds the allocator to a heap under the given tag.
func (a *LinearAllocator) Init(heap *TaggedHeap, tag uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.heap = heap
	a.tag = tag
	a.current = nil
	a.offset = 0
}

// Alloc returns a zeroed slice of n bytes carved out of the current page.
// Panics if the allocator is unbound, n is not positive, or n exceeds the
// heap page size.
func (a *LinearAllocator) Alloc(n int) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.heap == nil {
		panic("taggedheap: LinearAllocator used before Init")
	}
	if n <= 0 || n > a.heap.PageSize() {
		panic(fmt.Sprintf("taggedheap: allocation of %d bytes is outside 1..%d (page size)", n, a.heap.PageSize()))
	}

	if a.current == nil || a.offset+n > len(a.current) {
		a.current = a.heap.AllocPage(a.tag)
		a.offset = 0
	}

	out := a.current[a.offset : a.offset+n : a.offset+n]
	a.offset += n
	return out
}

// Reset drops the bump cursor and re-binds the allocator to tag.
// The caller typically frees the old tag's pages on the heap first.
func (a *LinearAllocator) Reset(tag uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.tag = tag
	a.current = nil
	a.offset = 0
}

// Destroy unbinds the allocator. Further Alloc calls panic.
func (a *LinearAllocator) Destroy() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.heap = nil
	a.current = nil
	a.offset = 0
}
