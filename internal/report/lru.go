package report

import (
	"sync"

	"github.com/seqfold/foldbatch/internal/batch"
)

// LRUStore is an in-memory LRU cache over a backing Store. Batch
// summaries for recent runs stay hot for MCP inspection without
// re-reading the disk store.
type LRUStore struct {
	mu   sync.Mutex
	cap  int
	back Store

	// Most recently used at head.
	head, tail *lruEntry
	items      map[string]*lruEntry
}

type lruEntry struct {
	key  string
	sum  *batch.Summary
	prev *lruEntry
	next *lruEntry
}

// NewLRUStore creates an LRU cache with the given capacity (minimum 1)
// delegating to back on misses.
func NewLRUStore(cap int, back Store) *LRUStore {
	if cap < 1 {
		cap = 1
	}
	return &LRUStore{
		cap:   cap,
		back:  back,
		items: make(map[string]*lruEntry, cap),
	}
}

// Save caches the summary and delegates to the backing store.
func (s *LRUStore) Save(sum *batch.Summary) error {
	s.mu.Lock()
	if e, ok := s.items[sum.ID]; ok {
		e.sum = sum
		s.moveToFront(e)
	} else {
		s.insert(sum.ID, sum)
	}
	s.mu.Unlock()

	return s.back.Save(sum)
}

// Load checks the cache first, falling back to the backing store and
// promoting the result on a miss.
func (s *LRUStore) Load(batchID string) (*batch.Summary, error) {
	s.mu.Lock()
	if e, ok := s.items[batchID]; ok {
		s.moveToFront(e)
		sum := e.sum
		s.mu.Unlock()
		return sum, nil
	}
	s.mu.Unlock()

	sum, err := s.back.Load(batchID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if e, ok := s.items[batchID]; ok {
		// A concurrent load beat us to it.
		e.sum = sum
		s.moveToFront(e)
	} else {
		s.insert(batchID, sum)
	}
	s.mu.Unlock()

	return sum, nil
}

// insert adds a new entry at the head, evicting the tail when over
// capacity. Callers hold the lock.
func (s *LRUStore) insert(key string, sum *batch.Summary) {
	e := &lruEntry{key: key, sum: sum}
	s.items[key] = e
	s.pushFront(e)
	if len(s.items) > s.cap {
		s.evict()
	}
}

func (s *LRUStore) pushFront(e *lruEntry) {
	e.prev = nil
	e.next = s.head
	if s.head != nil {
		s.head.prev = e
	}
	s.head = e
	if s.tail == nil {
		s.tail = e
	}
}

func (s *LRUStore) moveToFront(e *lruEntry) {
	if s.head == e {
		return
	}
	s.remove(e)
	s.pushFront(e)
}

func (s *LRUStore) remove(e *lruEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		s.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		s.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}

func (s *LRUStore) evict() {
	if s.tail == nil {
		return
	}
	e := s.tail
	s.remove(e)
	delete(s.items, e.key)
}
