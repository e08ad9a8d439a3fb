// Package dedupe tracks digests of uploaded report files so a
// double-submitted file is accepted once and only once.
package dedupe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
)

// defaultMaxDigests bounds the seen set. A season of weekly imports
// stays far below this; the bound exists so a misbehaving uploader
// cannot grow memory without limit.
const defaultMaxDigests = 4096

// Digest fingerprints an upload: the import kind and the decoded text
// together, so the same file submitted as a different kind is a new
// upload.
func Digest(kind, text string) string {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Deduper records seen upload digests for at-most-once imports.
type Deduper interface {
	// SeenAndRecord atomically checks whether digest was seen and
	// records it if not. Returns true when the digest was already
	// known.
	SeenAndRecord(ctx context.Context, digest string) bool

	// Unrecord forgets a digest so the upload can be retried. Used
	// when an upload was recorded but never made it into the queue.
	Unrecord(ctx context.Context, digest string)

	Size() int64
}

// entry is a single digest in the eviction list.
type entry struct {
	digest string
	next   *entry
}

func (e *entry) reset() {
	e.digest = ""
	e.next = nil
}

// inMemoryDeduper keeps digests in a map backed by a linked list.
// Bounded mode (maxSize > 0) evicts the oldest digest once full;
// unbounded mode is a plain map.
type inMemoryDeduper struct {
	mu      sync.RWMutex
	seen    map[string]*entry
	head    *entry
	maxSize int
	size    atomic.Int64
	pool    sync.Pool
}

// NewInMemoryDeduper creates a deduper with the given options applied.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxDigests,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]*entry)
	if d.maxSize > 0 {
		d.pool = sync.Pool{
			New: func() interface{} {
				return &entry{}
			},
		}
	}

	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, digest string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[digest]; exists {
		return true
	}

	if d.maxSize > 0 {
		if len(d.seen) >= d.maxSize {
			d.evictOldest()
		}

		e := d.pool.Get().(*entry)
		e.digest = digest
		e.next = d.head

		d.head = e
		d.seen[digest] = e
	} else {
		d.seen[digest] = nil
	}

	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, digest string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, exists := d.seen[digest]
	if !exists {
		return
	}
	delete(d.seen, digest)
	d.size.Add(-1)

	if d.maxSize <= 0 {
		return
	}

	if d.head == e {
		d.head = e.next
	} else {
		current := d.head
		for current != nil && current.next != e {
			current = current.next
		}
		if current != nil {
			current.next = e.next
		}
	}

	e.reset()
	d.pool.Put(e)
}

// evictOldest drops the tail of the list. Caller holds d.mu.
func (d *inMemoryDeduper) evictOldest() {
	if d.head == nil {
		return
	}

	if d.head.next == nil {
		delete(d.seen, d.head.digest)
		d.head.reset()
		d.pool.Put(d.head)
		d.head = nil
		d.size.Add(-1)
		return
	}

	var prev *entry
	current := d.head
	for current.next != nil {
		prev = current
		current = current.next
	}

	prev.next = nil
	delete(d.seen, current.digest)
	current.reset()
	d.pool.Put(current)
	d.size.Add(-1)
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
