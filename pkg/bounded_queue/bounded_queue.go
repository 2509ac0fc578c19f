package bounded_queue

import (
	"errors"
	"sync"
)

var (
	// ErrFull is returned by TryPush when the queue is at capacity. The
	// pushed value is dropped; the oldest entries are never displaced.
	ErrFull = errors.New("queue is full")

	ErrStopped = errors.New("queue is stopped")
)

// BoundedQueue is a FIFO queue shared by many producers and a single
// consumer. Both ends are non-blocking: producers get ErrFull as a
// back-pressure signal, the consumer polls with TryPop.
type BoundedQueue[T any] struct {
	data     []T
	capacity int
	head     int // read index
	size     int
	stopped  bool

	mu sync.Mutex
}

func NewBoundedQueue[T any](cap int) *BoundedQueue[T] {
	if cap <= 0 {
		panic("capacity must be > 0")
	}
	return &BoundedQueue[T]{
		data:     make([]T, cap),
		capacity: cap,
	}
}

// TryPush appends a value without blocking. A full queue rejects the value
// with ErrFull.
func (q *BoundedQueue[T]) TryPush(val T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped {
		return ErrStopped
	}
	if q.size == q.capacity {
		return ErrFull
	}

	tail := (q.head + q.size) % q.capacity
	q.data[tail] = val
	q.size++
	return nil
}

// TryPop removes the oldest value without blocking.
func (q *BoundedQueue[T]) TryPop() (T, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if q.stopped {
		return zero, false, ErrStopped
	}
	if q.size == 0 {
		return zero, false, nil
	}

	val := q.data[q.head]
	q.data[q.head] = zero
	q.head = (q.head + 1) % q.capacity
	q.size--
	return val, true, nil
}

func (q *BoundedQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

func (q *BoundedQueue[T]) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stopped = true
}
