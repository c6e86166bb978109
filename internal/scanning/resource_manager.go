package scanning

import (
	"context"
	"errors"
	"sync"
)

var errResourceManagerClosed = errors.New("resource manager is closed")

// ResourceManager bounds how many hosts are probed at once.
type ResourceManager interface {
	// Acquire blocks until a slot is free for address or ctx ends.
	Acquire(ctx context.Context, address string) error
	// Release frees the slot held for address.
	Release(address string)
	// ActiveCount returns the number of held slots.
	ActiveCount() int
	// Close releases everything and rejects further acquisitions.
	Close() error
}

// FixedResourceManager is a counting semaphore keyed by address.
type FixedResourceManager struct {
	semaphore chan struct{}

	mu     sync.Mutex
	active map[string]struct{}
	closed bool
}

// NewFixedResourceManager creates a manager with capacity slots.
func NewFixedResourceManager(capacity int) *FixedResourceManager {
	if capacity <= 0 {
		capacity = 1
	}
	return &FixedResourceManager{
		semaphore: make(chan struct{}, capacity),
		active:    make(map[string]struct{}),
	}
}

var _ ResourceManager = (*FixedResourceManager)(nil)

// Acquire implements ResourceManager.
func (rm *FixedResourceManager) Acquire(ctx context.Context, address string) error {
	rm.mu.Lock()
	closed := rm.closed
	rm.mu.Unlock()
	if closed {
		return errResourceManagerClosed
	}

	select {
	case rm.semaphore <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.closed {
		<-rm.semaphore
		return errResourceManagerClosed
	}
	rm.active[address] = struct{}{}
	return nil
}

// Release implements ResourceManager. Releasing an address that holds no
// slot is a no-op.
func (rm *FixedResourceManager) Release(address string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if _, ok := rm.active[address]; !ok {
		return
	}
	delete(rm.active, address)
	select {
	case <-rm.semaphore:
	default:
	}
}

// ActiveCount implements ResourceManager.
func (rm *FixedResourceManager) ActiveCount() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.active)
}

// Close implements ResourceManager.
func (rm *FixedResourceManager) Close() error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.closed {
		return nil
	}
	rm.closed = true
	rm.active = make(map[string]struct{})
	for {
		select {
		case <-rm.semaphore:
		default:
			return nil
		}
	}
}
