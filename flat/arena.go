// Package flat exposes the engine through flat numeric arrays with explicit
// row and dimension counts, for callers on the far side of a language or
// memory boundary.
//
// Every buffer produced here is owned by an Arena and addressed by a
// Handle. The caller reads it through the Arena and releases it with Free;
// nothing is shared between handles.
package flat

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnknownHandle is returned for handles that were never issued or
	// have already been freed.
	ErrUnknownHandle = errors.New("flat: unknown handle")

	// ErrShortBuffer indicates an input array holding fewer than rows*dim values.
	ErrShortBuffer = errors.New("flat: buffer shorter than rows*dim")

	// ErrWrongKind is returned when a handle is read as the wrong element type.
	ErrWrongKind = errors.New("flat: handle holds a different element type")
)

// Handle identifies a buffer owned by an Arena. The zero Handle is never issued.
type Handle uint32

type buffer struct {
	f64  []float64
	ints []int
}

// Arena owns result buffers until they are freed. It is safe for
// concurrent use.
type Arena struct {
	mu   sync.Mutex
	next Handle
	bufs map[Handle]buffer
}

// NewArena returns an empty Arena.
func NewArena() *Arena {
	return &Arena{bufs: make(map[Handle]buffer)}
}

func (a *Arena) put(b buffer) Handle {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	a.bufs[a.next] = b
	return a.next
}

// Float64s returns the float buffer behind h.
func (a *Arena) Float64s(h Handle) ([]float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.bufs[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	if b.ints != nil {
		return nil, fmt.Errorf("%w: %d holds ints", ErrWrongKind, h)
	}
	return b.f64, nil
}

// Ints returns the integer buffer behind h.
func (a *Arena) Ints(h Handle) ([]int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.bufs[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	if b.f64 != nil {
		return nil, fmt.Errorf("%w: %d holds floats", ErrWrongKind, h)
	}
	return b.ints, nil
}

// Free releases h. Freeing an unknown or already freed handle fails.
func (a *Arena) Free(h Handle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.bufs[h]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	delete(a.bufs, h)
	return nil
}

// Len reports the number of live buffers.
func (a *Arena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.bufs)
}
