// Package securemem provides locked, zeroizable buffers for key material.
// Decrypted mnemonics and private keys live only inside these buffers so a
// lock or reset can wipe them deterministically.
package securemem

import (
	"runtime"
	"sync"
)

// Buffer wraps a sensitive byte slice with mlock and explicit zeroing.
type Buffer struct {
	data   []byte
	locked bool
	mu     sync.Mutex
}

// New creates a Buffer of the given size.
// The memory is locked if the platform supports it.
func New(size int) *Buffer {
	b := &Buffer{data: make([]byte, size)}

	// Best effort: absence of mlock is not fatal
	b.locked = mlock(b.data)

	// Finalizer guarantees a wipe even if Destroy is never called
	runtime.SetFinalizer(b, func(buf *Buffer) {
		buf.Destroy()
	})

	return b
}

// FromBytes copies data into a new Buffer.
// The caller remains responsible for wiping the source slice.
func FromBytes(data []byte) *Buffer {
	b := New(len(data))
	copy(b.data, data)
	return b
}

// FromString copies s into a new Buffer.
func FromString(s string) *Buffer {
	return FromBytes([]byte(s))
}

// Bytes returns the underlying slice, or nil after Destroy.
// The slice must not be retained past the Buffer's lifetime.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

// String returns a copy of the contents as a string.
// Note that the returned string cannot be wiped; use sparingly.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.data)
}

// Len returns the length of the data, 0 after Destroy.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Locked reports whether the memory is mlocked.
func (b *Buffer) Locked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locked
}

// Destroy zeros the memory and unlocks it. Safe to call multiple times.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.data == nil {
		return
	}

	for i := range b.data {
		b.data[i] = 0
	}

	if b.locked {
		munlock(b.data)
		b.locked = false
	}

	b.data = nil
	runtime.SetFinalizer(b, nil)
}

// Zero wipes a plain byte slice in place.
func Zero(data []byte) {
	for i := range data {
		data[i] = 0
	}
}
