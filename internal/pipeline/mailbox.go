// Package pipeline wires the dsp and modes packages into the two-thread
// producer/worker receiver: a single-slot mailbox hands IQ blocks from
// whatever sample source is active to the processing worker.
package pipeline

import (
	"sync"
	"sync/atomic"

	"go1090/internal/dsp"
)

// Mailbox is the single-slot handoff between the sample producer and the
// processing worker. It is deliberately not an unbounded queue: a
// producer that outruns the worker must observe an overflow rather than
// have it silently absorbed into a buffer.
type Mailbox struct {
	mu       sync.Mutex
	cond     *sync.Cond
	block    *dsp.Block
	occupied bool
	exiting  bool

	overflows atomic.Uint64
}

// NewMailbox returns an empty Mailbox.
func NewMailbox() *Mailbox {
	m := &Mailbox{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// TrySend attempts a non-blocking handoff of block. ok=false means the
// slot is still held by the worker: an overflow that the caller must
// report and then retry via Send.
func (m *Mailbox) TrySend(block *dsp.Block) (ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.occupied {
		m.overflows.Add(1)
		return false
	}
	m.block = block
	m.occupied = true
	m.cond.Signal()
	return true
}

// Overflows returns the number of times TrySend found the slot still
// occupied, since process start.
func (m *Mailbox) Overflows() uint64 {
	return m.overflows.Load()
}

// Send blocks until the slot is free, then hands off block. It is the
// overflow fallback: the producer never drops a block, only delays it.
func (m *Mailbox) Send(block *dsp.Block) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.occupied {
		m.cond.Wait()
	}
	m.block = block
	m.occupied = true
	m.cond.Signal()
}

// Receive blocks until a block is available or the mailbox is shutting
// down. ok=false signals shutdown with no block delivered.
func (m *Mailbox) Receive() (block *dsp.Block, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for !m.occupied && !m.exiting {
		m.cond.Wait()
	}
	if !m.occupied {
		return nil, false
	}
	return m.block, true
}

// Release marks the slot free once the worker has finished processing
// the block returned by Receive. The worker holds the slot for the full
// duration of processing, not just long enough to copy a pointer, so a
// producer blocked in Send stays blocked until the block is fully
// consumed end to end.
func (m *Mailbox) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.occupied = false
	m.block = nil
	m.cond.Broadcast()
}

// Shutdown sets the exit flag and wakes any goroutine waiting in Receive.
func (m *Mailbox) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exiting = true
	m.cond.Broadcast()
}
