package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go1090/internal/dsp"
)

func TestMailboxTrySendWhenFree(t *testing.T) {
	m := NewMailbox()
	block := &dsp.Block{Index: 1}
	assert.True(t, m.TrySend(block))

	got, ok := m.Receive()
	assert.True(t, ok)
	assert.Same(t, block, got)
}

func TestMailboxTrySendOverflowsWhenOccupied(t *testing.T) {
	m := NewMailbox()
	assert.True(t, m.TrySend(&dsp.Block{Index: 1}))
	assert.False(t, m.TrySend(&dsp.Block{Index: 2}), "a second TrySend before Release must report overflow")
	assert.Equal(t, uint64(1), m.Overflows())
}

func TestMailboxSendBlocksUntilReleased(t *testing.T) {
	m := NewMailbox()
	assert.True(t, m.TrySend(&dsp.Block{Index: 1}))

	sent := make(chan struct{})
	go func() {
		m.Send(&dsp.Block{Index: 2})
		close(sent)
	}()

	select {
	case <-sent:
		t.Fatal("Send returned before the slot was released")
	case <-time.After(20 * time.Millisecond):
	}

	_, ok := m.Receive()
	assert.True(t, ok)
	m.Release()

	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("Send never unblocked after Release")
	}
}

func TestMailboxShutdownWakesReceive(t *testing.T) {
	m := NewMailbox()
	done := make(chan bool)
	go func() {
		_, ok := m.Receive()
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	m.Shutdown()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Receive never woke up after Shutdown")
	}
}
