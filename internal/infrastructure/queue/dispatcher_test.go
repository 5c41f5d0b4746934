package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beside-app/beside-api/internal/core/ports"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []ports.MailMessage
	err  error
	done chan struct{}
}

func (m *recordingMailer) Send(_ context.Context, msg ports.MailMessage) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	m.done <- struct{}{}
	return m.err
}

func waitFor(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d deliveries", i, n)
		}
	}
}

func TestDispatcher_DeliversInOrderPerRecipient(t *testing.T) {
	mailer := &recordingMailer{done: make(chan struct{}, 16)}
	d := NewDispatcher(3, mailer, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for _, subj := range []string{"one", "two", "three"} {
		d.Enqueue(ports.MailMessage{To: "alice@example.com", Subject: subj})
	}
	waitFor(t, mailer.done, 3)

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	require.Len(t, mailer.sent, 3)
	assert.Equal(t, "one", mailer.sent[0].Subject)
	assert.Equal(t, "two", mailer.sent[1].Subject)
	assert.Equal(t, "three", mailer.sent[2].Subject)
}

func TestDispatcher_FailureDoesNotStopWorker(t *testing.T) {
	mailer := &recordingMailer{done: make(chan struct{}, 4), err: errors.New("smtp down")}
	d := NewDispatcher(1, mailer, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(ports.MailMessage{To: "a@example.com"})
	d.Enqueue(ports.MailMessage{To: "b@example.com"})
	waitFor(t, mailer.done, 2)
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, &recordingMailer{}, zerolog.Nop())
	assert.Len(t, d.workers, defaultWorkers)

	first := d.shardIndex("alice@example.com")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.shardIndex("alice@example.com"))
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, defaultWorkers)
}

func TestDispatcher_EnqueueDropsWhenFull(t *testing.T) {
	d := NewDispatcher(1, &recordingMailer{}, zerolog.Nop())
	// Workers are not started, so the buffer fills up.
	for i := 0; i < channelBuffer+5; i++ {
		d.Enqueue(ports.MailMessage{To: "alice@example.com"})
	}
	assert.Len(t, d.workers[0], channelBuffer)
}
