package fifo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VanityTools/internal/record"
)

func newPipe(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipe")
	require.NoError(t, Make(path))
	return path
}

func triple(i int) string {
	return fmt.Sprintf("Pattern: 1A\nAddress: 1A%04d\nPrivkey: 5J%04d\n", i, i)
}

// writeSession opens the write end, writes the chunks and closes it.
func writeSession(t *testing.T, path string, chunks ...string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	require.NoError(t, err)
	for _, c := range chunks {
		_, err := f.WriteString(c)
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())
}

type collector struct {
	mu   sync.Mutex
	recs []record.Record
}

func (c *collector) emit(r record.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recs = append(c.recs, r)
	return nil
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.recs)
}

func (c *collector) snapshot() []record.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]record.Record(nil), c.recs...)
}

func TestMakeAndRemove(t *testing.T) {
	path := newPipe(t)
	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, st.Mode()&os.ModeNamedPipe != 0)

	require.Error(t, Make(path), "second mkfifo on the same path must fail")
	require.NoError(t, Remove(path))
	require.NoError(t, Remove(path))
	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReaderSurvivesWriterReopen(t *testing.T) {
	path := newPipe(t)
	r := &Reader{Path: path, PollInterval: 10 * time.Millisecond}
	var c collector

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, c.emit) }()

	writeSession(t, path, triple(0), triple(1))
	writeSession(t, path, triple(2))
	// a record split across two writer sessions
	writeSession(t, path, "Pattern: 1A\nAddress: 1A0003\n")
	writeSession(t, path, "Privkey: 5J0003\n")

	require.Eventually(t, func() bool { return c.len() == 4 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	got := c.snapshot()
	for i, rec := range got {
		assert.Equal(t, fmt.Sprintf("1A%04d", i), rec.Address)
		assert.Equal(t, fmt.Sprintf("5J%04d", i), rec.PrivateKey)
	}
}

func TestReaderCancelWithoutWriter(t *testing.T) {
	r := &Reader{Path: newPipe(t)}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, func(record.Record) error { return nil }) }()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("reader did not stop after cancel")
	}
}

func TestReaderCancelWithIdleWriter(t *testing.T) {
	path := newPipe(t)
	r := &Reader{Path: path, PollInterval: 10 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, func(record.Record) error { return nil }) }()

	// holding the write end open keeps the reader blocked in read
	w, err := os.OpenFile(path, os.O_WRONLY, 0)
	require.NoError(t, err)
	defer w.Close()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("reader blocked on an idle writer")
	}
}

func TestReaderDrain(t *testing.T) {
	path := newPipe(t)
	r := &Reader{Path: path, PollInterval: 10 * time.Millisecond}
	var c collector
	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background(), c.emit) }()

	writeSession(t, path, triple(0))
	require.Eventually(t, func() bool { return c.len() == 1 }, 2*time.Second, 10*time.Millisecond)

	r.Drain()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("reader did not return after drain")
	}
}

func TestReaderEmitErrorStops(t *testing.T) {
	path := newPipe(t)
	r := &Reader{Path: path, PollInterval: 10 * time.Millisecond}
	boom := errors.New("sink full")
	done := make(chan error, 1)
	go func() {
		done <- r.Run(context.Background(), func(record.Record) error { return boom })
	}()

	writeSession(t, path, triple(0))
	select {
	case err := <-done:
		assert.ErrorIs(t, err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("reader ignored emit error")
	}
}

func TestReaderMissingPipe(t *testing.T) {
	r := &Reader{Path: filepath.Join(t.TempDir(), "absent")}
	err := r.Run(context.Background(), func(record.Record) error { return nil })
	require.Error(t, err)
}
