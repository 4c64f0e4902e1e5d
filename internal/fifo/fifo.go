// Package fifo creates the side-channel named pipe and streams the records
// the external tool writes into it.
package fifo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"VanityTools/internal/record"
	"VanityTools/pkg/logx"
)

const DefaultPollInterval = 50 * time.Millisecond

// Make creates a named pipe at path, readable and writable by the owner only.
func Make(path string) error {
	if err := unix.Mkfifo(path, 0o600); err != nil {
		return fmt.Errorf("mkfifo %q: %w", path, err)
	}
	return nil
}

// Remove deletes the pipe; a pipe that is already gone is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Reader streams records out of a named pipe. The writer may close and
// reopen its end any number of times: end-of-data only means no writer is
// attached right now, so the reader waits and reads again until its context
// is done or Drain was called.
//
// The read end stays open for the whole run. Closing it between writers
// would let a writer that is just opening its end find no reader and die
// with SIGPIPE on its first write.
type Reader struct {
	Path         string
	PollInterval time.Duration

	drainOnce sync.Once
	drain     chan struct{}
	initOnce  sync.Once
}

func (r *Reader) init() {
	r.initOnce.Do(func() {
		r.drain = make(chan struct{})
		if r.PollInterval <= 0 {
			r.PollInterval = DefaultPollInterval
		}
	})
}

// Drain tells Run to return at the next end-of-data instead of waiting for
// another writer. Call it once the writer is known to be gone.
func (r *Reader) Drain() {
	r.init()
	r.drainOnce.Do(func() { close(r.drain) })
}

func (r *Reader) draining() bool {
	select {
	case <-r.drain:
		return true
	default:
		return false
	}
}

// Run reads the pipe until ctx is done or, after Drain, until the pipe is
// empty with no writer attached. Every parsed record is passed to emit in
// order before the next read; an emit error stops Run and is returned.
// Run returns nil after a drain and ctx.Err() on cancellation.
func (r *Reader) Run(ctx context.Context, emit func(record.Record) error) error {
	r.init()
	log := logx.With("fifo").With("path", r.Path)

	// O_NONBLOCK: opening must not wait for a writer, or cancellation could hang here
	f, err := os.OpenFile(r.Path, os.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return fmt.Errorf("open pipe: %w", err)
	}
	defer f.Close()

	var dec record.Decoder
	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		// short deadlines keep a blocked read from outliving cancellation
		if err := f.SetReadDeadline(time.Now().Add(r.PollInterval)); err != nil {
			return fmt.Errorf("set read deadline: %w", err)
		}
		n, err := f.Read(buf)
		if n > 0 {
			if eerr := emitAll(dec.Write(buf[:n]), emit); eerr != nil {
				return eerr
			}
		}
		switch {
		case err == nil, errors.Is(err, os.ErrDeadlineExceeded):
			continue
		case errors.Is(err, io.EOF):
		default:
			return fmt.Errorf("read pipe: %w", err)
		}

		// end-of-data: a writer closing mid-line leaves nothing more to wait for
		if eerr := emitAll(dec.Flush(), emit); eerr != nil {
			return eerr
		}
		if r.draining() {
			log.Debugw("pipe drained")
			return nil
		}

		t := time.NewTimer(r.PollInterval)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

func emitAll(recs []record.Record, emit func(record.Record) error) error {
	for _, rec := range recs {
		if err := emit(rec); err != nil {
			return err
		}
	}
	return nil
}
