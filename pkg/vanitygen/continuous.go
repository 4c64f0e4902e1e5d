package vanitygen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"VanityTools/internal/fifo"
	"VanityTools/internal/process"
	"VanityTools/internal/record"
	"VanityTools/pkg/logx"
)

// Record is one match: the pattern it satisfied, the address and its private key.
type Record = record.Record

type state int

const (
	stateIdle state = iota
	statePreparing
	stateRunning
	stateTearingDown
	stateDone
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case statePreparing:
		return "preparing"
	case stateRunning:
		return "running"
	case stateTearingDown:
		return "tearing_down"
	case stateDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// session owns the resources of one continuous run: the pattern file, the
// pipe, the tool process and the stream reader.
type session struct {
	id       string
	cfg      Config
	patterns []Pattern
	log      *zap.SugaredLogger
	state    state
	releases releaseStack

	dir          string
	patternsFile string
	pipePath     string
	flags        []string
	proc         *process.Handle
}

// Continuous runs the tool in continuous mode and calls sink with every
// result, in the order the tool reported them, on the calling goroutine.
//
// It returns nil once the tool exits on its own (whatever its status),
// ctx.Err() when ctx is cancelled first, or the error that kept the run from
// starting. In every case the tool process, the pipe and the pattern file are
// gone by the time it returns.
//
// After the tool exits the pipe is read until it is empty; DrainTimeout only
// bounds how long the pipe may stay idle while some other process still holds
// its write end. Teardown does not detach: it waits up to StopGrace for the
// stream reader, then up to StopGrace for the tool to exit after SIGTERM before
// sending SIGKILL, so a tool that ignores SIGTERM delays the return by that much.
func (c *Client) Continuous(ctx context.Context, patterns []Pattern, opt Options, sink func(Record)) error {
	if sink == nil {
		return ErrNilSink
	}
	if len(patterns) == 0 {
		return ErrNoPatterns
	}
	if _, err := checkPatternSet(patterns); err != nil {
		return err
	}

	s := newSession(c.Config(), patterns)
	defer s.teardown()

	if err := s.prepare(opt); err != nil {
		return err
	}
	return s.run(ctx, sink)
}

// Continuous runs Default().Continuous.
func Continuous(ctx context.Context, patterns []Pattern, opt Options, sink func(Record)) error {
	return std.Continuous(ctx, patterns, opt, sink)
}

func newSession(cfg Config, patterns []Pattern) *session {
	id := strings.ToLower(ulid.Make().String())
	return &session{
		id:       id,
		cfg:      cfg,
		patterns: patterns,
		log:      logx.With("vanitygen").With("session", id),
	}
}

func (s *session) enter(next state) {
	s.log.Debugw("session state", "from", s.state.String(), "to", next.String())
	s.state = next
}

func (s *session) prepare(opt Options) error {
	s.enter(statePreparing)

	dir := s.cfg.WorkDir
	if dir == "" {
		dir = os.TempDir()
	}
	// the tool runs in WorkDir, so hand it absolute paths
	dir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve temp dir: %w", err)
	}
	s.dir = dir

	f, err := os.CreateTemp(dir, "vanitygen-patterns-")
	if err != nil {
		return fmt.Errorf("create pattern file: %w", err)
	}
	s.patternsFile = f.Name()
	s.releases.push("pattern file", func() error {
		return multierr.Append(ignoreClosed(f.Close()), removeIfExists(f.Name()))
	})
	var b strings.Builder
	for _, p := range s.patterns {
		b.WriteString(p.Source())
		b.WriteByte('\n')
	}
	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("write pattern file: %w", err)
	}

	s.pipePath = filepath.Join(dir, "vanitygen-pipe-"+s.id)
	if err := fifo.Make(s.pipePath); err != nil {
		return err
	}
	s.releases.push("pipe", func() error { return fifo.Remove(s.pipePath) })

	opt.Continuous = true
	opt.PatternsFile = s.patternsFile
	opt.OutputFile = s.pipePath
	s.flags, err = BuildFlags(s.patterns, opt, s.cfg.Network)
	if err != nil {
		return err
	}
	return nil
}

func (s *session) run(ctx context.Context, sink func(Record)) error {
	s.enter(stateRunning)

	// the tool spams progress on stdout/stderr; results only come through the pipe
	proc, err := process.Spawn(s.cfg.Executable, s.flags, process.Attr{Dir: s.cfg.WorkDir})
	if err != nil {
		return err
	}
	s.proc = proc
	s.releases.push("process", func() error { return proc.Stop(s.cfg.StopGrace) })
	s.log.Infow("vanitygen started",
		"pid", proc.Pid(),
		"executable", s.cfg.Executable,
		"network", s.cfg.Network.String(),
		"args", s.flags,
	)

	reader := &fifo.Reader{Path: s.pipePath, PollInterval: s.cfg.PollInterval}
	readerCtx, stopReader := context.WithCancel(ctx)
	records := make(chan Record)
	readerErr := make(chan error, 1)
	readerStopped := make(chan struct{})
	go func() {
		defer close(readerStopped)
		readerErr <- reader.Run(readerCtx, func(rec Record) error {
			select {
			case records <- rec:
				return nil
			case <-readerCtx.Done():
				return readerCtx.Err()
			}
		})
	}()
	s.releases.push("stream reader", func() error {
		stopReader()
		select {
		case <-readerStopped:
			return nil
		case <-time.After(s.cfg.StopGrace):
			return errors.New("stream reader did not stop in time")
		}
	})

	procDone := proc.Done()
	var drainDeadline <-chan time.Time
	for {
		select {
		case rec := <-records:
			sink(rec)
			if procDone == nil {
				// idle bound: time spent in sink does not count
				drainDeadline = time.After(s.cfg.DrainTimeout)
			}

		case <-procDone:
			procDone = nil
			code, _ := proc.Wait(context.Background())
			s.log.Infow("vanitygen exited", "pid", proc.Pid(), "exit_code", code)
			reader.Drain()
			drainDeadline = time.After(s.cfg.DrainTimeout)

		case err := <-readerErr:
			if procDone == nil {
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("stream reader: %w", err)

		case <-drainDeadline:
			s.log.Warnw("pipe still held open after vanitygen exited, giving up on it")
			return nil

		case <-ctx.Done():
			s.log.Infow("session cancelled", "reason", ctx.Err())
			return ctx.Err()
		}
	}
}

func (s *session) teardown() {
	s.enter(stateTearingDown)
	if err := s.releases.unwind(); err != nil {
		s.log.Warnw("teardown incomplete", "err", err)
	}
	s.enter(stateDone)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func ignoreClosed(err error) error {
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}
