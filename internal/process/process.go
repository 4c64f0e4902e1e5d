// Package process supervises one external executable: it spawns it in its
// own process group, reaps it in the background, and stops it on request.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/process"
	"golang.org/x/sys/unix"
)

// Attr controls how the child is started. Nil writers discard output.
type Attr struct {
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// Handle is a running (or finished) child process.
type Handle struct {
	cmd  *exec.Cmd
	done chan struct{}

	mu       sync.Mutex
	exitCode int
	waitErr  error
}

// Spawn starts exe with args. The child is reaped by a background goroutine,
// so a Handle never leaves a zombie even if nobody calls Wait.
func Spawn(exe string, args []string, attr Attr) (*Handle, error) {
	cmd := exec.Command(exe, args...)
	cmd.Dir = attr.Dir
	cmd.Stdout = attr.Stdout
	cmd.Stderr = attr.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	// a grandchild holding stdout open must not keep Wait from returning
	cmd.WaitDelay = time.Second

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", exe, err)
	}

	h := &Handle{cmd: cmd, done: make(chan struct{}), exitCode: -1}
	go h.reap()
	return h, nil
}

func (h *Handle) reap() {
	err := h.cmd.Wait()

	h.mu.Lock()
	h.exitCode = h.cmd.ProcessState.ExitCode()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		h.waitErr = err
	}
	h.mu.Unlock()

	close(h.done)
}

func (h *Handle) Pid() int { return h.cmd.Process.Pid }

// Done is closed once the child has exited and been reaped.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the child exits or ctx is done. The exit code is -1 when
// the child was killed by a signal.
func (h *Handle) Wait(ctx context.Context) (int, error) {
	select {
	case <-h.done:
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.exitCode, h.waitErr
	case <-ctx.Done():
		return -1, ctx.Err()
	}
}

// Terminate asks the child's process group to stop with SIGTERM. A child
// that already exited on its own is not an error.
func (h *Handle) Terminate() error {
	return h.signal(unix.SIGTERM)
}

// Kill sends SIGKILL to the child's process group.
func (h *Handle) Kill() error {
	return h.signal(unix.SIGKILL)
}

func (h *Handle) signal(sig unix.Signal) error {
	select {
	case <-h.done:
		return nil
	default:
	}
	err := unix.Kill(-h.Pid(), sig)
	if err == nil || errors.Is(err, unix.ESRCH) {
		return nil
	}
	// the group may already be gone while the leader is still signalable
	if perr := h.cmd.Process.Signal(sig); perr == nil || errors.Is(perr, os.ErrProcessDone) {
		return nil
	}
	return fmt.Errorf("signal %v to pid %d: %w", sig, h.Pid(), err)
}

// Stop terminates the child, waits up to grace for it to exit and kills it
// if it is still around. It returns once the child has been reaped or the
// kill has been sent.
func (h *Handle) Stop(grace time.Duration) error {
	if err := h.Terminate(); err != nil {
		return err
	}
	t := time.NewTimer(grace)
	defer t.Stop()
	select {
	case <-h.done:
		return nil
	case <-t.C:
	}
	if err := h.Kill(); err != nil {
		return err
	}
	select {
	case <-h.done:
	case <-time.After(grace):
		return fmt.Errorf("pid %d did not exit after SIGKILL", h.Pid())
	}
	return nil
}

// Alive reports whether the child is still running.
func (h *Handle) Alive() bool {
	select {
	case <-h.done:
		return false
	default:
	}
	ok, err := process.PidExists(int32(h.Pid()))
	return err == nil && ok
}
