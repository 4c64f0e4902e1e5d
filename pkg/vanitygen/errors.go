package vanitygen

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration is the parent of every error raised before the external
// tool is started. Such errors are never worth retrying.
var ErrConfiguration = errors.New("vanitygen: configuration error")

var (
	ErrUnknownNetwork    = fmt.Errorf("%w: unknown network", ErrConfiguration)
	ErrInvalidPatternSet = fmt.Errorf("%w: pattern set mixes literal and regexp patterns", ErrConfiguration)
	ErrNoPatterns        = fmt.Errorf("%w: no patterns", ErrConfiguration)
	ErrNilSink           = fmt.Errorf("%w: nil result sink", ErrConfiguration)
)

var (
	ErrNoRecord     = errors.New("vanitygen: tool exited cleanly but printed no result")
	ErrNoDifficulty = errors.New("vanitygen: no difficulty in tool output")
)

// ToolError reports a non-zero exit of the external tool together with what
// it printed on stderr.
type ToolError struct {
	Op       string
	ExitCode int
	Stderr   string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("vanitygen %s: exit status %d: %s", e.Op, e.ExitCode, strings.TrimSpace(e.Stderr))
}
