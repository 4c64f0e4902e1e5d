package vanitygen

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeTool writes a shell script standing in for vanitygen. Every run records
// its arguments and pid in the returned state dir.
type fakeTool struct {
	path  string
	state string
}

func newFakeTool(t *testing.T, body string) fakeTool {
	t.Helper()
	dir := t.TempDir()
	state := filepath.Join(dir, "state")
	require.NoError(t, os.Mkdir(state, 0o755))

	script := fmt.Sprintf(`#!/bin/sh
STATE=%q
printf '%%s\n' "$@" > "$STATE/args"
echo $$ > "$STATE/pid"
pwd > "$STATE/cwd"
all=" $* "
out=""
pf=""
last=""
for a in "$@"; do last="$a"; done
while [ $# -gt 0 ]; do
	case "$1" in
	-o) out="$2"; shift 2 ;;
	-f) pf="$2"; shift 2 ;;
	*) shift ;;
	esac
done
[ -n "$pf" ] && cp "$pf" "$STATE/patterns"
%s
`, state, body)

	path := filepath.Join(dir, "vanitygen")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return fakeTool{path: path, state: state}
}

func (f fakeTool) args(t *testing.T) []string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(f.state, "args"))
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(b), "\n"), "\n")
}

func (f fakeTool) patterns(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(f.state, "patterns"))
	require.NoError(t, err)
	return string(b)
}

func (f fakeTool) pid(t *testing.T) int32 {
	t.Helper()
	var pid int
	require.Eventually(t, func() bool {
		b, err := os.ReadFile(filepath.Join(f.state, "pid"))
		if err != nil {
			return false
		}
		pid, err = strconv.Atoi(strings.TrimSpace(string(b)))
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	return int32(pid)
}

// emitLoop writes n rounds of one triple per pattern, reopening the pipe for
// every record like the real tool does. n < 0 loops forever.
func emitLoop(n int) string {
	return fmt.Sprintf(`i=0
while [ %d -lt 0 ] || [ $i -lt %d ]; do
	while read -r p; do
		printf 'Pattern: %%s\nAddress: %%s%%04d\nPrivkey: 5K%%04d\n' "$p" "$p" $i $i > "$out"
	done < "$pf"
	i=$((i+1))
	sleep 0.01
done`, n, n)
}

func testClient(t *testing.T, tool fakeTool) (*Client, string) {
	t.Helper()
	work := t.TempDir()
	c, err := New(Config{
		Executable:   tool.path,
		WorkDir:      work,
		PollInterval: 10 * time.Millisecond,
		DrainTimeout: 500 * time.Millisecond,
		StopGrace:    time.Second,
	})
	require.NoError(t, err)
	return c, work
}

// leftovers lists the pipeline's temporary files still present in dir.
func leftovers(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "vanitygen-") {
			out = append(out, e.Name())
		}
	}
	return out
}
