package vanitygen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	gops "github.com/shirou/gopsutil/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertGone(t *testing.T, pid int32) {
	t.Helper()
	assert.Eventually(t, func() bool {
		ok, err := gops.PidExists(pid)
		return err == nil && !ok
	}, 2*time.Second, 10*time.Millisecond, "tool pid %d still alive", pid)
}

func TestContinuousDeliversUntilToolExits(t *testing.T) {
	tool := newFakeTool(t, emitLoop(3))
	c, work := testClient(t, tool)

	var got []Record
	err := c.Continuous(context.Background(), Literals("1A", "1B"), Options{}, func(r Record) {
		got = append(got, r)
	})
	require.NoError(t, err)

	require.Len(t, got, 6)
	for i, r := range got {
		round := i / 2
		prefix := []string{"1A", "1B"}[i%2]
		assert.Equal(t, prefix, r.Pattern)
		assert.Equal(t, fmt.Sprintf("%s%04d", prefix, round), r.Address)
		assert.Equal(t, fmt.Sprintf("5K%04d", round), r.PrivateKey)
	}

	args := tool.args(t)
	require.Len(t, args, 5)
	assert.Equal(t, "-k", args[0])
	assert.Equal(t, "-f", args[1])
	assert.True(t, strings.HasPrefix(filepath.Base(args[2]), "vanitygen-patterns-"))
	assert.Equal(t, "-o", args[3])
	assert.True(t, strings.HasPrefix(filepath.Base(args[4]), "vanitygen-pipe-"))
	assert.Equal(t, "1A\n1B\n", tool.patterns(t))

	cwd, err := os.ReadFile(filepath.Join(tool.state, "cwd"))
	require.NoError(t, err)
	wantCwd, err := filepath.EvalSymlinks(work)
	require.NoError(t, err)
	assert.Equal(t, wantCwd, strings.TrimSpace(string(cwd)))

	assert.Empty(t, leftovers(t, work))
	assertGone(t, tool.pid(t))
}

func TestContinuousDrainsBacklogForSlowSink(t *testing.T) {
	tool := newFakeTool(t, `i=0
{
	while [ $i -lt 20 ]; do
		printf 'Pattern: 1A\nAddress: 1A%04d\nPrivkey: 5K%04d\n' $i $i
		i=$((i+1))
	done
} > "$out"`)
	c, work := testClient(t, tool)

	var got []string
	err := c.Continuous(context.Background(), Literals("1A"), Options{}, func(r Record) {
		time.Sleep(100 * time.Millisecond)
		got = append(got, r.Address)
	})
	require.NoError(t, err)

	require.Len(t, got, 20, "every record written before exit is delivered")
	assert.Equal(t, "1A0000", got[0])
	assert.Equal(t, "1A0019", got[19])
	assert.Empty(t, leftovers(t, work))
}

func TestContinuousIdlePipeAfterExit(t *testing.T) {
	// a leftover child keeps the write end open after the tool itself exits
	tool := newFakeTool(t, `sleep 30 > "$out" &
printf 'Pattern: 1A\nAddress: 1A0000\nPrivkey: 5K0000\n' > "$out"
exit 0`)
	c, work := testClient(t, tool)

	var n int
	start := time.Now()
	err := c.Continuous(context.Background(), Literals("1A"), Options{}, func(Record) { n++ })
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Empty(t, leftovers(t, work))
}

func TestContinuousRegexAndOptions(t *testing.T) {
	tool := newFakeTool(t, emitLoop(1))
	c, work := testClient(t, tool)
	require.NoError(t, c.SetNetwork("testnet3"))

	var n int
	err := c.Continuous(context.Background(),
		[]Pattern{MustCompile("[aA][bB]")},
		Options{CaseInsensitive: true, OutputFile: "ignored", PatternsFile: "ignored"},
		func(Record) { n++ })
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	args := tool.args(t)
	assert.Equal(t, []string{"-r", "-T", "-k", "-i", "-f"}, args[:5])
	assert.NotContains(t, args, "ignored")
	assert.Equal(t, "[aA][bB]\n", tool.patterns(t))
	assert.Empty(t, leftovers(t, work))
}

func TestContinuousCancelledByDeadline(t *testing.T) {
	tool := newFakeTool(t, emitLoop(-1))
	c, work := testClient(t, tool)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var n int
	start := time.Now()
	err := c.Continuous(ctx, Literals("1"), Options{}, func(r Record) {
		n++
		assert.True(t, strings.HasPrefix(r.Address, "1"))
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 3*time.Second)
	assert.Greater(t, n, 1)

	assert.Empty(t, leftovers(t, work))
	assertGone(t, tool.pid(t))
}

func TestContinuousCancelWhileToolIsSilent(t *testing.T) {
	tool := newFakeTool(t, `sleep 30`)
	c, work := testClient(t, tool)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := c.Continuous(ctx, Literals("1A"), Options{}, func(Record) {})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, leftovers(t, work))
	assertGone(t, tool.pid(t))
}

func TestContinuousToolIgnoringTerm(t *testing.T) {
	tool := newFakeTool(t, `trap '' TERM
while :; do sleep 0.05; done`)
	c, work := testClient(t, tool)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := c.Continuous(ctx, Literals("1A"), Options{}, func(Record) {})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// teardown waits one StopGrace before SIGKILL, bounded by the reader and kill waits
	grace := c.Config().StopGrace
	assert.GreaterOrEqual(t, time.Since(start), grace)
	assert.Less(t, time.Since(start), 3*grace+time.Second)
	assert.Empty(t, leftovers(t, work))
	assertGone(t, tool.pid(t))
}

func TestContinuousToolFailsImmediately(t *testing.T) {
	tool := newFakeTool(t, `echo "bad pattern" >&2; exit 1`)
	c, work := testClient(t, tool)

	called := false
	err := c.Continuous(context.Background(), Literals("1A"), Options{}, func(Record) { called = true })
	require.NoError(t, err, "a continuous run that stops is not an error")
	assert.False(t, called)
	assert.Empty(t, leftovers(t, work))
}

func TestContinuousMissingExecutable(t *testing.T) {
	work := t.TempDir()
	c, err := New(Config{Executable: filepath.Join(work, "no-such-tool"), WorkDir: work})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Continuous(ctx, Literals("1A"), Options{}, func(Record) {}) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrConfiguration)
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline hung without a tool")
	}
	assert.Empty(t, leftovers(t, work))
}

func TestContinuousSinkPanicStillTearsDown(t *testing.T) {
	tool := newFakeTool(t, emitLoop(-1))
	c, work := testClient(t, tool)

	func() {
		defer func() {
			assert.Equal(t, "sink exploded", recover())
		}()
		_ = c.Continuous(context.Background(), Literals("1A"), Options{}, func(Record) {
			panic("sink exploded")
		})
	}()

	assert.Empty(t, leftovers(t, work))
	assertGone(t, tool.pid(t))
}

func TestContinuousContractViolations(t *testing.T) {
	tool := newFakeTool(t, `exit 0`)
	c, work := testClient(t, tool)
	ctx := context.Background()

	err := c.Continuous(ctx, Literals("1A"), Options{}, nil)
	assert.ErrorIs(t, err, ErrNilSink)

	err = c.Continuous(ctx, nil, Options{}, func(Record) {})
	assert.ErrorIs(t, err, ErrNoPatterns)

	err = c.Continuous(ctx, []Pattern{MustCompile("(?i)ab"), Literal("1A")}, Options{}, func(Record) {})
	assert.ErrorIs(t, err, ErrInvalidPatternSet)

	_, statErr := os.Stat(filepath.Join(tool.state, "pid"))
	assert.True(t, os.IsNotExist(statErr), "no process may be spawned for a rejected call")
	assert.Empty(t, leftovers(t, work))
}

func TestContinuousUsesSettingsSnapshot(t *testing.T) {
	tool := newFakeTool(t, emitLoop(-1))
	c, _ := testClient(t, tool)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var once sync.Once
	err := c.Continuous(ctx, Literals("1A"), Options{}, func(Record) {
		once.Do(func() {
			require.NoError(t, c.SetNetwork("litecoin"))
			cancel()
		})
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, tool.args(t), "-L")
	assert.Equal(t, Litecoin, c.Network())
}

func TestSessionStates(t *testing.T) {
	s := newSession(Config{}.withDefaults(), Literals("1A"))
	assert.Equal(t, stateIdle, s.state)
	assert.Equal(t, "preparing", statePreparing.String())
	assert.Equal(t, "tearing_down", stateTearingDown.String())
	s.teardown()
	assert.Equal(t, stateDone, s.state)
}
