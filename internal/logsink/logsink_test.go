package logsink

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDirLayout(t *testing.T) {
	base := t.TempDir()
	at := time.Date(2024, 3, 9, 7, 5, 1, 0, time.UTC)

	dir, err := RunDir{Base: base, Module: "search", Tag: "testnet3", Now: func() time.Time { return at }}.Make()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "search", "09.03.2024", "search_testnet3_07-05-01"), dir)
	assert.DirExists(t, dir)

	dir, err = RunDir{Base: base, Module: "decrypt", Now: func() time.Time { return at }}.Make()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "decrypt", "09.03.2024", "decrypt_07-05-01"), dir)
}

func TestWriteMatchAppendsPerKind(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteMatch(dir, Match{Kind: "literal", Pattern: "1Boat", Address: "1BoatX", Seq: 1, Elapsed: 1500 * time.Millisecond}))
	require.NoError(t, WriteMatch(dir, Match{Kind: "literal", Pattern: "1Boat", Address: "1BoatY", Seq: 2}))
	require.NoError(t, WriteMatch(dir, Match{Kind: "regexp", Pattern: "^1B", Address: "1BZ", Seq: 3}))

	raw, err := os.ReadFile(filepath.Join(dir, "literal.log"))
	require.NoError(t, err)
	assert.Equal(t,
		"#1 address=1BoatX pattern=\"1Boat\" elapsed=1.5s\n#2 address=1BoatY pattern=\"1Boat\" elapsed=0s\n",
		string(raw))
	assert.FileExists(t, filepath.Join(dir, "regexp.log"))
}

func TestWriteHint(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteHint(dir, ""))
	assert.NoFileExists(t, filepath.Join(dir, "hint.txt"))

	require.NoError(t, WriteHint(dir, "pet name"))
	raw, err := os.ReadFile(filepath.Join(dir, "hint.txt"))
	require.NoError(t, err)
	assert.Equal(t, "pet name", string(raw))
}
