package logsink

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Match is one line of a per-kind match log.
type Match struct {
	Kind    string // literal|regexp
	Pattern string
	Address string
	Elapsed time.Duration
	Seq     uint64
}

func (m Match) line() string {
	return fmt.Sprintf("#%d address=%s pattern=%q elapsed=%s", m.Seq, m.Address, m.Pattern, m.Elapsed.Round(time.Millisecond))
}

// WriteMatch appends m to <dir>/<kind>.log. Keys never go into this file.
func WriteMatch(dir string, m Match) error {
	kind := m.Kind
	if kind == "" {
		kind = "match"
	}
	f, err := OpenAppend(filepath.Join(dir, kind+".log"))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(m.line() + "\n")
	return err
}

func WriteHint(dir, hint string) error {
	if hint == "" {
		return nil
	}
	return os.WriteFile(filepath.Join(dir, "hint.txt"), []byte(hint), 0o600)
}
