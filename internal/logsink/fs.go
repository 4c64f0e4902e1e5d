package logsink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RunDir lays out <base>/<module>/<DD.MM.YYYY>/<module>[_<tag>]_<HH-MM-SS>.
type RunDir struct {
	Base   string
	Module string
	Tag    string // e.g. network name or "keystore"
	Now    func() time.Time
}

func (r RunDir) Make() (string, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	t := now()

	parts := []string{r.Module}
	if r.Tag != "" {
		parts = append(parts, r.Tag)
	}
	parts = append(parts, t.Format("15-04-05"))

	dir := filepath.Join(r.Base, r.Module, t.Format("02.01.2006"), strings.Join(parts, "_"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}
	return dir, nil
}

func OpenAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
