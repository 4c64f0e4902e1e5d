package logx

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const redacted = "[REDACTED]"

// maskingCore wraps a core and redacts sensitive structured fields and masks WIF keys in Entry.Message.
// It is intended to be used for console output only.
type maskingCore struct {
	zapcore.Core
	sensitive    map[string]struct{} // lowercased keys to redact
	maskPattern  *regexp.Regexp
	replaceValue string
}

func newMaskingCore(c zapcore.Core) *maskingCore {
	return &maskingCore{
		Core:         c,
		sensitive:    defaultSensitiveKeys(),
		maskPattern:  defaultMaskPattern(),
		replaceValue: redacted,
	}
}

func (m *maskingCore) redact(fields []zapcore.Field) []zapcore.Field {
	if len(fields) == 0 {
		return fields
	}
	out := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if _, ok := m.sensitive[strings.ToLower(f.Key)]; ok {
			out = append(out, zap.String(f.Key, m.replaceValue))
			continue
		}
		out = append(out, f)
	}
	return out
}

// With must keep the wrapper, otherwise fields attached via logger.With bypass redaction.
func (m *maskingCore) With(fields []zapcore.Field) zapcore.Core {
	return &maskingCore{
		Core:         m.Core.With(m.redact(fields)),
		sensitive:    m.sensitive,
		maskPattern:  m.maskPattern,
		replaceValue: m.replaceValue,
	}
}

func (m *maskingCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if m.Enabled(entry.Level) {
		return ce.AddCore(entry, m)
	}
	return ce
}

func (m *maskingCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if m.maskPattern != nil && entry.Message != "" {
		entry.Message = m.maskPattern.ReplaceAllString(entry.Message, m.replaceValue)
	}
	return m.Core.Write(entry, m.redact(fields))
}

func defaultSensitiveKeys() map[string]struct{} {
	keys := []string{
		"private_key", "privatekey", "privkey", "priv", "wif",
		"secret", "password", "passphrase", "key",
	}
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}

func defaultMaskPattern() *regexp.Regexp {
	// base58 WIF: 51 chars uncompressed (5/9/...), 52 chars compressed (K/L/c)
	return regexp.MustCompile(`\b[5KLc9][1-9A-HJ-NP-Za-km-z]{50,51}\b`)
}
