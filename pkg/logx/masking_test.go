package logx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const wif = "5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTJ"

func TestMaskingCoreRedacts(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(newMaskingCore(obs))

	log.Info("found "+wif, zap.String("wif", wif), zap.String("address", "1Boat"))
	log.With(zap.String("password", "hunter2")).Info("with fields")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "found "+redacted, entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, redacted, ctx["wif"])
	assert.Equal(t, "1Boat", ctx["address"])

	assert.Equal(t, redacted, entries[1].ContextMap()["password"])
}

func TestMaskingCoreRespectsLevel(t *testing.T) {
	obs, logs := observer.New(zapcore.WarnLevel)
	log := zap.New(newMaskingCore(obs))
	log.Info("dropped")
	log.Warn("kept")
	require.Len(t, logs.All(), 1)
	assert.Equal(t, "kept", logs.All()[0].Message)
}

func TestInitFileKeepsSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "{pid}.log")
	require.NoError(t, Init(Config{Level: "debug", FilePath: path, HideSecretsInConsole: true}))
	S().Infow("FOUND", "wif", wif)
	Close()

	resolved := resolvePath(path)
	raw, err := os.ReadFile(resolved)
	require.NoError(t, err)
	assert.Contains(t, string(raw), wif, "only the console is masked")

	require.NoError(t, Init(Config{ConsoleOnly: true}))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel(" DEBUG "))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("err"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}
