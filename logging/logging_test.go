package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCodeAlone/bootkit/component"
	"github.com/GoCodeAlone/bootkit/config"
	"github.com/GoCodeAlone/bootkit/terminal"
)

var _ component.Logger = (*Logging)(nil)

func provider(t *testing.T, data string) config.Provider {
	t.Helper()
	var cfg struct{}
	doc, err := config.Load([]byte(data), config.FormatTOML, &cfg)
	require.NoError(t, err)
	return config.NewStdProvider(&cfg, doc)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestNewDefaultsToInfo(t *testing.T) {
	t.Setenv(EnvLevel, "")
	var buf bytes.Buffer
	l := New(Options{}, &buf)

	l.Debug("hidden")
	l.Info("shown", "key", "value")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown key=value")
}

func TestVerboseWinsOverConfig(t *testing.T) {
	t.Setenv(EnvLevel, "error")
	l := New(Options{Verbose: true}, &bytes.Buffer{})
	assert.Equal(t, slog.LevelDebug, l.Level())

	require.NoError(t, l.AfterConfig(provider(t, "[logging]\nlevel = \"warn\"\n")))
	assert.Equal(t, slog.LevelDebug, l.Level())
}

func TestEnvLevel(t *testing.T) {
	t.Setenv(EnvLevel, "warn")
	l := New(Options{}, &bytes.Buffer{})
	assert.Equal(t, slog.LevelWarn, l.Level())
}

func TestAfterConfigAppliesSection(t *testing.T) {
	t.Setenv(EnvLevel, "")
	var buf bytes.Buffer
	l := New(Options{}, &buf)

	require.NoError(t, l.AfterConfig(provider(t, "[logging]\nlevel = \"debug\"\nformat = \"json\"\n")))
	assert.Equal(t, slog.LevelDebug, l.Level())

	l.Debug("configured", "component", "db")
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "configured", record["msg"])
	assert.Equal(t, "db", record["component"])
}

func TestAfterConfigRejectsBadValues(t *testing.T) {
	t.Setenv(EnvLevel, "")
	l := New(Options{}, &bytes.Buffer{})
	assert.ErrorIs(t, l.AfterConfig(provider(t, "[logging]\nlevel = \"loud\"\n")), ErrInvalidLevel)
	assert.ErrorIs(t, l.AfterConfig(provider(t, "[logging]\nformat = \"xml\"\n")), ErrInvalidFormat)
}

func TestAfterConfigWithoutSection(t *testing.T) {
	l := New(Options{}, &bytes.Buffer{})
	assert.NoError(t, l.AfterConfig(config.NewStdProvider(nil, nil)))
	assert.NoError(t, l.AfterConfig(nil))
}

func TestLoggingSwitchesToTerminalStderr(t *testing.T) {
	t.Setenv(EnvLevel, "")
	var initial, stdout, stderr bytes.Buffer
	term := terminal.New(terminal.ColorNever, &stdout, &stderr)
	l := New(Options{}, &initial)

	r := component.NewRegistry(nil)
	require.NoError(t, r.Register(l, term))
	assert.Equal(t, []component.ID{terminal.ComponentID, ComponentID}, r.IDs())
	require.NoError(t, r.AfterConfig(config.NewStdProvider(nil, nil)))

	l.Info("after injection")
	assert.Empty(t, initial.String())
	assert.Contains(t, stderr.String(), "after injection")
	assert.Empty(t, stdout.String())
}
