package mmapalloc

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears keys for the duration of the test. envconfig treats an
// empty but set variable as a value, so t.Setenv(k, "") is not enough.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	unsetEnv(t, "MMAPALLOC_ALIGN_POLICY", "MMAPALLOC_EMULATE_RESIZE", "MMAPALLOC_LOG_LEVEL")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, AlignOverAllocate, cfg.AlignPolicy)
	assert.False(t, cfg.EmulateResize)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("MMAPALLOC_ALIGN_POLICY", "Abort")
	t.Setenv("MMAPALLOC_EMULATE_RESIZE", "true")
	t.Setenv("MMAPALLOC_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, AlignAbort, cfg.AlignPolicy)
	assert.True(t, cfg.EmulateResize)
	assert.Equal(t, "debug", cfg.LogLevel)

	a := NewAllocator(cfg)
	assert.False(t, a.NativeResize())
}

func TestLoadConfigInvalid(t *testing.T) {
	unsetEnv(t, "MMAPALLOC_EMULATE_RESIZE", "MMAPALLOC_LOG_LEVEL")
	t.Setenv("MMAPALLOC_ALIGN_POLICY", "sometimes")
	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown alignment policy")

	t.Setenv("MMAPALLOC_ALIGN_POLICY", "")
	t.Setenv("MMAPALLOC_LOG_LEVEL", "loud")
	_, err = LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	t.Setenv("MMAPALLOC_LOG_LEVEL", "")
	t.Setenv("MMAPALLOC_EMULATE_RESIZE", "maybe")
	_, err = LoadConfig()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.NoError(t, Config{AlignPolicy: AlignAbort, LogLevel: "error"}.Validate())
	assert.Error(t, Config{AlignPolicy: AlignPolicy(7)}.Validate())
	assert.Error(t, Config{LogLevel: "chatty"}.Validate())
}

func TestAlignPolicyText(t *testing.T) {
	assert.Equal(t, "overallocate", AlignOverAllocate.String())
	assert.Equal(t, "abort", AlignAbort.String())
	assert.Equal(t, "AlignPolicy(9)", AlignPolicy(9).String())

	var p AlignPolicy
	require.NoError(t, p.UnmarshalText([]byte(" ABORT ")))
	assert.Equal(t, AlignAbort, p)
	require.NoError(t, p.UnmarshalText(nil))
	assert.Equal(t, AlignOverAllocate, p)
	assert.Error(t, p.UnmarshalText([]byte("never")))
}

func TestConfigureSetsLevel(t *testing.T) {
	l := logrus.New()
	prev := Logger()
	SetLogger(l)
	t.Cleanup(func() { SetLogger(prev) })

	require.NoError(t, Configure(Config{LogLevel: "debug"}))
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	require.NoError(t, Configure(Config{}))
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	assert.Error(t, Configure(Config{LogLevel: "nope"}))
}
