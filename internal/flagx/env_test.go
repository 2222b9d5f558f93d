package flagx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("FLAGX_TEST_A=from-file\nFLAGX_TEST_B=from-file\n"), 0o600))

	t.Setenv("FLAGX_TEST_B", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("FLAGX_TEST_A") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))

	assert.Equal(t, "from-file", os.Getenv("FLAGX_TEST_A"))
	assert.Equal(t, "from-env", os.Getenv("FLAGX_TEST_B"))
}

func TestEnvString(t *testing.T) {
	dst := "default"
	EnvString("FLAGX_UNSET_KEY", &dst)
	assert.Equal(t, "default", dst)

	t.Setenv("FLAGX_STR", "value")
	EnvString("FLAGX_STR", &dst)
	assert.Equal(t, "value", dst)
}

func TestEnvDuration(t *testing.T) {
	d := time.Minute
	require.NoError(t, EnvDuration("FLAGX_UNSET_KEY", &d))
	assert.Equal(t, time.Minute, d)

	t.Setenv("FLAGX_DUR", "168h")
	require.NoError(t, EnvDuration("FLAGX_DUR", &d))
	assert.Equal(t, 168*time.Hour, d)

	t.Setenv("FLAGX_DUR", "a week")
	assert.Error(t, EnvDuration("FLAGX_DUR", &d))
	assert.Equal(t, 168*time.Hour, d)
}

func TestEnvInt(t *testing.T) {
	n := 5
	t.Setenv("FLAGX_INT", "12")
	require.NoError(t, EnvInt("FLAGX_INT", &n))
	assert.Equal(t, 12, n)

	t.Setenv("FLAGX_INT", "twelve")
	assert.Error(t, EnvInt("FLAGX_INT", &n))
}

func TestEnvBool(t *testing.T) {
	b := false
	t.Setenv("FLAGX_BOOL", "true")
	require.NoError(t, EnvBool("FLAGX_BOOL", &b))
	assert.True(t, b)

	t.Setenv("FLAGX_BOOL", "maybe")
	assert.Error(t, EnvBool("FLAGX_BOOL", &b))
	assert.True(t, b)
}
