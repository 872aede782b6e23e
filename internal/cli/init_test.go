package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("EXPENSE_TEST_KEY=from-file\n"), 0o600))
	t.Setenv("EXPENSE_TEST_KEY", "")
	require.NoError(t, os.Unsetenv("EXPENSE_TEST_KEY"))

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("EXPENSE_TEST_KEY"))
}

func TestLoadEnvFileMissingIsIgnored(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
}

func TestSetupLogger(t *testing.T) {
	logger := SetupLogger("bogus")
	require.NotNil(t, logger)
	assert.Equal(t, "app", logger.Component())
}
