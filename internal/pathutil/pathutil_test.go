package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize_HomeExpansion(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	got := Sanitize("~/datasets/raw.csv")
	assert.Equal(t, "/home/tester/datasets/raw.csv", got)
	assert.True(t, filepath.IsAbs(got))
}

func TestSanitize_TildeAlone(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, "/home/tester", Sanitize("~"))
}

func TestSanitize_EnvExpansion(t *testing.T) {
	t.Setenv("FOO", "/tmp")

	got := Sanitize("$FOO/bar")
	assert.Equal(t, "/tmp/bar", got)
}

func TestSanitize_BracedEnvExpansion(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/data")

	assert.Equal(t, "/var/data/x.csv", Sanitize("${DATA_DIR}/x.csv"))
}

func TestSanitize_UnsetVariableExpandsEmpty(t *testing.T) {
	// An unset variable expands to the empty string, leaving the rest of
	// the path to resolve on its own.
	got := Sanitize("$RENTAL_PIPELINE_SURELY_UNSET/x")
	assert.Equal(t, "/x", got)
}

func TestSanitize_RelativePathResolvedAgainstCwd(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cwd, "a", "b.csv"), Sanitize("a/b.csv"))
}

func TestSanitize_AbsolutePathUnchanged(t *testing.T) {
	assert.Equal(t, "/etc/hosts", Sanitize("/etc/hosts"))
}

func TestSanitize_NonexistentPathStillResolves(t *testing.T) {
	got := Sanitize("/no/such/dir/file.csv")
	assert.Equal(t, "/no/such/dir/file.csv", got)
}
