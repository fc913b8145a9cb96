// Package pathutil provides best-effort normalization of user-supplied
// filesystem paths.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Sanitize expands environment variable references ($VAR or ${VAR}) and a
// leading "~" in path, then resolves it to an absolute path against the
// current working directory. The path does not need to exist.
//
// Unset environment variables expand to the empty string. If the home
// directory cannot be determined the "~" is left as-is. Sanitize never
// fails; malformed input produces a best-effort result rather than an
// error.
func Sanitize(path string) string {
	expanded := os.ExpandEnv(path)

	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			expanded = filepath.Join(home, expanded[1:])
		}
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		// filepath.Abs only fails when the working directory is gone;
		// fall back to the expanded form.
		return expanded
	}
	return abs
}
