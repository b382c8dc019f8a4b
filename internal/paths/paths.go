package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// StateDirName is the per-project directory holding dpcheck state.
const StateDirName = ".dpcheck"

// StateDir returns the state directory under root.
func StateDir(root string) string {
	return filepath.Join(root, StateDirName)
}

// EnsureStateDir creates the state directory under root if needed and returns it.
func EnsureStateDir(root string) (string, error) {
	dir := StateDir(root)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", StateDirName, err)
	}
	return dir, nil
}

// ConfigPath returns the default config file location.
func ConfigPath(root string) string {
	return filepath.Join(StateDir(root), "config.json")
}

// StorePath returns the default baseline database location.
func StorePath(root string) string {
	return filepath.Join(StateDir(root), "baselines.db")
}

// LogPath returns the default log file location.
func LogPath(root string) string {
	return filepath.Join(StateDir(root), "logs", "dpcheck.log")
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidName reports whether s can be used as a feature or baseline name. Names
// become path segments, so separators and leading dots are refused.
func ValidName(s string) bool {
	return namePattern.MatchString(s) && !strings.Contains(s, "..")
}

// BaselineFile returns <dir>/<feature>/<name><ext> for exported baselines.
func BaselineFile(dir, feature, name, ext string) (string, error) {
	if !ValidName(feature) {
		return "", fmt.Errorf("invalid feature name %q", feature)
	}
	if !ValidName(name) {
		return "", fmt.Errorf("invalid baseline name %q", name)
	}
	return filepath.Join(dir, feature, name+ext), nil
}

// RelativeTo converts path to a root-relative path with forward slashes.
// Symlinks are resolved when the files exist.
func RelativeTo(path string, root string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		if os.IsNotExist(err) {
			resolved = path
		} else {
			return "", err
		}
	}

	rootResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		if os.IsNotExist(err) {
			rootResolved = root
		} else {
			return "", err
		}
	}

	rel, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// IsWithin checks if path is inside root.
func IsWithin(path string, root string) bool {
	rel, err := RelativeTo(path, root)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, "../")
}
