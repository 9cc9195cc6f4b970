// Package env locates the directories llarhub keeps its state in.
package env

import (
	"os"
	"path/filepath"
)

// WorkspaceEnv overrides the default workspace location.
const WorkspaceEnv = "LLARHUB_WORKSPACE"

// WorkDir returns the root of the llarhub state: $LLARHUB_WORKSPACE when set,
// otherwise <user cache dir>/.llarhub.
func WorkDir() (string, error) {
	if dir := os.Getenv(WorkspaceEnv); dir != "" {
		return dir, nil
	}
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userCacheDir, ".llarhub"), nil
}

// DownloadDir returns the directory caching downloaded source archives under
// workspace, creating it if needed.
func DownloadDir(workspace string) (string, error) {
	dir := filepath.Join(workspace, "downloads")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}
