// Package state centralizes filesystem locations for netlog runtime artifacts.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// StateDirEnv overrides the default runtime state root.
	StateDirEnv = "NETLOG_STATE_DIR"

	// DownloadDirEnv overrides the default download directory.
	DownloadDirEnv = "XDG_DOWNLOAD_DIR"

	xdgStateHomeEnv = "XDG_STATE_HOME"
	appName         = "netlog"
)

// RootDir returns the runtime state root for netlog.
// Resolution order:
//  1. NETLOG_STATE_DIR (if set)
//  2. XDG_STATE_HOME/netlog (if XDG_STATE_HOME is set)
//  3. os.UserConfigDir()/netlog (cross-platform fallback)
func RootDir() (string, error) {
	if override := strings.TrimSpace(os.Getenv(StateDirEnv)); override != "" {
		return normalizePath(override)
	}

	if xdg := strings.TrimSpace(os.Getenv(xdgStateHomeEnv)); xdg != "" {
		root, err := normalizePath(xdg)
		if err != nil {
			return "", err
		}
		return filepath.Join(root, appName), nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user config directory: %w", err)
	}
	root, err := normalizePath(configDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, appName), nil
}

// GlobalConfigFile returns the user-wide config file path.
func GlobalConfigFile() (string, error) {
	return InRoot("config.yaml")
}

// DownloadsDir returns where capture files land when no output dir is configured.
// Resolution order:
//  1. XDG_DOWNLOAD_DIR (if set)
//  2. ~/Downloads
func DownloadsDir() (string, error) {
	if override := strings.TrimSpace(os.Getenv(DownloadDirEnv)); override != "" {
		return normalizePath(override)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// InRoot returns a path rooted under RootDir with additional path elements.
func InRoot(parts ...string) (string, error) {
	root, err := RootDir()
	if err != nil {
		return "", err
	}
	all := make([]string, 0, len(parts)+1)
	all = append(all, root)
	all = append(all, parts...)
	return filepath.Join(all...), nil
}

func normalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty path")
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", path, err)
	}
	return filepath.Clean(absPath), nil
}
