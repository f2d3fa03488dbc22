// download.go — Browser-style download of data URLs into a directory.
// Mirrors a managed download: the caller hands over a URL and a suggested
// filename, the downloader resolves the URL and writes the file.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafeFilename is returned for filenames that would escape the download directory.
var ErrUnsafeFilename = errors.New("unsafe filename")

// Downloader saves the resource at url under filename and returns the saved path.
type Downloader interface {
	Download(ctx context.Context, url, filename string) (string, error)
}

// DirDownloader writes data URL payloads into Dir.
// An existing file with the same name is overwritten.
type DirDownloader struct {
	Dir string
}

// Download implements Downloader.
func (d DirDownloader) Download(ctx context.Context, url, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !isFilenameSafe(filename) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeFilename, filename)
	}

	blob, err := DecodeDataURL(url)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	path := filepath.Join(d.Dir, filename)
	if err := os.WriteFile(path, blob.Data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

// isFilenameSafe accepts a bare file name: no separators, no traversal.
func isFilenameSafe(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.Contains(name, "..") {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
