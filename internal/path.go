package internal

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FileURL returns the file:// URL for the filesystem path p. The path is not
// cleaned. Windows drive letters and UNC paths are supported.
func FileURL(p string) *url.URL {
	vol := filepath.VolumeName(p)
	p = filepath.ToSlash(p)

	// UNC paths carry the host in the volume name
	if strings.HasPrefix(vol, `\\`) || strings.HasPrefix(vol, "//") {
		host, rest, _ := strings.Cut(strings.TrimPrefix(p, "//"), "/")

		return &url.URL{Scheme: "file", Host: host, Path: "/" + rest}
	}

	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	return &url.URL{Scheme: "file", Path: p}
}

// AbsPath is like filepath.Abs, but doesn't clean the path. Dot segments are
// left for the filesystem to interpret, which matters when symbolic links are
// involved.
func AbsPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("absolute path for %q: %w", p, err)
	}

	// rooted, but without a volume (Windows only)
	if strings.HasPrefix(p, "/") || strings.HasPrefix(p, string(filepath.Separator)) {
		return filepath.VolumeName(wd) + p, nil
	}

	return wd + string(filepath.Separator) + p, nil
}
