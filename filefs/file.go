// Package filefs resolves file:// URLs against the local filesystem.
package filefs

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/noxmake/go-fsfetch"
	"github.com/noxmake/go-fsfetch/internal"
)

type fileResolver struct{}

// New returns a resolver for the 'file' URL scheme, suitable for registering
// with an fsfetch.Mux.
//
// The path of each requested URL is made absolute and canonical (symbolic
// links are followed and ".." segments applied to the link targets), and the
// request is rewritten to the canonical file:// URL before the file is read.
// The returned Response's URL is the canonical one.
//
// Missing files are reported with fs.ErrNotExist, and directories with
// fs.ErrInvalid.
func New() fsfetch.Provider {
	return &fileResolver{}
}

var _ fsfetch.Provider = (*fileResolver)(nil)

func (r *fileResolver) Schemes() []string {
	return []string{"file"}
}

func (r *fileResolver) Resolve(_ context.Context, req *fsfetch.Request) (*fsfetch.Response, error) {
	p := pathForDirFS(req.URL)
	if p == "" {
		return nil, &fs.PathError{Op: "resolve", Path: req.URL.String(), Err: fs.ErrInvalid}
	}

	canon, err := Canonical(filepath.FromSlash(p))
	if err != nil {
		return nil, err
	}

	req = req.WithURL(internal.FileURL(canon))

	return ReadFile(req.URL, canon)
}

// Canonical returns the absolute form of the path p, with all symbolic links
// evaluated. The path must exist.
func Canonical(p string) (string, error) {
	abs, err := internal.AbsPath(p)
	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(abs)
}

// ReadFile reads the file at the local path p, and returns it as a Response
// for u.
func ReadFile(u *url.URL, p string) (*fsfetch.Response, error) {
	dir, name := filepath.Split(p)
	if name == "" {
		return nil, fmt.Errorf("read %s: is a directory: %w", p, fs.ErrInvalid)
	}

	fsys := os.DirFS(dir)

	fi, err := fs.Stat(fsys, name)
	if err != nil {
		return nil, err
	}

	if fi.IsDir() {
		return nil, fmt.Errorf("read %s: is a directory: %w", p, fs.ErrInvalid)
	}

	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}

	return fsfetch.FileResponse(u, fi, b), nil
}

// return the correct filesystem path for the given URL. Supports Windows paths
// and UNCs as well
func pathForDirFS(u *url.URL) string {
	return localPath(u, runtime.GOOS == "windows")
}

// localPath returns the filesystem path named by u. "localhost" is the local
// machine, as is an empty host. Other hosts are only reachable as UNC paths
// on Windows, and give an empty path elsewhere.
func localPath(u *url.URL, windows bool) string {
	if u.Path == "" {
		return ""
	}

	rootPath := u.Path
	if windows && len(rootPath) >= 3 {
		if rootPath[0] == '/' && rootPath[2] == ':' {
			rootPath = rootPath[1:]
		}
	}

	switch strings.ToLower(u.Host) {
	case "", "localhost":
		return rootPath
	case ".":
		if windows {
			return "//./" + rootPath
		}
	default:
		if windows {
			return "//" + u.Host + rootPath
		}
	}

	return ""
}
