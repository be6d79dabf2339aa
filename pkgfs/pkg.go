// Package pkgfs resolves pymod:// (and pkg://) URLs against resource trees
// bundled with packages.
//
// A package is a named resource tree: either an fs.FS (typically an embed.FS
// compiled into the program), or a directory on disk. Packages are made
// available by registering them with a [Registry], or by placing them in a
// directory on the registry's search path.
//
// URLs take the form:
//
//	pymod:///<package>/<path/inside/package>
//
// The first path segment names the package, and the rest is the path of the
// resource within its tree.
package pkgfs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/noxmake/go-fsfetch"
	"github.com/noxmake/go-fsfetch/filefs"
	"github.com/noxmake/go-fsfetch/internal"
)

// ErrPackageNotFound is returned when a URL names a package that is neither
// registered nor present on the search path.
var ErrPackageNotFound = fmt.Errorf("package not found: %w", fs.ErrNotExist)

// Registry maps package names to their resource trees.
//
// A Registry must be fully populated before it's used to resolve requests;
// after that it is safe for concurrent use.
type Registry struct {
	pkgs       map[string]pkgRoot
	searchPath []string
}

// a package's resource tree - exactly one of fsys and dir is set
type pkgRoot struct {
	fsys fs.FS
	dir  string
}

// NewRegistry returns an empty registry. Packages that aren't registered
// explicitly are looked up as sub-directories of the given search path
// directories, in order.
func NewRegistry(searchPath ...string) *Registry {
	return &Registry{
		pkgs:       map[string]pkgRoot{},
		searchPath: searchPath,
	}
}

// Register makes the resource tree fsys available as the package name.
func (r *Registry) Register(name string, fsys fs.FS) {
	r.add(name, pkgRoot{fsys: fsys})
}

// RegisterDir makes the directory dir available as the package name.
func (r *Registry) RegisterDir(name, dir string) {
	r.add(name, pkgRoot{dir: dir})
}

func (r *Registry) add(name string, root pkgRoot) {
	if r.pkgs == nil {
		r.pkgs = map[string]pkgRoot{}
	}

	r.pkgs[name] = root
}

// WithSearchPath returns a copy of r with dirs added to the end of its search
// path. r itself is left unchanged, so it can keep serving other resolvers. A
// nil r gives a registry with only dirs on its search path.
func (r *Registry) WithSearchPath(dirs ...string) *Registry {
	out := NewRegistry()
	if r == nil {
		out.searchPath = append(out.searchPath, dirs...)

		return out
	}

	for name, root := range r.pkgs {
		out.pkgs[name] = root
	}

	out.searchPath = make([]string, 0, len(r.searchPath)+len(dirs))
	out.searchPath = append(out.searchPath, r.searchPath...)
	out.searchPath = append(out.searchPath, dirs...)

	return out
}

// Packages returns the names of the explicitly registered packages, sorted.
func (r *Registry) Packages() []string {
	names := make([]string, 0, len(r.pkgs))
	for name := range r.pkgs {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (r *Registry) lookup(name string) (pkgRoot, error) {
	if name == "" || name == "." || name == ".." {
		return pkgRoot{}, fmt.Errorf("invalid package name %q: %w", name, fs.ErrInvalid)
	}

	if root, ok := r.pkgs[name]; ok {
		return root, nil
	}

	// dotted names are nested packages
	parts := strings.Split(name, ".")
	for _, part := range parts {
		if part == "" || strings.ContainsAny(part, `/\:`) {
			return pkgRoot{}, fmt.Errorf("invalid package name %q: %w", name, fs.ErrInvalid)
		}
	}

	for _, dir := range r.searchPath {
		if dir == "" {
			continue
		}

		candidate := filepath.Join(append([]string{dir}, parts...)...)

		fi, err := os.Stat(candidate)
		if err == nil && fi.IsDir() {
			return pkgRoot{dir: candidate}, nil
		}
	}

	return pkgRoot{}, fmt.Errorf("%w: %q", ErrPackageNotFound, name)
}

type pkgResolver struct {
	reg   *Registry
	files fsfetch.Resolver
}

// New returns a resolver for the 'pymod' and 'pkg' URL schemes, reading
// packages from reg.
//
// Resources in directory-backed packages are read by rewriting the request to
// the file:// URL of the resource and delegating to the filefs resolver, so
// the Response reports the file:// location. Resources in fs.FS-backed
// packages are read directly, and keep their package URL.
func New(reg *Registry) fsfetch.Provider {
	return &pkgResolver{reg: reg, files: filefs.New()}
}

var _ fsfetch.Provider = (*pkgResolver)(nil)

func (r *pkgResolver) Schemes() []string {
	return []string{"pymod", "pkg"}
}

func (r *pkgResolver) Resolve(ctx context.Context, req *fsfetch.Request) (*fsfetch.Response, error) {
	name, rest, err := splitPackagePath(req.URL.Path)
	if err != nil {
		return nil, err
	}

	root, err := r.reg.lookup(name)
	if err != nil {
		return nil, err
	}

	if root.fsys != nil {
		return readFS(req, root.fsys, name, rest)
	}

	dir, err := filepath.Abs(root.dir)
	if err != nil {
		return nil, err
	}

	target := internal.FileURL(filepath.Join(dir, filepath.FromSlash(rest)))

	return r.files.Resolve(ctx, req.WithURL(target))
}

func readFS(req *fsfetch.Request, fsys fs.FS, name, rest string) (*fsfetch.Response, error) {
	fi, err := fs.Stat(fsys, rest)
	if err != nil {
		return nil, err
	}

	if fi.IsDir() {
		return nil, fmt.Errorf("read %s/%s: is a directory: %w", name, rest, fs.ErrInvalid)
	}

	b, err := fs.ReadFile(fsys, rest)
	if err != nil {
		return nil, err
	}

	u := *req.URL
	u.Path = "/" + name + "/" + rest
	u.RawPath = ""

	return fsfetch.FileResponse(&u, fi, b), nil
}

// splitPackagePath splits a URL path into the package name and the cleaned
// path of the resource within the package. Paths escaping the package are
// rejected.
func splitPackagePath(p string) (name, rest string, err error) {
	name, rest, _ = strings.Cut(strings.TrimPrefix(p, "/"), "/")

	rest = strings.TrimLeft(rest, "/")
	if rest == "" {
		rest = "."
	}

	rest = path.Clean(rest)
	if rest == ".." || strings.HasPrefix(rest, "../") {
		return "", "", fmt.Errorf("path %q escapes package %q: %w", p, name, fs.ErrInvalid)
	}

	if !fs.ValidPath(rest) {
		return "", "", fmt.Errorf("invalid resource path %q: %w", rest, fs.ErrInvalid)
	}

	return name, rest, nil
}
