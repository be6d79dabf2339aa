package gitfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/client"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/noxmake/go-fsfetch"
)

type gitResolver struct{}

// New returns a resolver for git repositories, suitable for registering with
// an fsfetch.Mux. Valid schemes are "git", and "file", "http", "https", and
// "ssh" prefixed with "git+" (e.g. "git+ssh://...").
//
// The repository is cloned into memory for each request, and the file named
// by the path after the "//" separator is read from the checked-out tree.
func New() fsfetch.Provider {
	return &gitResolver{}
}

var _ fsfetch.Provider = (*gitResolver)(nil)

func (r *gitResolver) Schemes() []string {
	return []string{"git", "git+file", "git+http", "git+https", "git+ssh"}
}

func (r *gitResolver) Resolve(ctx context.Context, req *fsfetch.Request) (*fsfetch.Response, error) {
	repoURL := *req.URL

	repoURL.Scheme = strings.TrimPrefix(repoURL.Scheme, "git+")

	repoPath, subpath := splitRepoPath(repoURL.Path)
	repoURL.Path = repoPath
	repoURL.RawPath = ""

	name := validPath(subpath)
	if name == "." || !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: subpath, Err: fs.ErrInvalid}
	}

	depth := 1
	if repoURL.Scheme == "file" {
		// we can't do shallow clones for filesystem repos apparently
		depth = 0
	}

	bfs, _, err := r.gitClone(ctx, repoURL, depth)
	if err != nil {
		return nil, err
	}

	fi, err := bfs.Stat(name)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}

	if fi.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}

	b, err := util.ReadFile(bfs, name)
	if err != nil {
		return nil, &fs.PathError{Op: "read", Path: name, Err: err}
	}

	return fsfetch.FileResponse(req.URL, fi, b), nil
}

// validPath - return a valid path for fs.FS operations from a traditional path
func validPath(p string) string {
	if p == "/" || p == "" {
		return "."
	}

	return strings.TrimPrefix(p, "/")
}

// Split the git repo path from the subpath, delimited by "//"
func splitRepoPath(repopath string) (repo, subpath string) {
	repopath, subpath, _ = strings.Cut(repopath, "//")

	return repopath, "/" + strings.TrimSuffix(subpath, "/")
}

// refFromURL - extract the ref from the URL fragment if present
func refFromURL(u url.URL) plumbing.ReferenceName {
	switch {
	case strings.HasPrefix(u.Fragment, "refs/"):
		return plumbing.ReferenceName(u.Fragment)
	case u.Fragment != "":
		return plumbing.NewBranchReferenceName(u.Fragment)
	default:
		return plumbing.ReferenceName("")
	}
}

// gitClone a repo for later reading through http(s), git, or ssh. u must be the URL to the repo
// itself, and must have any file path stripped
func (r *gitResolver) gitClone(ctx context.Context, repoURL url.URL, depth int) (billy.Filesystem, *git.Repository, error) {
	// copy repoURL so we can perhaps use it later
	u := repoURL

	ref := refFromURL(u)
	u.Fragment = ""
	u.RawFragment = ""
	u.RawQuery = ""

	// attempt to get the ref from the remote so we don't default to master
	if ref == "" {
		// err is ignored here - if we can't get the ref, we'll just use the
		// default
		ref, _ = refFromRemoteHead(ctx, &u)
	}

	opts := git.CloneOptions{
		URL:           u.String(),
		Depth:         depth,
		ReferenceName: ref,
		SingleBranch:  true,
		Tags:          git.NoTags,
	}

	bfs := memfs.New()
	storer := memory.NewStorage()

	repo, err := git.CloneContext(ctx, storer, bfs, &opts)

	// a working tree, not a git dir: its objects and refs are in .git
	if u.Scheme == "file" && noRepo(err) && !strings.HasSuffix(u.Path, ".git") {
		u = repoURL
		u.Path = path.Join(u.Path, ".git")

		return r.gitClone(ctx, u, depth)
	}

	if noRepo(err) {
		return nil, nil, fmt.Errorf("git clone for %s failed: %w: %w", &repoURL, fs.ErrNotExist, err)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("git clone for %s failed: %w", &repoURL, err)
	}

	return bfs, repo, nil
}

// noRepo reports whether err means there's no repository with content at
// the cloned location. A local working tree looks like an empty repository
// to the file transport.
func noRepo(err error) bool {
	return errors.Is(err, transport.ErrRepositoryNotFound) ||
		errors.Is(err, transport.ErrEmptyRemoteRepository)
}

// refFromRemoteHead - extract the ref from the remote HEAD, to work around
// hard-coded 'master' default branch in go-git.
func refFromRemoteHead(ctx context.Context, u *url.URL) (plumbing.ReferenceName, error) {
	e, err := transport.NewEndpoint(u.String())
	if err != nil {
		return "", err
	}

	cli, err := client.NewClient(e)
	if err != nil {
		return "", err
	}

	s, err := cli.NewUploadPackSession(e, nil)
	if err != nil {
		return "", err
	}

	defer s.Close()

	info, err := s.AdvertisedReferencesContext(ctx)
	if err != nil {
		return "", err
	}

	refs, err := info.AllReferences()
	if err != nil {
		return "", err
	}

	headRef, ok := refs["HEAD"]
	if !ok {
		return "", errors.New("no HEAD ref found")
	}

	return headRef.Target(), nil
}
