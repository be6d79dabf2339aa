// Package gitfs resolves URLs for files committed to git repositories.
//
// Only committed content is visible: for local repositories, "dirty" or
// modified files in the working tree are not read.
//
// # URL Format
//
// The scheme, authority, path, and fragment are used by this resolver.
//
// Scheme may be one of:
//
// - 'git': use the classic Git protocol, as served by 'git daemon'
//
// - 'git+file': use the local filesystem (repo can be bare or not)
//
// - 'git+http'/'git+https': use the Smart HTTP protocol
//
// - 'git+ssh': use the SSH protocol
//
// Path is a composite of the path to the repository and the path to a file
// within it. The '//' sequence (double forward-slash) separates the
// repository from the file path. Since the separator is kept when joining, a
// base such as
//
//	git+https://example.com/org/templates.git//python
//
// can be given to fsfetch.Client, and resources named relative to it.
//
// Fragment is used to specify which branch or tag to reference. When not
// specified, the repository's default branch will be chosen.
// Branches are referenced by short name (such as '#main') or by the long form
// prefixed with '#refs/heads/'. Tags are referenced by long form, prefixed
// with 'refs/tags/' (e.g. '#refs/tags/v1').
//
// # Authentication
//
// No credentials are configured: public repositories can be read over any
// protocol, and for 'git+ssh' go-git falls back to the SSH agent.
package gitfs
