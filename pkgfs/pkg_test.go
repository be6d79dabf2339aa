package pkgfs

import (
	"context"
	"io/fs"
	"net/url"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/noxmake/go-fsfetch"
	"github.com/noxmake/go-fsfetch/internal"
	"github.com/noxmake/go-fsfetch/internal/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tfs "gotest.tools/v3/fs"
)

func mustURL(s string) *url.URL {
	u, err := url.Parse(s)
	if err != nil {
		panic(err)
	}

	return u
}

func testRegistry(t *testing.T) (*Registry, *tfs.Dir) {
	t.Helper()

	tmpDir := tfs.NewDir(t, "go-fsfetch-pkgfs",
		tfs.WithDir("ondisk",
			tfs.WithDir("data",
				tfs.WithFile("templates.json", `{"app": {"description": "an app"}}`),
			),
		),
		tfs.WithDir("searched",
			tfs.WithDir("found",
				tfs.WithFile("readme.md", "# found"),
			),
			tfs.WithDir("nested",
				tfs.WithDir("child",
					tfs.WithFile("child.txt", "nested package"),
				),
			),
		),
	)
	t.Cleanup(tmpDir.Remove)

	reg := NewRegistry(tmpDir.Join("searched"))
	reg.Register("mypkg", fstest.MapFS{
		"data/templates.json": {Data: []byte(`{"lib": {"description": "a library"}}`)},
		"data/readme.txt":     {Data: []byte("hello")},
	})
	reg.RegisterDir("ondisk", tmpDir.Join("ondisk"))

	return reg, tmpDir
}

func TestPkgResolver_FS(t *testing.T) {
	ctx := context.Background()
	reg, _ := testRegistry(t)

	r := New(reg)
	assert.Equal(t, []string{"pymod", "pkg"}, r.Schemes())

	resp, err := r.Resolve(ctx, fsfetch.NewRequest(mustURL("pymod:///mypkg/data/readme.txt")))
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, "hello", string(resp.Body))
	assert.Equal(t, "pymod:///mypkg/data/readme.txt", resp.URL.String())
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))

	// dot segments inside the package are applied
	resp, err = r.Resolve(ctx, fsfetch.NewRequest(mustURL("pkg:///mypkg/data/./sub/../readme.txt")))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(resp.Body))
	assert.Equal(t, "pkg:///mypkg/data/readme.txt", resp.URL.String())

	_, err = r.Resolve(ctx, fsfetch.NewRequest(mustURL("pymod:///mypkg/data/missing.txt")))
	require.ErrorIs(t, err, fs.ErrNotExist)

	_, err = r.Resolve(ctx, fsfetch.NewRequest(mustURL("pymod:///mypkg/data")))
	require.ErrorIs(t, err, fs.ErrInvalid)
}

func TestPkgResolver_Dir(t *testing.T) {
	ctx := context.Background()
	reg, tmpDir := testRegistry(t)

	root, err := filepath.EvalSymlinks(tmpDir.Path())
	require.NoError(t, err)

	r := New(reg)

	resp, err := r.Resolve(ctx, fsfetch.NewRequest(mustURL("pymod:///ondisk/data/templates.json")))
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, `{"app": {"description": "an app"}}`, string(resp.Body))

	// the request is rewritten to the file:// location
	expected := internal.FileURL(filepath.Join(root, "ondisk", "data", "templates.json"))
	assert.Equal(t, expected.String(), resp.URL.String())

	resp, err = r.Resolve(ctx, fsfetch.NewRequest(mustURL("pymod:///found/readme.md")))
	require.NoError(t, err)
	assert.Equal(t, "# found", string(resp.Body))

	resp, err = r.Resolve(ctx, fsfetch.NewRequest(mustURL("pymod:///nested.child/child.txt")))
	require.NoError(t, err)
	assert.Equal(t, "nested package", string(resp.Body))
}

func TestPkgResolver_Errors(t *testing.T) {
	ctx := context.Background()
	reg, _ := testRegistry(t)

	r := New(reg)

	_, err := r.Resolve(ctx, fsfetch.NewRequest(mustURL("pymod:///nosuchpkg/data/templates.json")))
	require.ErrorIs(t, err, ErrPackageNotFound)
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, 404, fsfetch.StatusFromError(err))

	_, err = r.Resolve(ctx, fsfetch.NewRequest(mustURL("pymod:///mypkg/data/../../../etc/passwd")))
	require.ErrorIs(t, err, fs.ErrInvalid)

	_, err = r.Resolve(ctx, fsfetch.NewRequest(mustURL("pymod:///")))
	require.ErrorIs(t, err, fs.ErrInvalid)

	// dotted names with empty parts would otherwise name the search dir itself
	for _, name := range []string{"...", ".found", "found.", "nested..child"} {
		_, err = r.Resolve(ctx, fsfetch.NewRequest(mustURL("pymod:///"+name+"/found/readme.md")))
		require.ErrorIs(t, err, fs.ErrInvalid, name)
		assert.Equal(t, 400, fsfetch.StatusFromError(err), name)
	}
}

func TestRegistry_WithSearchPath(t *testing.T) {
	ctx := context.Background()
	reg, tmpDir := testRegistry(t)

	extra := tfs.NewDir(t, "go-fsfetch-pkgfs-extra",
		tfs.WithDir("extrapkg", tfs.WithFile("x.txt", "extra")),
	)
	t.Cleanup(extra.Remove)

	ext := reg.WithSearchPath(extra.Path())
	ext2 := reg.WithSearchPath(extra.Path())

	// the original is left alone
	assert.Equal(t, []string{tmpDir.Join("searched")}, reg.searchPath)
	assert.Equal(t, []string{tmpDir.Join("searched"), extra.Path()}, ext.searchPath)
	assert.Equal(t, ext.searchPath, ext2.searchPath)
	assert.Equal(t, reg.Packages(), ext.Packages())

	_, err := New(reg).Resolve(ctx, fsfetch.NewRequest(mustURL("pymod:///extrapkg/x.txt")))
	require.ErrorIs(t, err, ErrPackageNotFound)

	resp, err := New(ext).Resolve(ctx, fsfetch.NewRequest(mustURL("pymod:///extrapkg/x.txt")))
	require.NoError(t, err)
	assert.Equal(t, "extra", string(resp.Body))

	resp, err = New(ext).Resolve(ctx, fsfetch.NewRequest(mustURL("pymod:///mypkg/data/readme.txt")))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(resp.Body))

	var nilReg *Registry
	assert.Equal(t, []string{"/a"}, nilReg.WithSearchPath("/a").searchPath)
}

func TestSplitPackagePath(t *testing.T) {
	testdata := []struct {
		in, name, rest string
		err            bool
	}{
		{"/mypkg/data/templates.json", "mypkg", "data/templates.json", false},
		{"/mypkg", "mypkg", ".", false},
		{"/mypkg/", "mypkg", ".", false},
		{"/mypkg//data", "mypkg", "data", false},
		{"/mypkg/a/../b", "mypkg", "b", false},
		{"/mypkg/..", "", "", true},
		{"/mypkg/a/../../b", "", "", true},
	}

	for _, d := range testdata {
		name, rest, err := splitPackagePath(d.in)
		if d.err {
			require.Error(t, err, d.in)

			continue
		}

		require.NoError(t, err, d.in)
		assert.Equal(t, d.name, name, d.in)
		assert.Equal(t, d.rest, rest, d.in)
	}
}

func TestRegistry_Packages(t *testing.T) {
	reg := &Registry{}
	reg.Register("b", fstest.MapFS{})
	reg.RegisterDir("a", "/tmp")

	assert.Equal(t, []string{"a", "b"}, reg.Packages())
}

func TestPkgResolver_GetTemplates(t *testing.T) {
	ctx := context.Background()
	reg, _ := testRegistry(t)

	mux := fsfetch.NewMux()
	mux.Add(New(reg))

	var notes tests.Notes

	c := fsfetch.NewClient(mux, fsfetch.WithNotifier(notes.Notify))

	templates, err := c.GetTemplates(ctx, "pymod:///mypkg/data", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"lib": map[string]any{"description": "a library"}}, templates)

	templates, err = c.GetTemplates(ctx, "pymod:///ondisk/data/", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"app": map[string]any{"description": "an app"}}, templates)
	assert.Empty(t, notes.Messages())

	templates, err = c.GetTemplates(ctx, "pymod:///nosuchpkg/data", nil)
	require.NoError(t, err)
	assert.Empty(t, templates)
	msgs := notes.Messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "pymod:///nosuchpkg/data/templates.json")

	text, u, err := c.GetText(ctx, "pymod:///mypkg/data", "readme.txt", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "pymod:///mypkg/data/readme.txt", u)
}
