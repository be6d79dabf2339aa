package fsfetch

import (
	"io/fs"
	"mime"
	"path/filepath"
	"strings"
	"sync"
)

// template and metadata formats we want to be able to recognize, which can be
// missing by default
//
//nolint:gochecknoglobals
var (
	extraMimeTypes = map[string]string{
		".yml":    "application/yaml",
		".yaml":   "application/yaml",
		".toml":   "application/toml",
		".env":    "application/x-env",
		".txt":    "text/plain; charset=utf-8",
		".md":     "text/markdown; charset=utf-8",
		".tmpl":   "text/plain; charset=utf-8",
		".tpl":    "text/plain; charset=utf-8",
		".j2":     "text/plain; charset=utf-8",
		".jinja":  "text/plain; charset=utf-8",
		".jinja2": "text/plain; charset=utf-8",
	}
	extraMimeInit sync.Once
)

type contentTypeFileInfo interface {
	fs.FileInfo

	ContentType() string
}

// ContentType returns the MIME content type for the given fs.FileInfo. If fi
// has a ContentType method, that will be used, otherwise the type will be
// guessed by the filename's extension. See the docs for mime.TypeByExtension
// for details on how extension lookup works.
//
// The returned value may have parameters (e.g. "application/json; charset=utf-8")
// which can be parsed with mime.ParseMediaType.
func ContentType(fi fs.FileInfo) string {
	if cf, ok := fi.(contentTypeFileInfo); ok {
		if ct := cf.ContentType(); ct != "" {
			return ct
		}
	}

	extraMimeInit.Do(func() {
		for k, v := range extraMimeTypes {
			_ = mime.AddExtensionType(k, v)
		}
	})

	// fall back to guessing based on extension
	ext := strings.ToLower(filepath.Ext(fi.Name()))

	return mime.TypeByExtension(ext)
}
