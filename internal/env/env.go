// Package env contains functions that retrieve data from the environment
package env

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Getenv retrieves the value of the environment variable named by the key.
// If the variable is unset, but the same variable ending in `_FILE` is set, the
// referenced file will be read into the value. Otherwise the provided default
// (or an empty string) is returned.
func Getenv(key string, def ...string) string {
	return GetenvFS(os.DirFS("/"), key, def...)
}

// GetenvFS is like Getenv, but `_FILE` paths are resolved from the given
// filesystem.
func GetenvFS(fsys fs.FS, key string, def ...string) string {
	return getenvVFS(fsys, key, def...)
}

func getenvVFS(fsys fs.FS, key string, def ...string) string {
	val := getenvFile(fsys, key)
	if val == "" && len(def) > 0 {
		return def[0]
	}

	return val
}

func getenvFile(fsys fs.FS, key string) string {
	val := os.Getenv(key)
	if val != "" {
		return val
	}

	p := os.Getenv(key + "_FILE")
	if p != "" {
		p = strings.TrimPrefix(filepath.ToSlash(p), "/")

		b, err := fs.ReadFile(fsys, p)
		if err != nil {
			return ""
		}

		return strings.TrimSpace(string(b))
	}

	return ""
}

// BoolFS reads the switch named by key: "true" and "false" are accepted in
// any case, and any other value (or none) gives def.
func BoolFS(fsys fs.FS, key string, def bool) bool {
	switch strings.ToLower(GetenvFS(fsys, key)) {
	case "true":
		return true
	case "false":
		return false
	default:
		return def
	}
}

// ListFS reads the list named by key, split on the OS path list separator.
// Empty elements are dropped.
func ListFS(fsys fs.FS, key string) []string {
	val := GetenvFS(fsys, key)
	if val == "" {
		return nil
	}

	var out []string

	for _, p := range filepath.SplitList(val) {
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
