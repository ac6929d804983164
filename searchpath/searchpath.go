// Package searchpath locates procedural scripts. A search path is an
// ordered list of directory segments joined by the platform list
// separator (':' or ';'). A segment of the form [NAME] substitutes the
// value of environment variable NAME as a nested search path.
package searchpath

import (
	"os"
	"strings"

	"github.com/charbray/luaproc/errors"
)

// ListSeparator is the platform search-path delimiter.
const ListSeparator = string(os.PathListSeparator)

// Resolve scans searchPath left to right and returns the first segment
// whose directory contains filename as a regular file. [NAME] segments
// recurse into the named environment variable's current value; unset
// variables are skipped. Empty segments are skipped. The trailing
// segment is tested exactly like the others.
//
// The scan is pure: no side effects beyond filesystem existence checks.
func Resolve(searchPath, filename string) (string, error) {
	if found, ok := scan(searchPath, filename); ok {
		return found, nil
	}
	return "", errors.NotFound(filename, searchPath)
}

func scan(searchPath, filename string) (string, bool) {
	for _, seg := range strings.Split(searchPath, ListSeparator) {
		if seg == "" {
			continue
		}
		if len(seg) >= 2 && seg[0] == '[' && seg[len(seg)-1] == ']' {
			env, ok := os.LookupEnv(seg[1 : len(seg)-1])
			if !ok {
				continue
			}
			if found, ok := scan(env, filename); ok {
				return found, true
			}
			continue
		}
		candidate := seg + "/" + filename
		if isRegular(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// Split breaks a search path into its non-empty segments. The debug
// path dump at interpreter startup prints these one per line.
func Split(searchPath string) []string {
	var segs []string
	for _, seg := range strings.Split(searchPath, ListSeparator) {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	return segs
}

// Normalize converts directory separators to the native form.
func Normalize(p string) string {
	if os.PathSeparator == '/' {
		return strings.ReplaceAll(p, "\\", "/")
	}
	return strings.ReplaceAll(p, "/", "\\")
}

// IsRegularFile reports whether p names an existing regular file.
func IsRegularFile(p string) bool {
	return isRegular(p)
}

func isRegular(p string) bool {
	st, err := os.Stat(p)
	return err == nil && st.Mode().IsRegular()
}
