// Package modversion reads the version a Lua mod script declares about itself.
package modversion

import (
	"regexp"
	"strings"
)

// Unknown is returned when a script declares no version.
const Unknown = "Unknown"

// declPattern matches a line such as: local modVersion = "1.2.3"
var declPattern = regexp.MustCompile(`local modVersion\s*=\s*['"]([^'"]+)['"]`)

// Lookup returns the first declared version and whether one was found.
func Lookup(script string) (string, bool) {
	m := declPattern.FindStringSubmatch(script)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Extract returns the declared version, or Unknown if the script has none.
// A missing declaration is not an error: the build still produces an
// archive, labelled Unknown.
func Extract(script string) string {
	if v, ok := Lookup(script); ok {
		return v
	}
	return Unknown
}

// unsafeChars are characters that cannot appear in a file name on the
// platforms mod managers run on.
const unsafeChars = `/\:*?"<>|`

// FileSafe returns v with path separators, characters Windows forbids in
// file names and control characters replaced by '_'. The second result
// reports whether anything was replaced.
func FileSafe(v string) (string, bool) {
	changed := false
	safe := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(unsafeChars, r) {
			changed = true
			return '_'
		}
		return r
	}, v)
	return safe, changed
}
