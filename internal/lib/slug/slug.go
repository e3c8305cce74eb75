// Package slug derives URL identifiers for posts and tags.
package slug

import (
	"strings"

	gosimple "github.com/gosimple/slug"
)

var underscores = strings.NewReplacer("_", " ")

// Make returns the lowercase ASCII slug of s: accents are transliterated,
// "&" reads as "and", quotes vanish and every other run of non-alphanumerics
// becomes one hyphen.
func Make(s string) string {
	return gosimple.MakeLang(underscores.Replace(s), "en")
}
