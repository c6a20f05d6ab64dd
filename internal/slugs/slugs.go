// Package slugs derives safe local filenames from note titles.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// Filename converts a note title to a markdown filename.
//
// Titles that slugify to nothing (punctuation-only, empty) fall back to
// "untitled" so a pull always has somewhere to land.
func Filename(title string) string {
	slugged := goslug.Make(strings.TrimSuffix(title, ".md"))
	if slugged == "" {
		slugged = "untitled"
	}
	return slugged + ".md"
}
