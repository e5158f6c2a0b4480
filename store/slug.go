package store

import (
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Slugify derives a slug from a recipe title: lowercased, with runs of
// anything that is not a letter or digit collapsed to single underscores.
// "Oxford Mail" becomes "oxford_mail".
func Slugify(title string) string {
	var b strings.Builder
	pending := false // trim leading separators
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
