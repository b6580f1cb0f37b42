package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// slugPattern accepts "starts and ends with a letter or digit, only
// lowercase letters, digits and hyphens in between, 1-64 chars".
// Every slug used to build a filesystem path or look up a tour must match
// this pattern — it is the sole defense against path traversal.
var slugPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,62}[a-z0-9])?$`)

var (
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	hyphenRun     = regexp.MustCompile(`-+`)
)

// reservedSlugs are path segments the static frontend already claims.
// A tour may never take one of these names, otherwise its viewer URL
// would shadow an asset directory.
var reservedSlugs = map[string]struct{}{
	"api":     {},
	"css":     {},
	"img":     {},
	"images":  {},
	"js":      {},
	"vendor":  {},
	"assets":  {},
	"tours":   {},
	"viewer":  {},
	"index":   {},
	"favicon": {},
}

// Slugify derives a filesystem-safe slug from a free-text tour name:
// lowercase, underscores to hyphens, non-ASCII stripped, anything outside
// [a-z0-9 -] removed, whitespace and hyphen runs collapsed to single
// hyphens, leading/trailing hyphens trimmed. Returns "" when the name is
// empty or reduces to nothing usable.
func Slugify(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", "-")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	s = b.String()

	s = nonSlugChars.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IsValidSlug reports whether slug is safe to use as a tour identifier
// and directory name.
func IsValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// IsReservedSlug reports whether slug collides with a static asset path.
func IsReservedSlug(slug string) bool {
	_, ok := reservedSlugs[slug]
	return ok
}
