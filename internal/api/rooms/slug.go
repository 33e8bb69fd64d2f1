package rooms

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	disallowedChars = regexp.MustCompile(`[^a-z0-9\-_\s]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	hyphenRuns      = regexp.MustCompile(`-+`)
)

// GenerateRoomID derives a slug-like room id from the title: lowercase,
// stripped to [a-z0-9-_], whitespace collapsed to hyphens, with "room" as
// the fallback for titles that strip to nothing, plus a short random suffix
// for uniqueness.
func GenerateRoomID(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = disallowedChars.ReplaceAllString(slug, "")
	slug = whitespaceRuns.ReplaceAllString(slug, "-")
	slug = hyphenRuns.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "room"
	}
	return slug + "-" + uuid.NewString()[:6]
}
