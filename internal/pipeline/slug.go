package pipeline

import (
	"regexp"
	"strings"
)

const maxSlugLength = 200

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases input, collapses every run of characters outside
// [a-z0-9] into a single "-", strips leading/trailing "-" and truncates
// to 200 characters.
func Slugify(input string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(input)), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLength {
		// 截斷後可能以 "-" 結尾
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	return slug
}
