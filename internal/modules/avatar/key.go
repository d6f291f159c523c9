package avatar

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slug lowercases name and collapses each whitespace run to a single "-".
func Slug(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}

// ObjectKey names an uploaded avatar. The millisecond suffix keeps keys unique
// per character across regenerations.
func ObjectKey(name string, now time.Time) string {
	return fmt.Sprintf("avatar-%s-%d.%s", Slug(name), now.UnixMilli(), Extension)
}

// InlineFallbackURL wraps the provider's original payload as a data URL. A
// payload that already carries a data URL prefix is rewrapped, not nested.
func InlineFallbackURL(b64 string) string {
	return "data:image/png;base64," + StripDataURL(b64)
}

// UserObjectKey names an uploaded profile picture for the user with the given id.
func UserObjectKey(userID string, now time.Time) string {
	return fmt.Sprintf("avatar-user-%s-%d.%s", userID, now.UnixMilli(), Extension)
}
