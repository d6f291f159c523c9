package handlers

import (
	"strings"

	types "github.com/yungbote/mysticwriter-backend/internal/domain"
	"github.com/yungbote/mysticwriter-backend/internal/platform/gcp"
)

// resolveBucketBackedURL prefers the bucket's current public URL for a stored
// key, so a CDN or emulator change does not strand old rows.
func resolveBucketBackedURL(bucket gcp.BucketService, storageKey string, currentURL string) string {
	key := strings.TrimSpace(storageKey)
	if bucket == nil || key == "" {
		return strings.TrimSpace(currentURL)
	}
	resolved := strings.TrimSpace(bucket.GetPublicURL(key))
	if resolved == "" {
		return strings.TrimSpace(currentURL)
	}
	return resolved
}

func normalizeCharacterAvatarURL(bucket gcp.BucketService, c *types.Character) {
	if c == nil || c.AvatarStorageKey == nil {
		return
	}
	current := ""
	if c.AvatarURL != nil {
		current = *c.AvatarURL
	}
	url := resolveBucketBackedURL(bucket, *c.AvatarStorageKey, current)
	if url == "" {
		return
	}
	c.AvatarURL = &url
}

func normalizeCharacterAvatarURLs(bucket gcp.BucketService, chars []*types.Character) {
	for _, c := range chars {
		normalizeCharacterAvatarURL(bucket, c)
	}
}
