package s3store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// BuildKey produces an object key of the form {ownerID}/{fileID}.{ext}.
// Keys are owner-prefixed so a listing by prefix yields one user's objects.
func BuildKey(ownerID uuid.UUID, ext string) string {
	return fmt.Sprintf("%s/%s.%s", ownerID, uuid.New(), strings.ToLower(ext))
}

// PublicURL derives the public image URL for a key from the CDN domain.
func PublicURL(cdnDomain, key string) string {
	return "https://" + cdnDomain + "/" + key
}

// KeyFromURL inverts PublicURL: given a public image URL it returns the
// object key the URL embeds. The deletion path depends on this; storage
// deletes take keys like "u1/x.png", never full URLs.
func KeyFromURL(cdnDomain, imageURL string) (string, error) {
	prefix := "https://" + cdnDomain + "/"
	if !strings.HasPrefix(imageURL, prefix) {
		return "", fmt.Errorf("image URL %q is not under CDN domain %q", imageURL, cdnDomain)
	}
	key := strings.TrimPrefix(imageURL, prefix)
	if key == "" {
		return "", fmt.Errorf("image URL %q has an empty key", imageURL)
	}
	return key, nil
}
