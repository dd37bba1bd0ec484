package facebook

import "fmt"

const (
	// BaseURL is the base URL for the Facebook Graph API
	BaseURL = "https://graph.facebook.com"

	// DefaultAPIVersion is the Graph API version used when none is configured
	DefaultAPIVersion = "v22.0"

	// MaxPhotosPerPost is the Graph API ceiling on attached media per feed post
	MaxPhotosPerPost = 4
)

// photosEndpoint returns the photo upload endpoint. Photos go to the
// caller's own timeline unless an album ID routes them elsewhere.
func photosEndpoint(baseURL, apiVersion, albumID string) string {
	target := "me"
	if albumID != "" {
		target = albumID
	}
	return fmt.Sprintf("%s/%s/%s/photos", baseURL, apiVersion, target)
}

// feedEndpoint returns the feed endpoint used for multi-photo posts
func feedEndpoint(baseURL, apiVersion string) string {
	return fmt.Sprintf("%s/%s/me/feed", baseURL, apiVersion)
}
