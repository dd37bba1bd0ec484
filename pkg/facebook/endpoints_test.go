package facebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhotosEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		albumID string
		want    string
	}{
		{"timeline", "", "https://graph.facebook.com/v22.0/me/photos"},
		{"album", "123456789", "https://graph.facebook.com/v22.0/123456789/photos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, photosEndpoint(BaseURL, "v22.0", tt.albumID))
		})
	}
}

func TestFeedEndpoint(t *testing.T) {
	assert.Equal(t, "https://graph.facebook.com/v22.0/me/feed", feedEndpoint(BaseURL, "v22.0"))
}

func TestEndpointsHonorBaseURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8080/v22.0/me/photos", photosEndpoint("http://127.0.0.1:8080", "v22.0", ""))
	assert.Equal(t, "http://127.0.0.1:8080/v22.0/me/feed", feedEndpoint("http://127.0.0.1:8080", "v22.0"))
}
