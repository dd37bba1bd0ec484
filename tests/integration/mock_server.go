package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// MockGraphServer simulates the Facebook Graph API photo and feed endpoints
type MockGraphServer struct {
	server *httptest.Server

	mu           sync.Mutex
	photoUploads []PhotoUpload
	feedPosts    []FeedPost
	nextID       int

	// FailPhotoUploads makes every photo upload return an OAuth error
	FailPhotoUploads bool
}

// PhotoUpload records one request to the photos endpoint
type PhotoUpload struct {
	Target    string // "me" or an album ID
	Caption   string
	Published string
	Filename  string
}

// FeedPost records one request to the feed endpoint
type FeedPost struct {
	Message  string
	MediaIDs []string
}

// NewMockGraphServer starts a mock Graph API server
func NewMockGraphServer() *MockGraphServer {
	m := &MockGraphServer{}
	m.server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// GetURL returns the mock server's base URL
func (m *MockGraphServer) GetURL() string {
	return m.server.URL
}

// Close shuts the mock server down
func (m *MockGraphServer) Close() {
	m.server.Close()
}

// PhotoUploads returns a copy of the recorded photo uploads
func (m *MockGraphServer) PhotoUploads() []PhotoUpload {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PhotoUpload, len(m.photoUploads))
	copy(out, m.photoUploads)
	return out
}

// FeedPosts returns a copy of the recorded feed posts
func (m *MockGraphServer) FeedPosts() []FeedPost {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]FeedPost, len(m.feedPosts))
	copy(out, m.feedPosts)
	return out
}

// RequestCount returns the total number of requests handled
func (m *MockGraphServer) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.photoUploads) + len(m.feedPosts)
}

func (m *MockGraphServer) handle(w http.ResponseWriter, r *http.Request) {
	// Paths look like /v22.0/me/photos, /v22.0/<album>/photos, /v22.0/me/feed
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	switch parts[2] {
	case "photos":
		m.handlePhotos(w, r, parts[1])
	case "feed":
		m.handleFeed(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (m *MockGraphServer) handlePhotos(w http.ResponseWriter, r *http.Request, target string) {
	if m.FailPhotoUploads {
		writeGraphError(w, http.StatusBadRequest, "Invalid OAuth access token.", "OAuthException", 190)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeGraphError(w, http.StatusBadRequest, "malformed upload", "GraphMethodException", 100)
		return
	}
	if r.FormValue("access_token") == "" {
		writeGraphError(w, http.StatusBadRequest, "An access token is required.", "OAuthException", 104)
		return
	}

	files := r.MultipartForm.File["source"]
	if len(files) != 1 {
		writeGraphError(w, http.StatusBadRequest, "missing source file", "GraphMethodException", 100)
		return
	}

	m.mu.Lock()
	m.nextID++
	id := fmt.Sprintf("%d", 1000+m.nextID)
	m.photoUploads = append(m.photoUploads, PhotoUpload{
		Target:    target,
		Caption:   r.FormValue("caption"),
		Published: r.FormValue("published"),
		Filename:  files[0].Filename,
	})
	m.mu.Unlock()

	resp := map[string]string{"id": id}
	if r.FormValue("published") == "true" {
		resp["post_id"] = "page_" + id
	}
	json.NewEncoder(w).Encode(resp)
}

func (m *MockGraphServer) handleFeed(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeGraphError(w, http.StatusBadRequest, "malformed form", "GraphMethodException", 100)
		return
	}
	if r.FormValue("access_token") == "" {
		writeGraphError(w, http.StatusBadRequest, "An access token is required.", "OAuthException", 104)
		return
	}

	var mediaIDs []string
	for i := 0; ; i++ {
		raw := r.FormValue(fmt.Sprintf("attached_media[%d]", i))
		if raw == "" {
			break
		}
		var attached struct {
			MediaFBID string `json:"media_fbid"`
		}
		if err := json.Unmarshal([]byte(raw), &attached); err != nil {
			writeGraphError(w, http.StatusBadRequest, "bad attached_media", "GraphMethodException", 100)
			return
		}
		mediaIDs = append(mediaIDs, attached.MediaFBID)
	}

	if len(mediaIDs) == 0 {
		writeGraphError(w, http.StatusBadRequest, "no attached media", "GraphMethodException", 100)
		return
	}

	m.mu.Lock()
	m.nextID++
	id := fmt.Sprintf("post_%d", 5000+m.nextID)
	m.feedPosts = append(m.feedPosts, FeedPost{
		Message:  r.FormValue("message"),
		MediaIDs: mediaIDs,
	})
	m.mu.Unlock()

	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

func writeGraphError(w http.ResponseWriter, status int, message, errType string, code int) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
			"type":    errType,
			"code":    code,
		},
	})
}
