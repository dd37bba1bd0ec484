package facebook

// PhotoResponse is the Graph API acknowledgment for a photo upload.
// ID is the media reference; PostID is set only for published uploads.
type PhotoResponse struct {
	ID     string `json:"id"`
	PostID string `json:"post_id"`
}

// PostResponse is the Graph API acknowledgment for a feed post
type PostResponse struct {
	ID string `json:"id"`
}

// GraphError is the error payload returned by the Graph API
type GraphError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	FBTraceID string `json:"fbtrace_id"`
}

// graphErrorEnvelope wraps the error payload in API responses
type graphErrorEnvelope struct {
	Error GraphError `json:"error"`
}
