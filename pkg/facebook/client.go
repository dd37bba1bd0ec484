package facebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fbframes/pkg/logger"
)

// ErrorType classifies Graph API failures
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeBadRequest  ErrorType = "bad_request"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a Graph API error
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("facebook %s error (code %d): %s", e.Type, e.Code, e.Message)
}

// Client is a Facebook Graph API client for photo publishing
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiVersion  string
	accessToken string
	logger      logger.Logger
}

// NewClient creates a new Graph API client. The request timeout applies to
// every call; there is no retry.
func NewClient(accessToken, apiVersion string, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     BaseURL,
		apiVersion:  apiVersion,
		accessToken: accessToken,
		logger:      log,
	}
}

// SetBaseURL overrides the Graph API base URL (used by tests)
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// PublishPhoto uploads an image and publishes it in one step. The photo goes
// to the caller's timeline, or into albumID when set.
func (c *Client) PublishPhoto(path, caption, albumID string) (*PhotoResponse, error) {
	endpoint := photosEndpoint(c.baseURL, c.apiVersion, albumID)
	fields := map[string]string{
		"access_token": c.accessToken,
		"caption":      caption,
		"published":    "true",
	}

	c.logger.DebugWithFields("publishing photo", map[string]interface{}{
		"path":  path,
		"album": albumID,
	})

	var response PhotoResponse
	if err := c.postPhoto(endpoint, fields, path, &response); err != nil {
		return nil, err
	}

	if response.ID == "" {
		return nil, &Error{
			Type:    ErrorTypeParsing,
			Message: "acknowledgment missing photo id",
			Code:    http.StatusOK,
		}
	}

	return &response, nil
}

// StagePhoto uploads an image without publishing it and returns the remote
// media reference used later to compose a multi-photo post.
func (c *Client) StagePhoto(path, caption, albumID string) (string, error) {
	endpoint := photosEndpoint(c.baseURL, c.apiVersion, albumID)
	fields := map[string]string{
		"access_token": c.accessToken,
		"caption":      caption,
		"published":    "false",
	}

	c.logger.DebugWithFields("staging photo", map[string]interface{}{
		"path":  path,
		"album": albumID,
	})

	var response PhotoResponse
	if err := c.postPhoto(endpoint, fields, path, &response); err != nil {
		return "", err
	}

	if response.ID == "" {
		return "", &Error{
			Type:    ErrorTypeParsing,
			Message: "acknowledgment missing media reference",
			Code:    http.StatusOK,
		}
	}

	return response.ID, nil
}

// CreateMultiPhotoPost composes one feed post from previously staged media
// references. The reference count is validated before any network I/O;
// the Graph API enforces a ceiling of MaxPhotosPerPost.
func (c *Client) CreateMultiPhotoPost(mediaIDs []string, message string) (string, error) {
	if len(mediaIDs) < 1 || len(mediaIDs) > MaxPhotosPerPost {
		return "", &Error{
			Type:    ErrorTypeBadRequest,
			Message: fmt.Sprintf("multi-photo post requires 1-%d media references, got %d", MaxPhotosPerPost, len(mediaIDs)),
			Code:    0,
		}
	}

	form := url.Values{}
	form.Set("access_token", c.accessToken)
	form.Set("message", message)
	for i, id := range mediaIDs {
		form.Set(fmt.Sprintf("attached_media[%d]", i), fmt.Sprintf(`{"media_fbid":"%s"}`, id))
	}

	c.logger.DebugWithFields("composing multi-photo post", map[string]interface{}{
		"media_count": len(mediaIDs),
	})

	req, err := http.NewRequest(http.MethodPost, feedEndpoint(c.baseURL, c.apiVersion), strings.NewReader(form.Encode()))
	if err != nil {
		return "", &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Code:    0,
		}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var response PostResponse
	if err := c.do(req, &response); err != nil {
		return "", err
	}

	if response.ID == "" {
		return "", &Error{
			Type:    ErrorTypeParsing,
			Message: "acknowledgment missing post id",
			Code:    http.StatusOK,
		}
	}

	return response.ID, nil
}

// postPhoto sends one multipart upload with the image under the "source"
// form field, as the photo endpoint expects.
func (c *Client) postPhoto(endpoint string, fields map[string]string, path string, target interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return &Error{
			Type:    ErrorTypeBadRequest,
			Message: fmt.Sprintf("failed to open image: %v", err),
			Code:    0,
		}
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return &Error{
				Type:    ErrorTypeUnknown,
				Message: fmt.Sprintf("failed to build form: %v", err),
				Code:    0,
			}
		}
	}

	part, err := writer.CreateFormFile("source", filepath.Base(path))
	if err != nil {
		return &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to build form: %v", err),
			Code:    0,
		}
	}
	if _, err := io.Copy(part, file); err != nil {
		return &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to read image: %v", err),
			Code:    0,
		}
	}
	if err := writer.Close(); err != nil {
		return &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to finalize form: %v", err),
			Code:    0,
		}
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, &body)
	if err != nil {
		return &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Code:    0,
		}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, target)
}

// do performs the request, maps transport and API failures onto the typed
// error taxonomy, and decodes the JSON acknowledgment into target.
func (c *Client) do(req *http.Request, target interface{}) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			Code:    0,
		}
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return c.apiError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse acknowledgment", map[string]interface{}{
			"url":          req.URL.String(),
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return &Error{
			Type:    ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse acknowledgment: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// apiError converts a non-200 response into a typed error, decoding the
// Graph error payload when present.
func (c *Client) apiError(statusCode int, body []byte) *Error {
	message := fmt.Sprintf("unexpected status code: %d", statusCode)
	code := statusCode

	var envelope graphErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		message = envelope.Error.Message
		if envelope.Error.Code != 0 {
			code = envelope.Error.Code
		}
	}

	errType := classify(statusCode, envelope.Error)

	c.logger.WarnWithFields("Graph API error", map[string]interface{}{
		"status": statusCode,
		"type":   string(errType),
		"detail": message,
	})

	return &Error{Type: errType, Message: message, Code: code}
}

// classify maps an HTTP status and Graph error payload onto an ErrorType.
// OAuth failures surface as 400s with type OAuthException, so the payload
// has to be consulted before the status code.
func classify(statusCode int, apiErr GraphError) ErrorType {
	if apiErr.Type == "OAuthException" {
		return ErrorTypeAuth
	}
	// Graph API throttling codes
	switch apiErr.Code {
	case 4, 17, 32, 613:
		return ErrorTypeRateLimit
	}

	switch {
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return ErrorTypeAuth
	case statusCode == http.StatusNotFound:
		return ErrorTypeNotFound
	case statusCode == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case statusCode >= 500:
		return ErrorTypeServerError
	case statusCode >= 400:
		return ErrorTypeBadRequest
	default:
		return ErrorTypeUnknown
	}
}
