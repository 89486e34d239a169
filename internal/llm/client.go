// Package llm implements the Gemini transport: file upload, multi-turn
// generateContent sessions, and continuity-aware prompt construction.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spherical/pdf-transcriber/internal/domain"
)

const (
	uploadPath      = "/upload/v1beta/files"
	generatePathFmt = "/v1beta/models/%s:generateContent"
)

// Client handles communication with the Gemini API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Gemini client. baseURL is overridable for tests.
func NewClient(apiKey, model, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// Part is one piece of message content: text or an uploaded-file reference.
type Part struct {
	Text     string    `json:"text,omitempty"`
	FileData *FileData `json:"file_data,omitempty"`
}

// FileData references a file uploaded through the File API.
type FileData struct {
	MimeType string `json:"mime_type,omitempty"`
	FileURI  string `json:"file_uri"`
}

// Content is one conversational turn.
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// generateRequest is the generateContent request body.
type generateRequest struct {
	Contents []Content `json:"contents"`
}

// generateResponse is the generateContent response body.
type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

// uploadResponse is the File API upload response body.
type uploadResponse struct {
	File struct {
		Name string `json:"name"`
		URI  string `json:"uri"`
	} `json:"file"`
}

// UploadFile uploads the PDF bytes through the File API and returns the file
// URI referenced in later generateContent calls. One upload per document.
func (c *Client) UploadFile(ctx context.Context, data []byte) (string, error) {
	url := c.baseURL + uploadPath + "?key=" + c.apiKey

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", domain.FatalModel("build upload request", err)
	}
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("X-Goog-Upload-Command", "start, upload, finalize")
	req.Header.Set("X-Goog-Upload-Header-Content-Length", strconv.Itoa(len(data)))
	req.Header.Set("X-Goog-Upload-Header-Content-Type", "application/pdf")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.TransientModel("upload request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.TransientModel("read upload response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(resp.StatusCode, body)
	}

	var uploaded uploadResponse
	if err := json.Unmarshal(body, &uploaded); err != nil {
		return "", domain.TransientModel("parse upload response", err)
	}
	if uploaded.File.URI == "" {
		return "", domain.FatalModel("upload response has no file URI", nil)
	}
	return uploaded.File.URI, nil
}

// generate performs one generateContent call with the full conversation
// history and returns the model's reply text.
func (c *Client) generate(ctx context.Context, contents []Content) (string, error) {
	url := c.baseURL + fmt.Sprintf(generatePathFmt, c.model) + "?key=" + c.apiKey

	payload, err := json.Marshal(generateRequest{Contents: contents})
	if err != nil {
		return "", domain.FatalModel("marshal generate request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", domain.FatalModel("build generate request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.TransientModel("generate request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.TransientModel("read generate response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(resp.StatusCode, body)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", domain.TransientModel("parse generate response", err)
	}
	if len(genResp.Candidates) == 0 {
		// Empty replies surface as MalformedResponse downstream when the
		// stitcher finds no elements.
		return "", nil
	}

	var text strings.Builder
	for _, part := range genResp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String(), nil
}

// classifyStatus maps an HTTP failure to the error taxonomy: authentication
// and exhausted quota halt the run, rate limits and server errors are
// retryable.
func classifyStatus(status int, body []byte) error {
	msg := fmt.Sprintf("API returned status %d: %s", status, truncateBody(body))
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.FatalModel(msg, nil)
	case status == http.StatusTooManyRequests:
		if strings.Contains(strings.ToLower(string(body)), "quota") {
			return domain.FatalModel(msg, nil)
		}
		return domain.TransientModel(msg, nil)
	case status >= 500 || status == http.StatusRequestTimeout:
		return domain.TransientModel(msg, nil)
	default:
		return domain.FatalModel(msg, nil)
	}
}

// truncateBody keeps error messages readable when the API returns a large
// HTML or JSON body.
func truncateBody(body []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
