// Package media uploads post attachments to the external media host.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"studenthub/internal/models"
	"studenthub/internal/observability"

	_ "golang.org/x/image/webp" // register WebP decoder
)

// UploadInput is one attachment to push to the media host.
type UploadInput struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Result describes a stored attachment.
type Result struct {
	URL          string
	FileType     string
	OriginalName string
}

// Uploader stores attachments on the media host. Implementations must be
// safe for concurrent use.
type Uploader interface {
	Upload(ctx context.Context, in UploadInput) (*Result, error)
}

const maxUploadSizeBytes = 10 * 1024 * 1024

// HTTPGateway posts attachments as multipart form data to a media host
// endpoint and reads the hosted URL from its JSON response.
type HTTPGateway struct {
	uploadURL string
	apiKey    string
	client    *http.Client
}

func NewHTTPGateway(uploadURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		uploadURL: uploadURL,
		apiKey:    apiKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *HTTPGateway) Upload(ctx context.Context, in UploadInput) (*Result, error) {
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if len(in.Content) > maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", maxUploadSizeBytes/(1024*1024)))
	}

	fileType := Classify(in.Filename, in.ContentType, in.Content)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", in.Filename)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if _, err := part.Write(in.Content); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := writer.Close(); err != nil {
		return nil, models.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.uploadURL, body)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	observability.MediaUploadLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.MediaUploads.WithLabelValues("error").Inc()
		return nil, models.NewInternalError(fmt.Errorf("media host unreachable: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		observability.MediaUploads.WithLabelValues("error").Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, models.NewInternalError(fmt.Errorf("media host returned %d: %s", resp.StatusCode, snippet))
	}

	var hosted struct {
		URL       string `json:"url"`
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&hosted); err != nil {
		observability.MediaUploads.WithLabelValues("error").Inc()
		return nil, models.NewInternalError(fmt.Errorf("media host response: %w", err))
	}
	url := hosted.SecureURL
	if url == "" {
		url = hosted.URL
	}
	if url == "" {
		observability.MediaUploads.WithLabelValues("error").Inc()
		return nil, models.NewInternalError(fmt.Errorf("media host response missing url"))
	}

	observability.MediaUploads.WithLabelValues("success").Inc()
	return &Result{
		URL:          url,
		FileType:     fileType,
		OriginalName: in.Filename,
	}, nil
}

// Classify derives the coarse attachment type stored alongside a post.
// PDFs collapse to "pdf", decodable images to their format name ("jpeg",
// "png", "gif", "webp"), and anything else keeps its declared content type.
func Classify(filename, contentType string, content []byte) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if ct == "application/pdf" || strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return "pdf"
	}
	if strings.HasPrefix(ct, "image/") {
		if _, format, err := image.DecodeConfig(bytes.NewReader(content)); err == nil {
			return format
		}
		// Declared image that does not decode keeps its subtype.
		return strings.TrimPrefix(ct, "image/")
	}
	return ct
}
