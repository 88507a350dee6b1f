package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// UploadResponse is returned by the file upload endpoints
type UploadResponse struct {
	URL      string `json:"url"`
	FileName string `json:"fileName,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// allowed image extensions for gallery/product uploads
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ValidImageName reports whether the filename has a supported image extension
func ValidImageName(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// UploadGalleryPhoto uploads an image to the gallery upload endpoint.
// The body is buffered so the authorized retry can replay it after a
// token refresh.
func (c *Client) UploadGalleryPhoto(ctx context.Context, filename string, data []byte, caption string) (*UploadResponse, error) {
	if !ValidImageName(filename) {
		return nil, fmt.Errorf("unsupported image type: %s", filepath.Ext(filename))
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write upload payload: %w", err)
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return nil, fmt.Errorf("failed to write caption field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	var resp UploadResponse
	err = c.do(ctx, request{
		method:      http.MethodPost,
		endpoint:    "/gallery/upload",
		rawBody:     buf.Bytes(),
		contentType: writer.FormDataContentType(),
		authorized:  true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
