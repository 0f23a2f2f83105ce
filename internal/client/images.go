package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
)

// UploadImage sends an image file as multipart form data and returns the
// URL the platform stored it under (relative or absolute). The whole file
// is buffered so the request can be replayed after a token renewal.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("create multipart field: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finish multipart body: %w", err)
	}

	var resp struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := c.doRaw(ctx, http.MethodPost, "/api/images/upload", nil, w.FormDataContentType(), buf.Bytes(), &resp); err != nil {
		return "", err
	}
	return resp.ImageURL, nil
}

// ImageURL resolves a stored image reference to an absolute URL. External
// references pass through untouched; empty references return "".
func (c *Client) ImageURL(image *string) string {
	if image == nil || *image == "" {
		return ""
	}
	if len(*image) >= 4 && (*image)[:4] == "http" {
		return *image
	}
	return c.baseURL + *image
}
