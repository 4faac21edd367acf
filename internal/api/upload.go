// ABOUTME: Image upload for restaurant and menu photos
// ABOUTME: Multipart POST carrying the 60-second upload budget

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// UploadImage posts an image file to the partner area, attaching it to the
// named target ("restaurant" or "menu") and id. Uses the upload client,
// whose longer timeout covers slow links; everything else matches Do.
func (c *Client) UploadImage(ctx context.Context, target string, id int64, imagePath string) (*Result, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copy image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finish form: %w", err)
	}

	path := fmt.Sprintf("%s/%ss/%d/image", basePartner, target, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := c.attachSession(req); err != nil {
		return nil, err
	}

	return c.send(c.uploadClient, req)
}
