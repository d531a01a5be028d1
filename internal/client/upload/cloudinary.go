package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/client/config"
)

// CloudinaryUploader performs unsigned uploads with an upload preset.
type CloudinaryUploader struct {
	endpoint string
	preset   string
	http     *http.Client
}

func NewCloudinaryUploader(cfg config.Cloudinary, timeout time.Duration) *CloudinaryUploader {
	base := cfg.APIBase
	if base == "" {
		base = "https://api.cloudinary.com/v1_1"
	}
	return &CloudinaryUploader{
		endpoint: strings.TrimRight(base, "/") + "/" + cfg.CloudName + "/image/upload",
		preset:   cfg.UploadPreset,
		http:     &http.Client{Timeout: timeout},
	}
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (u *CloudinaryUploader) Upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("upload_preset", u.preset); err != nil {
		return "", err
	}
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}

	var out cloudinaryResponse
	decodeErr := json.Unmarshal(data, &out)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("upload failed: %s", out.Error.Message)
		}
		return "", fmt.Errorf("upload failed: %s", resp.Status)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode upload response: %w", decodeErr)
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("upload failed: response has no secure_url")
	}
	return out.SecureURL, nil
}
