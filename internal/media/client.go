package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"
)

// Store is the upload/delete contract of the external image host. The rest
// of the application only ever sees stable URLs.
type Store interface {
	Upload(ctx context.Context, payload string) (string, error)
	Delete(ctx context.Context, url string) error
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Upload sends a base64 image payload and returns the hosted URL.
func (c *Client) Upload(ctx context.Context, payload string) (string, error) {
	body, err := json.Marshal(map[string]string{"file": payload})
	if err != nil {
		return "", err
	}

	resp, err := c.post(ctx, "/upload", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("media upload failed: status %d", resp.StatusCode)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("media upload failed: empty url")
	}
	return out.SecureURL, nil
}

// Delete removes a previously uploaded image. The storage key is the last
// path segment of the URL without its extension.
func (c *Client) Delete(ctx context.Context, url string) error {
	key := StorageKey(url)
	if key == "" {
		return fmt.Errorf("media delete: cannot derive key from %q", url)
	}

	body, err := json.Marshal(map[string]string{"public_id": key})
	if err != nil {
		return err
	}

	resp, err := c.post(ctx, "/destroy", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("media delete failed: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return c.http.Do(req)
}

// StorageKey derives the store's object key from a hosted URL, e.g.
// "https://media.example/image/upload/v17/q3qntserod0.png" -> "q3qntserod0".
func StorageKey(url string) string {
	last := path.Base(url)
	if last == "." || last == "/" {
		return ""
	}
	if idx := strings.Index(last, "."); idx >= 0 {
		last = last[:idx]
	}
	return last
}
