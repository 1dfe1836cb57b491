package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// MediaClient downloads media binaries from their original links
type MediaClient struct {
	http *resty.Client
}

// NewMediaClient creates a media fetcher
func NewMediaClient(timeout int) *MediaClient {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(time.Duration(timeout) * time.Second)
	}
	return &MediaClient{http: c}
}

// Fetch retrieves the binary content at url
func (m *MediaClient) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := m.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("media fetch failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("media fetch failed: status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}
