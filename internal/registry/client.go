package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultCacheSize = 256

	// maxDescriptorSize caps a single POM body
	maxDescriptorSize = 8 << 20
)

var ErrDescriptorFetch = errors.New("failed to fetch descriptor")

// DescriptorURL derives the POM URL from an artifact download URL by
// replacing its 3-character extension (.jar, .aar) with "pom". Download URLs
// written by rules_jvm_external always end in such an extension.
func DescriptorURL(downloadURL string) (string, error) {
	n := len(downloadURL)
	if n < 5 || downloadURL[n-4] != '.' {
		return "", fmt.Errorf("%w: download URL %q does not end in a 3-character extension", ErrDescriptorFetch, downloadURL)
	}
	return downloadURL[:n-3] + "pom", nil
}

// Client fetches descriptor documents from Maven repositories
type Client struct {
	HTTPClient *http.Client
	cache      *lru.Cache[string, string]
	logger     *zap.Logger
}

// NewClient creates a descriptor client. timeout bounds every request.
func NewClient(timeout time.Duration, cacheSize int, logger *zap.Logger) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create descriptor cache: %w", err)
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		cache:  cache,
		logger: logger,
	}, nil
}

// FetchDescriptor downloads the document at url. Any transport failure or
// non-200 status is reported as ErrDescriptorFetch.
func (c *Client) FetchDescriptor(ctx context.Context, url string) (string, error) {
	if body, ok := c.cache.Get(url); ok {
		c.logger.Debug("descriptor cache hit", zap.String("url", url))
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request for %s: %v", ErrDescriptorFetch, url, err)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrDescriptorFetch, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s: status %d", ErrDescriptorFetch, url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDescriptorSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read %s: %w", ErrDescriptorFetch, url, err)
	}
	if len(data) > maxDescriptorSize {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrDescriptorFetch, url, maxDescriptorSize)
	}

	c.logger.Debug("fetched descriptor",
		zap.String("url", url),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", time.Since(start)))

	body := string(data)
	c.cache.Add(url, body)
	return body, nil
}
