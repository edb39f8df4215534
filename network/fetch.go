package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ayyaapp/ayya/share"
	"github.com/yaoapp/kun/log"
)

var (
	// ErrStatus the server did not answer 2xx
	ErrStatus = errors.New("unexpected status")
	// ErrNotImage the response is not an image
	ErrNotImage = errors.New("not an image")
	// ErrTooLarge the image is over the size limit
	ErrTooLarge = errors.New("image too large")
)

// Image downloaded image bytes
type Image struct {
	URL         string
	Data        []byte
	ContentType string // e.g. image/jpeg
	Extension   string // the content type subtype, e.g. jpeg, svg+xml
}

// Fetcher downloads remote images. Any error means "no image".
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Image, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, url string) (*Image, error)

// Fetch call the function
func (fn FetcherFunc) Fetch(ctx context.Context, url string) (*Image, error) {
	return fn(ctx, url)
}

// Option the image fetcher settings
type Option struct {
	Timeout   time.Duration     // Per request, 0 means no limit
	MaxBytes  int64             // Largest accepted body, 0 means no limit
	Hosts     []string          // Allowed hosts, empty allows every host
	Transport http.RoundTripper // Optional, defaults to a clone of http.DefaultTransport
}

// ImageFetcher fetches images over HTTP(S) bypassing caches
type ImageFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewImageFetcher create an image fetcher
func NewImageFetcher(option Option) *ImageFetcher {
	base := option.Transport
	if base == nil {
		base = http.DefaultTransport.(*http.Transport).Clone()
	}
	return &ImageFetcher{
		client:   &http.Client{Timeout: option.Timeout, Transport: NewGuard(base, option.Hosts)},
		maxBytes: option.MaxBytes,
	}
}

// Fetch download the image at url
func (fetcher *ImageFetcher) Fetch(ctx context.Context, url string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "image/*")
	req.Header.Set("User-Agent", share.BUILDNAME+"/"+share.VERSION)

	resp, err := fetcher.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w %d", ErrStatus, resp.StatusCode)
	}

	contentType := mediaType(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: %q", ErrNotImage, contentType)
	}

	var reader io.Reader = resp.Body
	if fetcher.maxBytes > 0 {
		if resp.ContentLength > fetcher.maxBytes {
			return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
		}
		reader = io.LimitReader(resp.Body, fetcher.maxBytes+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if fetcher.maxBytes > 0 && int64(len(data)) > fetcher.maxBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, fetcher.maxBytes)
	}

	log.Trace("[Fetch] %s %s %d bytes", url, contentType, len(data))
	return &Image{
		URL:         url,
		Data:        data,
		ContentType: contentType,
		Extension:   Extension(contentType),
	}, nil
}

// Extension the subtype of an image content type, png when there is none
func Extension(contentType string) string {
	contentType = mediaType(contentType)
	_, subtype, _ := strings.Cut(contentType, "/")
	if subtype == "" {
		return "png"
	}
	return subtype
}

func mediaType(contentType string) string {
	contentType, _, _ = strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(contentType))
}
