package test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ayyaapp/ayya/store/memory"
	"github.com/ayyaapp/ayya/store/types"
)

// CountingStore a store wrapper counting the queries it serves
type CountingStore struct {
	Store   types.Store
	Fail    map[string]error // Collections answering with an error
	queries atomic.Int64
	mu      sync.Mutex
	seen    []string
}

// Query count the call, fail the collections listed in Fail, pass the rest through
func (store *CountingStore) Query(ctx context.Context, collection string, rng types.Range) ([]*types.Row, error) {
	store.queries.Add(1)
	store.mu.Lock()
	store.seen = append(store.seen, collection)
	store.mu.Unlock()

	if err, has := store.Fail[collection]; has {
		return nil, err
	}
	if store.Store == nil {
		return nil, fmt.Errorf("%s: %w", collection, types.ErrNotFound)
	}
	return store.Store.Query(ctx, collection, rng)
}

// Queries the number of Query calls so far
func (store *CountingStore) Queries() int {
	return int(store.queries.Load())
}

// Seen the collections queried, in call order
func (store *CountingStore) Seen() []string {
	store.mu.Lock()
	defer store.mu.Unlock()
	return append([]string(nil), store.seen...)
}

// ContactStore the store behind the january contact-us export example:
// two rows inside the month, one after it, and nothing else
func ContactStore() *memory.Memory {
	return memory.New("created_at").Put("contact-us",
		types.NewRow().Set("id", 1).Set("name", "A").Set("created_at", "2025-01-05T10:00:00Z"),
		types.NewRow().Set("id", 2).Set("name", "B").Set("email", "b@x.com").Set("created_at", "2025-01-31T23:59:59.999Z"),
		types.NewRow().Set("id", 3).Set("name", "C").Set("created_at", "2025-02-01T00:00:00Z"),
	)
}

// PNG a solid w x h PNG image
func PNG(t testing.TB, w, h int) []byte {
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, solid(w, h)); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// JPEG a solid w x h JPEG image
func JPEG(t testing.TB, w, h int) []byte {
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, solid(w, h), nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	return img
}

// ImageServer an HTTP server answering *.png paths with a PNG, *.jpg paths with a JPEG
// and every other path with 404. Paths containing "broken" answer 404, paths containing
// "error" answer 500 and paths containing "text" answer a text/plain body.
type ImageServer struct {
	*httptest.Server
	hits atomic.Int64
}

// NewImageServer start an image server, closed when the test ends
func NewImageServer(t testing.TB) *ImageServer {
	pngData := PNG(t, 120, 80)
	jpegData := JPEG(t, 90, 90)
	srv := &ImageServer{}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.hits.Add(1)
		switch {
		case strings.Contains(r.URL.Path, "broken"):
			http.NotFound(w, r)
		case strings.Contains(r.URL.Path, "error"):
			w.WriteHeader(http.StatusInternalServerError)
		case strings.Contains(r.URL.Path, "text"):
			w.Header().Set("Content-Type", "text/plain")
			fmt.Fprint(w, "not an image")
		case strings.HasSuffix(r.URL.Path, ".png"):
			w.Header().Set("Content-Type", "image/png")
			w.Write(pngData)
		case strings.HasSuffix(r.URL.Path, ".jpg"):
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write(jpegData)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// Hits the number of requests served
func (srv *ImageServer) Hits() int {
	return int(srv.hits.Load())
}
