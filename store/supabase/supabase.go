package supabase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ayyaapp/ayya/share"
	"github.com/ayyaapp/ayya/store/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/yaoapp/kun/log"
)

// Option the PostgREST connection settings
type Option struct {
	URL      string        // Project URL, e.g. https://<ref>.supabase.co
	Key      string        // Service role key
	Column   string        // Creation time column
	OrderKey string        // Unique column that breaks creation time ties between pages
	PageSize int           // Rows per request, 0 reads everything in one request
	Timeout  time.Duration // Per request
	Client   *http.Client  // Optional, replaces the default client
}

// Supabase reads collections through the Supabase REST (PostgREST) API with the service role key
type Supabase struct {
	base     *url.URL
	key      string
	column   string
	order    string
	pageSize int
	client   *http.Client
}

// Error a PostgREST error response
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// New create a Supabase store
func New(option Option) (*Supabase, error) {
	if option.URL == "" || option.Key == "" {
		return nil, fmt.Errorf("supabase url and service key are required")
	}

	base, err := url.Parse(strings.TrimRight(option.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("supabase url %s: %w", option.URL, err)
	}

	client := option.Client
	if client == nil {
		client = &http.Client{Timeout: option.Timeout}
	}

	column := option.Column
	if column == "" {
		column = "created_at"
	}

	order := column + ".asc"
	if option.OrderKey != "" && option.OrderKey != column {
		order += "," + option.OrderKey + ".asc"
	}

	return &Supabase{
		base:     base,
		key:      option.Key,
		column:   column,
		order:    order,
		pageSize: option.PageSize,
		client:   client,
	}, nil
}

// Query read every page of the collection inside the range
func (store *Supabase) Query(ctx context.Context, collection string, rng types.Range) ([]*types.Row, error) {
	rows := []*types.Row{}
	for offset := 0; ; offset += store.pageSize {
		page, err := store.page(ctx, collection, rng, offset)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page...)
		if store.pageSize <= 0 || len(page) < store.pageSize {
			break
		}
	}
	return rows, nil
}

func (store *Supabase) page(ctx context.Context, collection string, rng types.Range, offset int) ([]*types.Row, error) {

	endpoint := store.base.JoinPath("rest", "v1", collection)
	query := url.Values{}
	query.Set("select", "*")
	if rng.Start != nil {
		query.Add(store.column, "gte."+timestamp(*rng.Start))
	}
	if rng.End != nil {
		query.Add(store.column, "lte."+timestamp(*rng.End))
	}
	if store.pageSize > 0 {
		// offsets only address the same rows across requests under a total order
		query.Set("order", store.order)
		query.Set("limit", strconv.Itoa(store.pageSize))
		query.Set("offset", strconv.Itoa(offset))
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", store.key)
	req.Header.Set("Authorization", "Bearer "+store.key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-ayya-client", share.CLIENTNAME)

	log.Trace("[Supabase] GET %s", endpoint.Path)
	resp, err := store.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(resp.StatusCode, body)
	}

	rows, err := types.DecodeRows(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	return rows, nil
}

func newError(status int, body []byte) *Error {
	res := &Error{}
	if err := jsoniter.Unmarshal(body, res); err != nil || res.Message == "" {
		res.Message = strings.TrimSpace(string(body))
	}
	res.Status = status
	return res
}

// Error the error message
func (err *Error) Error() string {
	if err.Code != "" {
		return fmt.Sprintf("supabase %d %s: %s", err.Status, err.Code, err.Message)
	}
	return fmt.Sprintf("supabase %d: %s", err.Status, err.Message)
}

// Unwrap missing tables unwrap to types.ErrNotFound
func (err *Error) Unwrap() error {
	if err.Missing() {
		return types.ErrNotFound
	}
	return nil
}

// Missing reports whether the error says the table does not exist
func (err *Error) Missing() bool {
	switch err.Code {
	case "42P01", "PGRST205":
		return true
	}
	return strings.Contains(err.Details, "does not exist") || strings.Contains(err.Message, "does not exist")
}

// timestamp the ISO-8601 form PostgREST compares timestamptz columns with
func timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
