package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ayyaapp/ayya/auth"
	"github.com/ayyaapp/ayya/config"
	"github.com/ayyaapp/ayya/excel"
	"github.com/ayyaapp/ayya/export"
	"github.com/ayyaapp/ayya/network"
	"github.com/ayyaapp/ayya/share"
	"github.com/ayyaapp/ayya/store/types"
	"github.com/ayyaapp/ayya/test"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportTime = time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)

type countingFetcher struct {
	calls atomic.Int64
	next  network.Fetcher
}

func (fetcher *countingFetcher) Fetch(ctx context.Context, url string) (*network.Image, error) {
	fetcher.calls.Add(1)
	if fetcher.next == nil {
		return nil, network.ErrStatus
	}
	return fetcher.next.Fetch(ctx, url)
}

func testDeps(records types.Store, authorizer auth.Authorizer, fetcher network.Fetcher) *Dependencies {
	return &Dependencies{
		Authorizer: authorizer,
		Aggregator: export.NewAggregator(records, share.Collections()),
		Builder:    excel.NewBuilder(fetcher),
		Location:   time.UTC,
		Now:        func() time.Time { return exportTime },
	}
}

func allow(r *http.Request) bool { return true }

func deny(r *http.Request) bool { return false }

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestExportUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	records := &test.CountingStore{Store: test.ContactStore()}
	fetcher := &countingFetcher{}

	for _, authorizer := range []auth.Authorizer{auth.AuthorizerFunc(deny), nil} {
		router := Router(testDeps(records, authorizer, fetcher), nil)
		for _, format := range []string{"json", "excel", "xlsx", ""} {
			rec := get(router, "/api/admin/export?format="+format+"&start=2025-01-01&end=2025-01-31")
			assert.Equal(t, 401, rec.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
			assert.Empty(t, rec.Header().Get("Content-Disposition"))
		}
	}

	assert.Equal(t, 0, records.Queries())
	assert.Equal(t, int64(0), fetcher.calls.Load())
}

func TestExportJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	records := &test.CountingStore{Store: test.ContactStore()}
	router := Router(testDeps(records, auth.AuthorizerFunc(allow), nil), nil)

	rec := get(router, "/api/admin/export?format=json&start=2025-01-01&end=2025-01-31")
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "attachment; filename=ayya-export-2025-02-03-04-05-06.json", rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))
	assert.Equal(t,
		`{"contact-us":[`+
			`{"id":1,"name":"A","created_at":"2025-01-05T10:00:00Z"},`+
			`{"id":2,"name":"B","email":"b@x.com","created_at":"2025-01-31T23:59:59.999Z"}]}`,
		rec.Body.String())
	assert.Equal(t, len(share.Collections()), records.Queries())

	// unparsable dates leave the range open, missing format means json
	rec = get(router, "/api/admin/export?start=soon&end=later")
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"C"`)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".json")
}

func TestExportEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := Router(testDeps(&test.CountingStore{}, auth.AuthorizerFunc(allow), nil), nil)

	rec := get(router, "/api/admin/export")
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, `{}`, rec.Body.String())

	rec = get(router, "/api/admin/export?format=excel")
	require.Equal(t, 200, rec.Code)
	xls, err := excel.Read(rec.Body.Bytes())
	require.NoError(t, err)
	defer xls.Close()
	assert.Equal(t, []string{excel.DefaultSheet}, xls.ListSheets())
}

func TestExportExcel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := test.NewImageServer(t)
	records := test.ContactStore().Put("profile_photos",
		types.NewRow().Set("id", 1).Set("photo_url", srv.URL+"/p1.png").Set("created_at", "2025-01-10T00:00:00Z"),
		types.NewRow().Set("id", 2).Set("photo_url", srv.URL+"/broken.png").Set("created_at", "2025-01-11T00:00:00Z"),
	)
	fetcher := &countingFetcher{next: network.NewImageFetcher(network.Option{Timeout: 5 * time.Second})}
	router := Router(testDeps(records, auth.AuthorizerFunc(allow), fetcher), nil)

	rec := get(router, "/api/admin/export?format=XLSX&start=2025-01-01&end=2025-01-31")
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, export.XLSXMime, rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "attachment; filename=ayya-export-2025-02-03-04-05-06.xlsx", rec.Header().Get("Content-Disposition"))

	xls, err := excel.Read(rec.Body.Bytes())
	require.NoError(t, err)
	defer xls.Close()
	assert.Equal(t, []string{"contact-us", "profile_photos"}, xls.ListSheets())

	pics, err := xls.GetPictures("profile_photos", "B2")
	require.NoError(t, err)
	assert.Len(t, pics, 1)
	pics, err = xls.GetPictures("profile_photos", "B3")
	require.NoError(t, err)
	assert.Empty(t, pics)

	value, _ := xls.GetCellValue("profile_photos", "B3")
	assert.Equal(t, srv.URL+"/broken.png", value)
	assert.Equal(t, int64(2), fetcher.calls.Load())
}

func TestExportWorkbookFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	records := test.ContactStore().
		Put("volunteer_registrations_archive_a", types.NewRow().Set("id", 1)).
		Put("volunteer_registrations_archive_b", types.NewRow().Set("id", 2))

	deps := testDeps(records, auth.AuthorizerFunc(allow), nil)
	deps.Aggregator = export.NewAggregator(records, []string{"volunteer_registrations_archive_a", "volunteer_registrations_archive_b"})
	rec := get(Router(deps, nil), "/api/admin/export?format=excel")
	assert.Equal(t, 500, rec.Code)
	assert.JSONEq(t, `{"error":"Export failed"}`, rec.Body.String())
}

func TestLoginLogout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	admin := auth.NewAdmin(config.Admin{Email: "admin@ayya.org", Password: "Secret#1", Secret: "dev-secret"})
	deps := testDeps(test.ContactStore(), admin, nil)
	deps.Admin = admin
	router := Router(deps, nil)

	post := func(target, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := post("/api/admin/login", `{"email":"admin@ayya.org","password":"wrong"}`)
	assert.Equal(t, 401, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())

	rec = post("/api/admin/login", `{"email":"admin@ayya.org"}`)
	assert.Equal(t, 400, rec.Code)

	rec = post("/api/admin/login", `{"email":"admin@ayya.org","password":"Secret#1"}`)
	require.Equal(t, 200, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, 200, rec.Code)

	assert.Equal(t, 401, get(router, "/api/admin/me").Code)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/export?format=json", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, 200, rec.Code)

	rec = post("/api/admin/logout", ``)
	assert.Equal(t, 200, rec.Code)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)
}

func TestCrossOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := Router(testDeps(test.ContactStore(), auth.AuthorizerFunc(deny), nil), []string{"https://ayya.org"})

	req := httptest.NewRequest(http.MethodOptions, "/api/admin/export", nil)
	req.Header.Set("Origin", "https://ayya.org")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, 204, rec.Code)
	assert.Equal(t, "https://ayya.org", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, 200, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestStartStop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := Router(testDeps(test.ContactStore(), auth.AuthorizerFunc(deny), nil), nil)

	srv, err := Start(router, Option{Host: "127.0.0.1", Port: 0})
	require.NoError(t, err)
	assert.Equal(t, READY, <-srv.Event())
	assert.True(t, srv.Ready())

	port, err := srv.Port()
	require.NoError(t, err)
	assert.True(t, port > 0)

	res, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/healthz", port))
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, string(body), share.VERSION)

	res, err = http.Get(fmt.Sprintf("http://127.0.0.1:%d/metrics", port))
	require.NoError(t, err)
	body, _ = io.ReadAll(res.Body)
	res.Body.Close()
	assert.Contains(t, string(body), "go_goroutines")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, Stop(ctx, srv))
	assert.Equal(t, CLOSED, <-srv.Event())
	assert.False(t, srv.Ready())
}
