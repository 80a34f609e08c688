package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/quake-feed/internal/adapter/http"
	"github.com/couchcryptid/quake-feed/internal/domain"
	"github.com/couchcryptid/quake-feed/internal/observability"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type displayBody struct {
	Rows []struct {
		Index   int                       `json:"index"`
		Display *domain.DisplayEarthquake `json:"display"`
		Error   string                    `json:"error"`
	} `json:"rows"`
}

func newTestServerWithMetrics(t *testing.T, readyErr error) (*httpadapter.Server, *observability.Metrics) {
	t.Helper()
	b, err := domain.NewBuilder(domain.DefaultOptions())
	require.NoError(t, err)
	metrics := observability.NewMetricsForTesting()
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, b, metrics, slog.New(slog.DiscardHandler)), metrics
}

func newTestServer(readyErr error) *httpadapter.Server {
	b, _ := domain.NewBuilder(domain.DefaultOptions())
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, b, observability.NewMetricsForTesting(), slog.New(slog.DiscardHandler))
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(fmt.Errorf("not ready yet"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func postDisplay(t *testing.T, srv *httpadapter.Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/display", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.ServeHTTP(rec, req)
	return rec
}

func TestDisplayBuildsRowsInOrder(t *testing.T) {
	srv, metrics := newTestServerWithMetrics(t, nil)

	rec := postDisplay(t, srv, `{"earthquakes":[
		{"magnitude":6.05,"location_text":"5km N of Cairo, Egypt","time_millis":956787000000},
		{"magnitude":3.2,"location_text":"Pacific-Antarctic Ridge","time_millis":0}
	]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body displayBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Rows, 2)

	require.NotNil(t, body.Rows[0].Display)
	assert.Equal(t, 0, body.Rows[0].Index)
	assert.Equal(t, domain.DisplayEarthquake{
		MagnitudeLabel:      "6.1",
		MagnitudeCategory:   6,
		OffsetText:          "5km N of",
		PrimaryLocationText: "Cairo, Egypt",
		DateLabel:           "Apr 26, 2000",
		TimeLabel:           "10:10 PM",
	}, *body.Rows[0].Display)

	require.NotNil(t, body.Rows[1].Display)
	assert.Equal(t, "Near the", body.Rows[1].Display.OffsetText)
	assert.Equal(t, "Jan 1, 1970", body.Rows[1].Display.DateLabel)

	assert.InDelta(t, 2, testutil.ToFloat64(metrics.DisplayCalls.WithLabelValues("success")), 0)
}

func TestDisplayBadRecordDoesNotFailRequest(t *testing.T) {
	srv, metrics := newTestServerWithMetrics(t, nil)

	rec := postDisplay(t, srv, `{"earthquakes":[
		{"magnitude":4.0,"location_text":"Nowhere","time_millis":300000000000000000},
		{"magnitude":10.4,"location_text":"Rooftop Hills","time_millis":0}
	]}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body displayBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Rows, 2)

	assert.Nil(t, body.Rows[0].Display)
	assert.Contains(t, body.Rows[0].Error, "invalid input")

	require.NotNil(t, body.Rows[1].Display)
	assert.Equal(t, 1, body.Rows[1].Index)
	assert.Equal(t, 9, body.Rows[1].Display.MagnitudeCategory)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DisplayCalls.WithLabelValues("invalid")), 0)
}

func TestDisplayEmptyList(t *testing.T) {
	srv := newTestServer(nil)

	rec := postDisplay(t, srv, `{"earthquakes":[]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"rows":[]}`, rec.Body.String())
}

func TestDisplayMalformedBody(t *testing.T) {
	srv := newTestServer(nil)

	rec := postDisplay(t, srv, `{"earthquakes":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request body")
}

func TestDisplayBodyTooLarge(t *testing.T) {
	srv := newTestServer(nil)

	var buf bytes.Buffer
	buf.WriteString(`{"earthquakes":[`)
	for i := 0; buf.Len() < 1<<20; i++ {
		fmt.Fprintf(&buf, `{"magnitude":1.0,"location_text":"Pacific-Antarctic Ridge","time_millis":%d},`, i)
	}
	buf.WriteString(`{"magnitude":1.0}]}`)

	rec := postDisplay(t, srv, buf.String())

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestDisplayRejectsGet(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/display", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
