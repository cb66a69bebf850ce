package http

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/building-feature-engineering/services/api/building"
	"github.com/02loveslollipop/building-feature-engineering/services/api/config"
	"github.com/02loveslollipop/building-feature-engineering/services/api/metrics"
)

const buildingsPayload = `{"Library":{"sensors":[{"type":"Electricity","desc":"Main meter","unit":"kWh"},{"type":"Power","desc":"Load","unit":"kW"}],"dataframe":"{\"Electricity\":{\"1000\":10,\"2000\":12,\"3000\":9},\"Power\":{\"1000\":0,\"2000\":5,\"3000\":10}}"}}`

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Config{
		Port:           0,
		AllowedOrigins: []string{"*"},
		MaxBodyBytes:   1 << 20,
		GinMode:        gin.TestMode,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, metrics.New())
}

func envelope(t *testing.T, payload string) string {
	t.Helper()
	body, err := json.Marshal(map[string]string{"payload": payload})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return string(body)
}

func post(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	return rec
}

// decodeResult unwraps the JSON string body and decodes the buildings in it.
func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) building.Collection {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var encoded string
	if err := json.Unmarshal(rec.Body.Bytes(), &encoded); err != nil {
		t.Fatalf("body is not a JSON string: %v (%s)", err, rec.Body.String())
	}
	c, err := building.DecodeString(encoded)
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return c
}

func TestDiffEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	c := decodeResult(t, post(t, s, "/diff", envelope(t, buildingsPayload)))

	b := c["Library"]
	if len(b.Sensors) != 3 {
		t.Fatalf("sensors: got %+v", b.Sensors)
	}
	if got := b.Sensors[2]; got.Type != "Electricity Diff" || got.Unit != "kWh / 15 min" || got.Desc != "Main meter" {
		t.Errorf("diff sensor: got %+v", got)
	}
	diff, ok := b.Table.Column("Electricity Diff")
	if !ok {
		t.Fatalf("diff column missing: %v", b.Table.Columns())
	}
	if !math.IsNaN(diff[0]) || diff[1] != 2 || diff[2] != -3 {
		t.Errorf("diff: got %v", diff)
	}
	if b.Table.HasColumn("Power Diff") {
		t.Error("kW sensor should not be differenced")
	}
}

func TestNormalizeEndpoints(t *testing.T) {
	cases := []struct {
		path  string
		power []float64
	}{
		{"/normalize/minmax", []float64{0, 0.5, 1}},
		{"/normalize/mean", []float64{-1, 0, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			s := newTestServer(t, nil)
			c := decodeResult(t, post(t, s, tc.path, envelope(t, buildingsPayload)))
			got, _ := c["Library"].Table.Column("Power")
			for i, want := range tc.power {
				if math.Abs(got[i]-want) > 1e-9 {
					t.Errorf("Power[%d]: got %v, want %v", i, got[i], want)
				}
			}
			if len(c["Library"].Sensors) != 2 {
				t.Errorf("normalization must not add sensors: %+v", c["Library"].Sensors)
			}
		})
	}
}

func TestEmptyCollection(t *testing.T) {
	s := newTestServer(t, nil)
	rec := post(t, s, "/normalize/mean", envelope(t, "{}"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != `"{}"` {
		t.Errorf("body: got %s, want \"{}\"", got)
	}
}

func TestTransformErrors(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"empty payload", "/diff", `{"payload": ""}`, http.StatusBadRequest},
		{"missing payload", "/diff", `{}`, http.StatusBadRequest},
		{"not json", "/normalize/minmax", `payload=1`, http.StatusBadRequest},
		{"no body", "/normalize/mean", ``, http.StatusBadRequest},
		{"malformed dataframe", "/diff", envelope(t, `{"B":{"sensors":[],"dataframe":"nope"}}`), http.StatusBadRequest},
		{"missing column", "/diff", envelope(t, `{"B":{"sensors":[{"type":"Gas","desc":"","unit":"m³"}],"dataframe":"{}"}}`), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			rec := post(t, s, tc.path, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status: got %d, want %d (%s)", rec.Code, tc.status, rec.Body.String())
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Errorf("error body: %s", rec.Body.String())
			}
		})
	}
}

func TestBodyTooLarge(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.MaxBodyBytes = 64 })
	rec := post(t, s, "/diff", envelope(t, buildingsPayload))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status: got %d, want 413", rec.Code)
	}
}

func TestRootListsRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var routes []RouteInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &routes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]string{
		"/":                 "Root path",
		"/diff":             "create_diff",
		"/normalize/minmax": "create_min_max_normalization",
		"/normalize/mean":   "create_mean_normalization",
	}
	if len(routes) != len(want) {
		t.Fatalf("routes: got %+v", routes)
	}
	for _, r := range routes {
		if want[r.Path] != r.Name {
			t.Errorf("route %s: got name %q, want %q", r.Path, r.Name, want[r.Path])
		}
	}
}

func TestRequestIDAndCORS(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.AllowedOrigins = []string{"https://app.example"} })

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("request id: got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Errorf("allow origin: got %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/diff", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status: got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin echoed: %q", got)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("generated request id missing")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	post(t, s, "/diff", envelope(t, buildingsPayload))

	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`feature_buildings_processed_total{transform="diff"} 1`,
		`http_requests_total{route="/diff",status="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
