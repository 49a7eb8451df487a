package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/sortstage/pkg/cache"
	"github.com/matzehuels/sortstage/pkg/trace"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	return New(c, nil)
}

func postTrace(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/trace", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestAlgorithms(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/algorithms", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var algs []struct {
		Name   string `json:"name"`
		Stable bool   `json:"stable"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &algs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(algs) != 4 {
		t.Fatalf("got %d algorithms, want 4", len(algs))
	}
	stable := map[string]bool{}
	for _, a := range algs {
		stable[a.Name] = a.Stable
	}
	if !stable["bubble"] || stable["quick"] || stable["selection"] || !stable["merge"] {
		t.Errorf("stability flags wrong: %v", stable)
	}
}

func TestTraceWithValues(t *testing.T) {
	s := newTestServer(t)

	rec := postTrace(t, s, `{"algorithm": "quick", "values": [5, 3, 8, 1]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	tr, err := trace.Unmarshal(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("decode trace: %v", err)
	}
	if tr.Algorithm != "quick" {
		t.Errorf("Algorithm = %q, want quick", tr.Algorithm)
	}
	if !slices.Equal(tr.Output, []int{1, 3, 5, 8}) {
		t.Errorf("Output = %v, want [1 3 5 8]", tr.Output)
	}
	if tr.Comparisons != 5 || tr.Swaps != 6 {
		t.Errorf("counters = (%d, %d), want (5, 6)", tr.Comparisons, tr.Swaps)
	}
}

func TestTraceGenerated(t *testing.T) {
	s := newTestServer(t)

	rec := postTrace(t, s, `{"algorithm": "merge", "size": 12, "seed": 7}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	tr, err := trace.Unmarshal(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("decode trace: %v", err)
	}
	if len(tr.Input) != 12 {
		t.Errorf("generated %d values, want 12", len(tr.Input))
	}
	if !slices.IsSorted(tr.Output) {
		t.Errorf("Output not sorted: %v", tr.Output)
	}

	// The same seed reproduces the same dataset, hence the same trace.
	rec2 := postTrace(t, s, `{"algorithm": "merge", "size": 12, "seed": 7}`)
	if rec2.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec2.Code)
	}
	tr2, err := trace.Unmarshal(rec2.Body.Bytes())
	if err != nil {
		t.Fatalf("decode trace: %v", err)
	}
	if !reflect.DeepEqual(tr, tr2) {
		t.Error("same seed produced different traces")
	}
}

func TestTraceCached(t *testing.T) {
	s := newTestServer(t)
	body := `{"algorithm": "bubble", "values": [3, 1, 2]}`

	first := postTrace(t, s, body)
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", first.Code)
	}
	second := postTrace(t, s, body)
	if second.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", second.Code)
	}

	a, err := trace.Unmarshal(first.Body.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b, err := trace.Unmarshal(second.Body.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("cached response differs from computed response")
	}
}

func TestTraceErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "MalformedBody",
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "UnknownAlgorithm",
			body:       `{"algorithm": "bogo", "values": [2, 1]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_ALGORITHM",
		},
		{
			name:       "MissingAlgorithm",
			body:       `{"values": [2, 1]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_ALGORITHM",
		},
		{
			name:       "NoValuesNoSize",
			body:       `{"algorithm": "bubble"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "ValueOutOfRange",
			body:       `{"algorithm": "bubble", "values": [0, 1]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			rec := postTrace(t, s, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body)
			}
			var resp struct {
				Code string `json:"code"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}
