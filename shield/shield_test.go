package shield

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTraceID(t *testing.T) {
	var gotTrace string
	h := TraceID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTrace = GetTraceID(r.Context())
		if GetLogger(r.Context()) == nil {
			t.Error("no per-request logger in context")
		}
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))

	if gotTrace == "" {
		t.Error("no trace ID in context")
	}
	if hdr := rec.Header().Get("X-Trace-ID"); hdr != gotTrace {
		t.Errorf("X-Trace-ID = %q, context = %q", hdr, gotTrace)
	}
	if len(gotTrace) != 8 {
		t.Errorf("trace ID length = %d, want 8 hex chars", len(gotTrace))
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(DefaultHeaders())(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestHeadToGet(t *testing.T) {
	var method string
	h := HeadToGet(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodHead, "/", nil))
	if method != http.MethodGet {
		t.Errorf("method = %q, want GET", method)
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	if method != http.MethodPost {
		t.Errorf("method = %q, want POST untouched", method)
	}
}
