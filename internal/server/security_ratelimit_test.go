package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSuspiciousActivityDetectorRateLimit(t *testing.T) {
	detector := NewSuspiciousActivityDetector()

	for i := 0; i < 1000; i++ {
		if !detector.RecordRequest("10.0.0.1") {
			t.Fatalf("request %d blocked below the limit", i+1)
		}
	}

	if detector.RecordRequest("10.0.0.1") {
		t.Error("expected request 1001 to be blocked")
	}

	// Other IPs are counted independently
	if !detector.RecordRequest("10.0.0.2") {
		t.Error("expected fresh IP to be allowed")
	}
}

func TestSecurityLoggingMiddlewareBlocksOverLimit(t *testing.T) {
	detector := NewSuspiciousActivityDetector()
	middleware := SecurityLoggingMiddleware(nil, detector)
	handler := middleware(okHandler())

	for i := 0; i < 1000; i++ {
		detector.RecordRequest("203.0.113.7")
	}

	req := httptest.NewRequest("GET", "/api/v1/shop/items", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected status %d, got %d", http.StatusTooManyRequests, rec.Code)
	}
}
