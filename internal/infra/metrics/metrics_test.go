package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandlerExposesDomainCounters(t *testing.T) {
	reg := New()
	reg.InterestSent()
	reg.InterestResolved("accepted")
	reg.MessageSent()
	reg.ObserveHTTP(http.MethodPost, "/api/interests", http.StatusCreated, 15*time.Millisecond)

	rr := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	body, _ := io.ReadAll(rr.Body)
	for _, want := range []string{
		"matrimony_interests_sent_total 1",
		`matrimony_interests_resolved_total{decision="accepted"} 1`,
		"matrimony_messages_sent_total 1",
		`matrimony_http_requests_total{method="POST",route="/api/interests",status="201"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestNilRegistryIsSafe(t *testing.T) {
	var reg *Registry
	reg.InterestSent()
	reg.MessageSent()
	reg.ObserveHTTP(http.MethodGet, "", http.StatusOK, time.Millisecond)
}
