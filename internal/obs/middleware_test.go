package obs_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/walldriyan/banana-sub000/internal/obs"
)

func TestHTTPMetricsLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := obs.NewHTTPMetrics("discounts", []float64{1, 10}, registry)
	handler := obs.HTTPObs{Metrics: metrics}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	req = req.WithContext(obs.WithRoutePattern(req.Context(), "/health/ready"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rr.Code)
	}

	total := testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodGet, "/health/ready", "204"))
	if total != 1 {
		t.Fatalf("expected counter to be 1, got %v", total)
	}

	samples := testutil.CollectAndCount(metrics.ReqDur)
	if samples == 0 {
		t.Fatalf("expected histogram sample")
	}

	if metrics.InFlight != nil {
		if val := testutil.ToFloat64(metrics.InFlight); val != 0 {
			t.Fatalf("expected no in-flight requests, got %v", val)
		}
	}
}

func TestCampaignAnnotationRoundTrip(t *testing.T) {
	ctx := obs.WithCampaignAnnotation(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	obs.SetCampaignID(ctx, "c-1")
	if got := obs.CampaignIDFromContext(ctx); got != "c-1" {
		t.Fatalf("expected campaign id c-1, got %q", got)
	}
	if got := obs.CampaignIDFromContext(nil); got != "" {
		t.Fatalf("expected empty campaign id, got %q", got)
	}
	// No annotation installed: setting is a no-op, reading is empty.
	bare := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	obs.SetCampaignID(bare, "c-2")
	if got := obs.CampaignIDFromContext(bare); got != "" {
		t.Fatalf("expected empty campaign id without annotation, got %q", got)
	}
}
