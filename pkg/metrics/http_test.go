package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestObserveRequestRecordsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("POST", "/guest-orders", 200, 25*time.Millisecond)
	m.ObserveRequest("POST", "/guest-orders", 200, 35*time.Millisecond)
	m.ObserveRequest("POST", "/guest-orders", 400, 5*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	byName := map[string]*dto.MetricFamily{}
	for _, fam := range families {
		byName[fam.GetName()] = fam
	}

	counter, ok := byName["http_requests_total"]
	if !ok {
		t.Fatal("http_requests_total not registered")
	}
	var okCount, badCount float64
	for _, metric := range counter.GetMetric() {
		labels := map[string]string{}
		for _, pair := range metric.GetLabel() {
			labels[pair.GetName()] = pair.GetValue()
		}
		switch labels["status"] {
		case "200":
			okCount = metric.GetCounter().GetValue()
		case "400":
			badCount = metric.GetCounter().GetValue()
		}
	}
	if okCount != 2 {
		t.Fatalf("expected 2 successful requests, got %v", okCount)
	}
	if badCount != 1 {
		t.Fatalf("expected 1 failed request, got %v", badCount)
	}

	histogram, ok := byName["http_request_duration_seconds"]
	if !ok {
		t.Fatal("http_request_duration_seconds not registered")
	}
	if got := histogram.GetMetric()[0].GetHistogram().GetSampleCount(); got != 3 {
		t.Fatalf("expected 3 duration samples, got %d", got)
	}
}

func TestObserveRequestNilSafe(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest("GET", "/guest-cart", 200, time.Millisecond)

	empty := NewHTTPMetrics(nil)
	empty.ObserveRequest("GET", "/guest-cart", 200, time.Millisecond)
}
