package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCartMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCartMetrics(reg)
	m.ObserveView(OutcomeOK, 250*time.Millisecond)
	m.ObserveView("SHOPPING_BAD_PRICES", 10*time.Millisecond)
	m.IncShippingApplied()
	m.IncUpstreamFailure("products")
	m.IncUpstreamFailure("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "shoppingcart_views_total", "outcome", OutcomeOK); err != nil {
		t.Fatalf("fetch views: %v", err)
	} else if got != 1 {
		t.Fatalf("expected ok views=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "shoppingcart_views_total", "outcome", "SHOPPING_BAD_PRICES"); err != nil {
		t.Fatalf("fetch views: %v", err)
	} else if got != 1 {
		t.Fatalf("expected error views=1, got %f", got)
	}
	if got, err := fetchHistogramSum(mfs, "shoppingcart_view_duration_seconds", "outcome", OutcomeOK); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "shoppingcart_upstream_failures_total", "dependency", "unknown"); err != nil {
		t.Fatalf("fetch upstream failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected unknown dependency failures=1, got %f", got)
	}

	mf := findMetricFamily(mfs, "shoppingcart_shipping_adjustments_total")
	if mf == nil || mf.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected shipping adjustments=1")
	}
}

func TestCartMetricsNilSafe(t *testing.T) {
	var m *CartMetrics
	m.ObserveView(OutcomeOK, time.Second)
	m.IncShippingApplied()
	m.IncUpstreamFailure("users")

	unregistered := NewCartMetrics(nil)
	unregistered.ObserveView(OutcomeOK, time.Second)
	unregistered.IncShippingApplied()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
