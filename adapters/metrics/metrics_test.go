package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewWith(t *testing.T) {
	reg := prometheus.NewRegistry()
	coll := NewWith(reg)

	coll.RequestsTotal.WithLabelValues("GET", "/user/", "200").Inc()
	coll.RequestDuration.WithLabelValues("GET", "/user/", "200").Observe(0.01)
	coll.RequestsInFlight.Inc()

	if got := testutil.ToFloat64(coll.RequestsTotal.WithLabelValues("GET", "/user/", "200")); got != 1 {
		t.Errorf("requests_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(coll.RequestsInFlight); got != 1 {
		t.Errorf("requests_in_flight = %v, want 1", got)
	}

	// Registered under the wapp namespace.
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"wapp_requests_total", "wapp_request_duration_seconds", "wapp_requests_in_flight"} {
		if !names[want] {
			t.Errorf("metric %q not registered", want)
		}
	}
}

func TestSeparateRegistries(t *testing.T) {
	a := NewWith(prometheus.NewRegistry())
	b := NewWith(prometheus.NewRegistry())

	a.RequestsInFlight.Inc()
	if got := testutil.ToFloat64(b.RequestsInFlight); got != 0 {
		t.Errorf("collectors share state across registries: %v", got)
	}
}
