package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Exposed(t *testing.T) {
	m := New()
	m.TicksTotal.WithLabelValues("observed").Inc()
	m.AlertsTotal.Inc()
	m.Probability.Set(32.5)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TicksTotal.WithLabelValues("observed")))
	assert.Equal(t, 32.5, testutil.ToFloat64(m.Probability))

	srv := httptest.NewServer(NewServer(":0", m).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `easewatch_ticks_total{outcome="observed"} 1`)
	assert.Contains(t, string(body), "easewatch_alerts_total 1")
	assert.Contains(t, string(body), "easewatch_probability_percent 32.5")
}

func TestServer_StopsOnCancel(t *testing.T) {
	s := NewServer("127.0.0.1:0", New())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
