package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"dividendtracker/src/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := metrics.New()

	m.ObserveQuote("finnhub", metrics.ResultOK, 120*time.Millisecond)
	m.ObserveQuote("finnhub", metrics.ResultOK, 80*time.Millisecond)
	m.ObserveQuote("cache", metrics.ResultHit, 0)
	m.StaleQuotes.Inc()
	m.ObserveHTTP("GET", 200)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.QuoteRequests.WithLabelValues("finnhub", metrics.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QuoteRequests.WithLabelValues("cache", metrics.ResultHit)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.QuoteLatency))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StaleQuotes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "200")))

	t.Run("should expose the registry over http", func(t *testing.T) {
		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

		body, err := io.ReadAll(rec.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `dividendtracker_quote_requests_total{provider="finnhub",result="ok"} 2`)
		assert.Contains(t, string(body), "dividendtracker_stale_quotes_total 1")
		assert.Contains(t, string(body), "go_goroutines")
	})

	t.Run("separate instances do not share state", func(t *testing.T) {
		other := metrics.New()
		assert.Equal(t, 0.0, testutil.ToFloat64(other.StaleQuotes))
	})
}
