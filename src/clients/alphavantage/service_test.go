package alphavantage_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dividendtracker/src/clients/alphavantage"
	"dividendtracker/src/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dividendsBody = `{
	"symbol": "KO",
	"data": [
		{"ex_dividend_date": "2026-06-13", "declaration_date": "2026-04-20", "record_date": "2026-06-13", "payment_date": "2026-07-01", "amount": "0.51"},
		{"ex_dividend_date": "2026-03-14", "declaration_date": "2026-02-15", "record_date": "2026-03-14", "payment_date": "2026-04-01", "amount": "0.51"},
		{"ex_dividend_date": "1995-03-01", "declaration_date": "None", "record_date": "None", "payment_date": "None", "amount": "0.11"},
		{"ex_dividend_date": "None", "declaration_date": "None", "record_date": "None", "payment_date": "None", "amount": "0.10"}
	]
}`

func newTestClient(t *testing.T, limit int) *alphavantage.AlphaVantageServiceClient {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "test-key", q.Get("apikey"))
		switch {
		case q.Get("function") == "DIVIDENDS":
			w.Write([]byte(dividendsBody))
		case q.Get("symbol") == "KO":
			w.Write([]byte(`{"Global Quote": {"01. symbol": "KO", "05. price": "61.4200", "07. latest trading day": "2026-10-16"}}`))
		case q.Get("symbol") == "THROTTLED":
			w.Write([]byte(`{"Information": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
		case q.Get("symbol") == "BAD":
			w.Write([]byte(`{"Error Message": "Invalid API call."}`))
		default:
			w.Write([]byte(`{"Global Quote": {}}`))
		}
	}))
	t.Cleanup(ts.Close)

	cfg := &config.Config{}
	cfg.ExternalClients.AlphaVantage = config.ProviderConfig{BaseURL: ts.URL, APIKey: "test-key", DailyLimit: limit}
	client, err := alphavantage.NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestLatestPrice(t *testing.T) {
	client := newTestClient(t, 0)
	ctx := context.Background()

	t.Run("should parse the global quote price", func(t *testing.T) {
		price, err := client.LatestPrice(ctx, "KO")
		require.NoError(t, err)
		assert.Equal(t, 61.42, price)
	})

	t.Run("should reject an empty quote", func(t *testing.T) {
		_, err := client.LatestPrice(ctx, "NOPE")
		assert.ErrorIs(t, err, alphavantage.ErrNoQuote)
	})

	t.Run("should map throttling notices to the rate limit error", func(t *testing.T) {
		_, err := client.LatestPrice(ctx, "THROTTLED")
		assert.ErrorIs(t, err, alphavantage.ErrRateLimitExceeded)
	})

	t.Run("should surface error messages", func(t *testing.T) {
		_, err := client.LatestPrice(ctx, "BAD")
		assert.EqualError(t, err, "alpha vantage: Invalid API call.")
	})
}

func TestGetDividends(t *testing.T) {
	client := newTestClient(t, 0)

	payments, err := client.GetDividends(context.Background(), "KO")
	require.NoError(t, err)
	require.Len(t, payments, 3)

	assert.Equal(t, time.Date(1995, 3, 1, 0, 0, 0, 0, time.UTC), payments[0].ExDate)
	assert.Equal(t, payments[0].ExDate, payments[0].PaymentDate)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), payments[1].ExDate)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), payments[2].PaymentDate)
	assert.Equal(t, 0.51, payments[2].Amount)
}

func TestRateLimiting(t *testing.T) {
	clock := time.Date(2026, 10, 16, 23, 0, 0, 0, time.UTC)
	client := newTestClient(t, 3).WithClock(func() time.Time { return clock })
	ctx := context.Background()

	assert.Equal(t, 3, client.GetRemainingRequests())
	for i := 0; i < 3; i++ {
		_, err := client.LatestPrice(ctx, "KO")
		require.NoError(t, err)
	}
	assert.Equal(t, 0, client.GetRemainingRequests())

	_, err := client.LatestPrice(ctx, "KO")
	assert.ErrorIs(t, err, alphavantage.ErrRateLimitExceeded)

	t.Run("budget resets on a new day", func(t *testing.T) {
		clock = clock.Add(2 * time.Hour)
		assert.Equal(t, 3, client.GetRemainingRequests())
	})

	t.Run("a new day's budget is consumed again", func(t *testing.T) {
		_, err := client.LatestPrice(ctx, "KO")
		require.NoError(t, err)
		assert.Equal(t, 2, client.GetRemainingRequests())
	})
}

func TestNewClientDefaults(t *testing.T) {
	cfg := &config.Config{}
	cfg.ExternalClients.AlphaVantage = config.ProviderConfig{BaseURL: "http://localhost", APIKey: "k"}
	client, err := alphavantage.NewClient(cfg)
	require.NoError(t, err)
	assert.Equal(t, 25, client.GetRemainingRequests())
	assert.Equal(t, "alphavantage", client.Name())

	cfg.ExternalClients.AlphaVantage.APIKey = ""
	_, err = alphavantage.NewClient(cfg)
	assert.Error(t, err)
}
