package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dividendtracker/src/api"
	"dividendtracker/src/config"
	"dividendtracker/src/dependencies"
	"dividendtracker/src/models"
	"dividendtracker/src/repositories"
	"dividendtracker/src/services"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ts *httptest.Server

type fakeSource struct {
	prices map[string]float64
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) LatestPrice(_ context.Context, symbol string) (float64, error) {
	price, ok := f.prices[symbol]
	if !ok {
		return 0, errors.New("unknown symbol")
	}
	return price, nil
}

type fakeDividends struct{}

func (fakeDividends) GetDividends(_ context.Context, symbol string) ([]models.DividendPayment, error) {
	if symbol != "KO" {
		return nil, nil
	}
	return []models.DividendPayment{
		{ExDate: time.Date(2025, 11, 28, 0, 0, 0, 0, time.UTC), PaymentDate: time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC), Amount: 0.51},
		{ExDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), PaymentDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), Amount: 0.53},
	}, nil
}

func newTestServer(dir string) (*httptest.Server, *dependencies.Dependencies, error) {
	cfg, err := config.LoadConfig("../../settings", "TESTING")
	if err != nil {
		return nil, nil, err
	}
	cfg.Databases.Backend = config.SQLite
	cfg.Databases.SQLite.Path = filepath.Join(dir, "portfolio.db")

	repo, err := repositories.NewRepository(context.Background(), cfg)
	if err != nil {
		return nil, nil, err
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	source := &fakeSource{prices: map[string]float64{"KO": 70, "O": 57.5, "MSFT": 410}}
	deps := dependencies.Build(cfg, logger, repo, []services.QuoteSource{source}, fakeDividends{})
	if _, err := deps.Portfolios.EnsureDefaultPortfolio(context.Background()); err != nil {
		return nil, nil, err
	}
	return httptest.NewServer(api.NewServer(deps)), deps, nil
}

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "api-test")
	if err != nil {
		log.Println(err, "Error while creating temp dir")
		os.Exit(1)
	}

	server, deps, err := newTestServer(dir)
	if err != nil {
		log.Println(err, "Error while starting server")
		os.Exit(1)
	}
	ts = server

	code := m.Run()

	ts.Close()
	_ = deps.Close()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func do(t *testing.T, method, path, contentType string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func doJSON(t *testing.T, method, path string, payload interface{}) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	return do(t, method, path, "application/json", body)
}

func decode(t *testing.T, res *http.Response, target interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(res.Body).Decode(target))
}

func createPortfolio(t *testing.T, name string) string {
	t.Helper()
	res := doJSON(t, http.MethodPost, "/api/portfolios", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var p models.Portfolio
	decode(t, res, &p)
	require.NotEmpty(t, p.ID)
	return p.ID
}

func addHolding(t *testing.T, portfolioID string, holding map[string]interface{}) {
	t.Helper()
	res := doJSON(t, http.MethodPost, "/api/portfolios/"+portfolioID+"/holdings", holding)
	require.Equal(t, http.StatusCreated, res.StatusCode)
}

func koHolding() map[string]interface{} {
	return map[string]interface{}{
		"symbol":          "ko",
		"shares":          10,
		"avgPrice":        60,
		"currentPrice":    62,
		"dividendYield":   3.1,
		"sector":          "Consumer Staples",
		"payoutFrequency": "Quarterly",
	}
}

func TestHealthcheck(t *testing.T) {
	res := do(t, http.MethodGet, "/alive", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "Im alive!", string(body))
}

func TestMetrics(t *testing.T) {
	do(t, http.MethodGet, "/alive", "", nil)

	res := do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "dividendtracker_http_requests_total")
}

func TestPortfolios(t *testing.T) {
	t.Run("should create, list, get and delete a portfolio", func(t *testing.T) {
		id := createPortfolio(t, "  Retirement ")

		res := doJSON(t, http.MethodGet, "/api/portfolios", nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		var portfolios []models.Portfolio
		decode(t, res, &portfolios)
		names := make([]string, 0, len(portfolios))
		for _, p := range portfolios {
			names = append(names, p.Name)
		}
		assert.Contains(t, names, "Retirement")
		assert.Contains(t, names, models.DefaultPortfolioName)

		res = doJSON(t, http.MethodGet, "/api/portfolios/"+id, nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		var detail struct {
			ID       string        `json:"id"`
			Name     string        `json:"name"`
			Holdings []interface{} `json:"holdings"`
		}
		decode(t, res, &detail)
		assert.Equal(t, id, detail.ID)
		assert.NotNil(t, detail.Holdings)
		assert.Empty(t, detail.Holdings)

		res = doJSON(t, http.MethodDelete, "/api/portfolios/"+id, nil)
		assert.Equal(t, http.StatusNoContent, res.StatusCode)

		res = doJSON(t, http.MethodGet, "/api/portfolios/"+id, nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("should require a name", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, "/api/portfolios", map[string]string{"name": " "})
		assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

		var body map[string]string
		decode(t, res, &body)
		assert.Equal(t, "name is required", body["error"])
	})

	t.Run("should reject a malformed body", func(t *testing.T) {
		res := do(t, http.MethodPost, "/api/portfolios", "application/json", strings.NewReader("{"))
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("should return 404 for an unknown portfolio", func(t *testing.T) {
		res := doJSON(t, http.MethodDelete, "/api/portfolios/does-not-exist", nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

func TestDeleteLastPortfolio(t *testing.T) {
	server, deps, err := newTestServer(t.TempDir())
	require.NoError(t, err)
	defer deps.Close()
	defer server.Close()

	portfolios, err := deps.Portfolios.ListPortfolios(context.Background())
	require.NoError(t, err)
	require.Len(t, portfolios, 1)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/portfolios/"+portfolios[0].ID, nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestHoldings(t *testing.T) {
	id := createPortfolio(t, "Holdings")
	base := "/api/portfolios/" + id + "/holdings"

	t.Run("should add a normalised holding with its valuation", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, base, koHolding())
		require.Equal(t, http.StatusCreated, res.StatusCode)

		var h map[string]interface{}
		decode(t, res, &h)
		assert.Equal(t, "KO", h["symbol"])
		assert.Equal(t, "quarterly", h["payoutFrequency"])
		assert.Equal(t, 600.0, h["costBasis"])
		assert.Equal(t, 620.0, h["marketValue"])
		assert.Equal(t, 20.0, h["gainLoss"])
		assert.InDelta(t, 19.22, h["annualDividendIncome"], 1e-9)
	})

	t.Run("should reject invalid numbers", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, base, map[string]interface{}{"symbol": "BAD", "shares": -1})
		assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	})

	t.Run("should reject amounts that would overflow the valuation", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, base, map[string]interface{}{"symbol": "BIG", "shares": 1e200, "avgPrice": 1e200})
		assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	})

	t.Run("should update by symbol", func(t *testing.T) {
		holding := koHolding()
		holding["shares"] = 20
		holding["symbol"] = "ignored"
		res := doJSON(t, http.MethodPut, base+"/ko", holding)
		require.Equal(t, http.StatusOK, res.StatusCode)

		var h map[string]interface{}
		decode(t, res, &h)
		assert.Equal(t, "KO", h["symbol"])
		assert.Equal(t, 20.0, h["shares"])
		assert.Equal(t, 1200.0, h["costBasis"])
	})

	t.Run("should return 404 when updating an unknown holding", func(t *testing.T) {
		res := doJSON(t, http.MethodPut, base+"/PEP", koHolding())
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("should list holdings", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, base, nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		var holdings []map[string]interface{}
		decode(t, res, &holdings)
		require.Len(t, holdings, 1)
		assert.Equal(t, "KO", holdings[0]["symbol"])
	})

	t.Run("should remove a holding once", func(t *testing.T) {
		res := doJSON(t, http.MethodDelete, base+"/KO", nil)
		assert.Equal(t, http.StatusNoContent, res.StatusCode)

		res = doJSON(t, http.MethodDelete, base+"/KO", nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

func TestDividends(t *testing.T) {
	id := createPortfolio(t, "Dividends")
	addHolding(t, id, koHolding())
	base := "/api/portfolios/" + id + "/holdings/KO/dividends"

	t.Run("should default the payment date to the ex-date", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, base, map[string]interface{}{"exDate": "2026-03-14", "amount": 0.53})
		require.Equal(t, http.StatusCreated, res.StatusCode)

		var payments []map[string]interface{}
		decode(t, res, &payments)
		require.Len(t, payments, 1)
		assert.Equal(t, "2026-03-14", payments[0]["exDate"])
		assert.Equal(t, "2026-03-14", payments[0]["paymentDate"])
	})

	t.Run("should reject a malformed date", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, base, map[string]interface{}{"exDate": "14/03/2026x", "amount": 1})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("should reject a payment before the ex-date", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, base, map[string]interface{}{"exDate": "2026-03-14", "paymentDate": "2026-03-01", "amount": 1})
		assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	})

	t.Run("should sync only unseen ex-dates", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, base+"/sync", nil)
		require.Equal(t, http.StatusOK, res.StatusCode)

		var sync struct {
			Symbol string `json:"symbol"`
			Added  int    `json:"added"`
		}
		decode(t, res, &sync)
		assert.Equal(t, "KO", sync.Symbol)
		assert.Equal(t, 1, sync.Added)

		res = doJSON(t, http.MethodGet, base, nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		var payments []map[string]interface{}
		decode(t, res, &payments)
		assert.Len(t, payments, 2)
	})

	t.Run("should return 404 for an unknown holding", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, "/api/portfolios/"+id+"/holdings/PEP/dividends", nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

type projectionBody struct {
	Live     bool `json:"live"`
	Holdings []struct {
		Symbol      string  `json:"symbol"`
		MarketValue float64 `json:"marketValue"`
	} `json:"holdings"`
	Series []struct {
		Month  string  `json:"month"`
		Year   string  `json:"year"`
		Income float64 `json:"income"`
	} `json:"series"`
	Summary struct {
		TotalPortfolioValue float64 `json:"totalPortfolioValue"`
		TotalAnnualIncome   float64 `json:"totalAnnualIncome"`
	} `json:"summary"`
}

func TestProjection(t *testing.T) {
	id := createPortfolio(t, "Projection")
	addHolding(t, id, koHolding())
	base := "/api/portfolios/" + id

	t.Run("should project from stored prices", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, base+"/projection?start=2026-01", nil)
		require.Equal(t, http.StatusOK, res.StatusCode)

		var p projectionBody
		decode(t, res, &p)
		assert.False(t, p.Live)
		require.Len(t, p.Series, 12)
		assert.Equal(t, "Jan", p.Series[0].Month)
		assert.Equal(t, "2026", p.Series[0].Year)
		assert.InDelta(t, 4.805, p.Series[0].Income, 1e-9)
		assert.Equal(t, 0.0, p.Series[1].Income)
		assert.Equal(t, 620.0, p.Summary.TotalPortfolioValue)
		assert.InDelta(t, 19.22, p.Summary.TotalAnnualIncome, 1e-9)
	})

	t.Run("should overlay live quotes without storing them", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, base+"/projection?live=true&start=2026-01", nil)
		require.Equal(t, http.StatusOK, res.StatusCode)

		var p projectionBody
		decode(t, res, &p)
		assert.True(t, p.Live)
		require.Len(t, p.Holdings, 1)
		assert.Equal(t, 700.0, p.Holdings[0].MarketValue)

		res = doJSON(t, http.MethodGet, base+"/holdings", nil)
		var holdings []map[string]interface{}
		decode(t, res, &holdings)
		assert.Equal(t, 62.0, holdings[0]["currentPrice"])
	})

	t.Run("should validate query parameters", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, base+"/projection?start=2026-13", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

		res = doJSON(t, http.MethodGet, base+"/projection?live=maybe", nil)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("should report sectors", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, base+"/sectors", nil)
		require.Equal(t, http.StatusOK, res.StatusCode)

		var body struct {
			Sectors []struct {
				Sector string  `json:"sector"`
				Weight float64 `json:"weight"`
			} `json:"sectors"`
		}
		decode(t, res, &body)
		require.Len(t, body.Sectors, 1)
		assert.Equal(t, "Consumer Staples", body.Sectors[0].Sector)
		assert.Equal(t, 100.0, body.Sectors[0].Weight)
	})

	t.Run("should render charts as html", func(t *testing.T) {
		for _, path := range []string{"/charts/income", "/charts/sectors"} {
			res := doJSON(t, http.MethodGet, base+path, nil)
			require.Equal(t, http.StatusOK, res.StatusCode, path)
			assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
			page, err := io.ReadAll(res.Body)
			require.NoError(t, err)
			assert.Contains(t, string(page), "echarts")
		}
	})

	t.Run("should return 404 for an unknown portfolio", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, "/api/portfolios/missing/projection", nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

func TestImportExport(t *testing.T) {
	id := createPortfolio(t, "Import")
	base := "/api/portfolios/" + id

	csvBody := strings.Join([]string{
		"Symbol,Shares,Avg Price,Dividend Yield,Sector,Payout Frequency",
		"KO,10,60,3.1,Consumer Staples,quarterly",
		"O,20,55,5.5,Real Estate,monthly",
		",5,10,1,,",
	}, "\n")

	t.Run("should import valid rows and report the rest", func(t *testing.T) {
		res := do(t, http.MethodPost, base+"/import", "text/csv", strings.NewReader(csvBody))
		require.Equal(t, http.StatusOK, res.StatusCode)

		var result services.ImportResult
		decode(t, res, &result)
		assert.Equal(t, 2, result.Imported)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, 4, result.Errors[0].Line)
	})

	t.Run("should export csv", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, base+"/export?format=csv", nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "text/csv", res.Header.Get("Content-Type"))
		assert.Contains(t, res.Header.Get("Content-Disposition"), "holdings.csv")

		body, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(body)), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], "symbol,shares,avgPrice"))
		assert.True(t, strings.HasPrefix(lines[1], "KO,"))
		assert.True(t, strings.HasPrefix(lines[2], "O,"))
	})

	t.Run("should export xlsx", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, base+"/export?format=xlsx", nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Contains(t, res.Header.Get("Content-Type"), "spreadsheetml")

		body, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(body, []byte("PK")))
	})

	t.Run("should reject an unknown format", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, base+"/export?format=pdf", nil)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("should reject an empty upload", func(t *testing.T) {
		res := do(t, http.MethodPost, base+"/import", "text/csv", strings.NewReader(""))
		assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	})
}

func TestRefresh(t *testing.T) {
	id := createPortfolio(t, "Refresh")
	holding := koHolding()
	holding["currentPrice"] = 60
	addHolding(t, id, holding)
	addHolding(t, id, map[string]interface{}{"symbol": "ZZZ", "shares": 1, "avgPrice": 5})

	res := doJSON(t, http.MethodPost, "/api/portfolios/"+id+"/refresh", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var result services.RefreshResult
	decode(t, res, &result)
	assert.Equal(t, 2, result.Checked)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, []string{"ZZZ"}, result.Unpriced)

	res = doJSON(t, http.MethodGet, "/api/portfolios/"+id+"/holdings", nil)
	var holdings []map[string]interface{}
	decode(t, res, &holdings)
	assert.Equal(t, 70.0, holdings[0]["currentPrice"])
}

func TestQuotes(t *testing.T) {
	res := doJSON(t, http.MethodGet, "/api/quotes/msft", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var quote services.Quote
	decode(t, res, &quote)
	assert.Equal(t, "MSFT", quote.Symbol)
	assert.Equal(t, 410.0, quote.Price)
	assert.False(t, quote.Stale)

	res = doJSON(t, http.MethodGet, "/api/quotes/NOPE", nil)
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)
}
