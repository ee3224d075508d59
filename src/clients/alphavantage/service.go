package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"dividendtracker/src/config"
	"dividendtracker/src/models"
	"dividendtracker/src/utils"
	"dividendtracker/src/utils/requests"
)

const (
	Name              = "alphavantage"
	defaultDailyLimit = 25
)

var (
	ErrRateLimitExceeded = errors.New("alpha vantage daily request limit exceeded")
	ErrNoQuote           = errors.New("alpha vantage has no quote for symbol")
)

type AlphaVantageServiceClientI interface {
	GetGlobalQuote(ctx context.Context, symbol string) (*GlobalQuote, error)
	GetDividends(ctx context.Context, symbol string) ([]models.DividendPayment, error)
	LatestPrice(ctx context.Context, symbol string) (float64, error)
	GetRemainingRequests() int
	Name() string
}

type AlphaVantageServiceClient struct {
	API     *requests.ExternalAPIService
	BaseURL string
	apiKey  string

	dailyLimit int
	mu         sync.Mutex
	used       int
	day        string
	now        func() time.Time
}

// NewClient creates a new instance of AlphaVantageServiceClient
func NewClient(cfg *config.Config) (*AlphaVantageServiceClient, error) {
	provider := cfg.ExternalClients.AlphaVantage
	if provider.BaseURL == "" {
		return nil, errors.New("alpha vantage base url is not configured")
	}
	if provider.APIKey == "" {
		return nil, errors.New("alpha vantage api key is not configured")
	}
	limit := provider.DailyLimit
	if limit <= 0 {
		limit = defaultDailyLimit
	}
	return &AlphaVantageServiceClient{
		API:        requests.NewExternalAPIService(provider.Timeout),
		BaseURL:    provider.BaseURL,
		apiKey:     provider.APIKey,
		dailyLimit: limit,
		now:        time.Now,
	}, nil
}

// WithClock replaces the clock used to roll the daily budget over.
func (c *AlphaVantageServiceClient) WithClock(now func() time.Time) *AlphaVantageServiceClient {
	c.now = now
	return c
}

func (c *AlphaVantageServiceClient) Name() string {
	return Name
}

// GetRemainingRequests returns how many calls are left in today's budget.
func (c *AlphaVantageServiceClient) GetRemainingRequests() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rollover()
	return c.dailyLimit - c.used
}

// GetGlobalQuote fetches the latest quote for a symbol
func (c *AlphaVantageServiceClient) GetGlobalQuote(ctx context.Context, symbol string) (*GlobalQuote, error) {
	var quoteResponse GlobalQuoteResponse
	if err := c.query(ctx, "GLOBAL_QUOTE", symbol, &quoteResponse); err != nil {
		return nil, err
	}
	return &quoteResponse.GlobalQuote, nil
}

func (c *AlphaVantageServiceClient) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	quote, err := c.GetGlobalQuote(ctx, symbol)
	if err != nil {
		return 0, err
	}
	if quote.Price == "" {
		return 0, fmt.Errorf("%w %s", ErrNoQuote, symbol)
	}
	price, err := strconv.ParseFloat(quote.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid alpha vantage price %q for %s: %w", quote.Price, symbol, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("%w %s", ErrNoQuote, symbol)
	}
	return price, nil
}

// GetDividends returns the symbol's dividend payments ordered by ex-date.
// Entries with an unparseable date or amount are skipped.
func (c *AlphaVantageServiceClient) GetDividends(ctx context.Context, symbol string) ([]models.DividendPayment, error) {
	var dividendsResponse DividendsResponse
	if err := c.query(ctx, "DIVIDENDS", symbol, &dividendsResponse); err != nil {
		return nil, err
	}

	payments := make([]models.DividendPayment, 0, len(dividendsResponse.Data))
	for _, d := range dividendsResponse.Data {
		exDate, err := time.Parse(utils.ShortDashDateLayout, d.ExDividendDate)
		if err != nil {
			continue
		}
		amount, err := strconv.ParseFloat(d.Amount, 64)
		if err != nil {
			continue
		}
		paymentDate, err := time.Parse(utils.ShortDashDateLayout, d.PaymentDate)
		if err != nil {
			// "None" is common for older records.
			paymentDate = exDate
		}
		payments = append(payments, models.DividendPayment{ExDate: exDate, PaymentDate: paymentDate, Amount: amount})
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].ExDate.Before(payments[j].ExDate) })
	return payments, nil
}

func (c *AlphaVantageServiceClient) query(ctx context.Context, function, symbol string, result interface{}) error {
	if err := c.checkRateLimit(); err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/query", c.BaseURL)
	params := url.Values{}
	params.Add("function", function)
	params.Add("symbol", symbol)
	params.Add("apikey", c.apiKey)

	responseBody, err := c.API.Get(ctx, endpoint, params, nil)
	if err != nil {
		return err
	}

	var n notice
	if err := json.Unmarshal(responseBody, &n); err == nil {
		switch {
		case n.ErrorMessage != "":
			return fmt.Errorf("alpha vantage: %s", n.ErrorMessage)
		case n.Note != "" || strings.Contains(strings.ToLower(n.Information), "rate limit"):
			return ErrRateLimitExceeded
		case n.Information != "":
			return fmt.Errorf("alpha vantage: %s", n.Information)
		}
	}

	if err := json.Unmarshal(responseBody, result); err != nil {
		return fmt.Errorf("failed to decode alpha vantage %s: %w", function, err)
	}
	return nil
}

func (c *AlphaVantageServiceClient) checkRateLimit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rollover()
	if c.used >= c.dailyLimit {
		return ErrRateLimitExceeded
	}
	c.used++
	return nil
}

// rollover resets the counter on the first call of a new UTC day.
func (c *AlphaVantageServiceClient) rollover() {
	today := c.now().UTC().Format(utils.ShortDashDateLayout)
	if c.day != today {
		c.day = today
		c.used = 0
	}
}
