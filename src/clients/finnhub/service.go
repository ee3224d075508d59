package finnhub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"dividendtracker/src/config"
	"dividendtracker/src/utils/requests"
)

const Name = "finnhub"

var ErrNoQuote = errors.New("finnhub has no quote for symbol")

type FinnhubServiceClientI interface {
	GetQuote(ctx context.Context, symbol string) (*QuoteResponse, error)
	LatestPrice(ctx context.Context, symbol string) (float64, error)
	Name() string
}

type FinnhubServiceClient struct {
	API     *requests.ExternalAPIService
	BaseURL string
	apiKey  string
}

// NewClient creates a new instance of FinnhubServiceClient
func NewClient(cfg *config.Config) (*FinnhubServiceClient, error) {
	provider := cfg.ExternalClients.Finnhub
	if provider.BaseURL == "" {
		return nil, errors.New("finnhub base url is not configured")
	}
	if provider.APIKey == "" {
		return nil, errors.New("finnhub api key is not configured")
	}
	return &FinnhubServiceClient{
		API:     requests.NewExternalAPIService(provider.Timeout),
		BaseURL: provider.BaseURL,
		apiKey:  provider.APIKey,
	}, nil
}

func (c *FinnhubServiceClient) Name() string {
	return Name
}

// GetQuote fetches the real-time quote for a symbol
func (c *FinnhubServiceClient) GetQuote(ctx context.Context, symbol string) (*QuoteResponse, error) {
	endpoint := fmt.Sprintf("%s/quote", c.BaseURL)

	params := url.Values{}
	params.Add("symbol", symbol)
	params.Add("token", c.apiKey)

	responseBody, err := c.API.Get(ctx, endpoint, params, nil)
	if err != nil {
		return nil, err
	}

	var errorResponse ErrorResponse
	if err := json.Unmarshal(responseBody, &errorResponse); err == nil && errorResponse.Error != "" {
		return nil, fmt.Errorf("finnhub: %s", errorResponse.Error)
	}

	var quoteResponse QuoteResponse
	err = json.Unmarshal(responseBody, &quoteResponse)
	if err != nil {
		return nil, fmt.Errorf("failed to decode finnhub quote: %w", err)
	}

	return &quoteResponse, nil
}

// LatestPrice returns the current price, rejecting the all-zero payload
// Finnhub sends for symbols it does not know.
func (c *FinnhubServiceClient) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	quote, err := c.GetQuote(ctx, symbol)
	if err != nil {
		return 0, err
	}
	if quote.Current <= 0 {
		return 0, fmt.Errorf("%w %s", ErrNoQuote, symbol)
	}
	return quote.Current, nil
}
