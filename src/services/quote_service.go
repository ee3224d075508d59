package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dividendtracker/src/metrics"
	"dividendtracker/src/models"
	"dividendtracker/src/utils"
)

// QuoteSource is a market data provider able to return a latest price.
type QuoteSource interface {
	Name() string
	LatestPrice(ctx context.Context, symbol string) (float64, error)
}

type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetchedAt"`
	Stale     bool      `json:"stale"`
}

type QuoteServiceI interface {
	GetQuote(ctx context.Context, symbol string) (Quote, error)
	GetQuotes(ctx context.Context, symbols []string) map[string]Quote
}

type QuoteService struct {
	sources            []QuoteSource
	cache              *utils.Cache[string, Quote]
	minRefreshInterval time.Duration
	metrics            *metrics.Metrics
	now                func() time.Time
}

// NewQuoteService tries sources in the given order. A price fetched less than
// minRefreshInterval ago is served from memory.
func NewQuoteService(sources []QuoteSource, minRefreshInterval time.Duration, m *metrics.Metrics) *QuoteService {
	return NewQuoteServiceWithClock(sources, minRefreshInterval, m, time.Now)
}

func NewQuoteServiceWithClock(sources []QuoteSource, minRefreshInterval time.Duration, m *metrics.Metrics, now func() time.Time) *QuoteService {
	if m == nil {
		m = metrics.New()
	}
	return &QuoteService{
		sources:            sources,
		cache:              utils.NewCache[string, Quote](now),
		minRefreshInterval: minRefreshInterval,
		metrics:            m,
		now:                now,
	}
}

// GetQuote returns a fresh price when a source has one. When every source
// fails it falls back to the last known price marked stale, and only errors
// when no price was ever seen for the symbol.
func (s *QuoteService) GetQuote(ctx context.Context, symbol string) (Quote, error) {
	symbol = models.NormalizeSymbol(symbol)
	if symbol == "" {
		return Quote{}, invalid(errors.New("symbol is required"))
	}

	if q, ok := s.cache.Get(symbol); ok {
		s.metrics.ObserveQuote("cache", metrics.ResultHit, 0)
		return q, nil
	}

	logger := utils.LoggerFromContext(ctx).WithField("symbol", symbol)
	var errs []error
	for _, source := range s.sources {
		started := time.Now()
		price, err := source.LatestPrice(ctx, symbol)
		if err != nil {
			s.metrics.ObserveQuote(source.Name(), metrics.ResultError, time.Since(started))
			logger.WithError(err).WithField("provider", source.Name()).Warn("quote provider failed")
			errs = append(errs, fmt.Errorf("%s: %w", source.Name(), err))
			continue
		}
		s.metrics.ObserveQuote(source.Name(), metrics.ResultOK, time.Since(started))

		q := Quote{Symbol: symbol, Price: price, Source: source.Name(), FetchedAt: s.now().UTC()}
		s.cache.Set(symbol, q, s.minRefreshInterval)
		return q, nil
	}

	if last, _, ok := s.cache.Last(symbol); ok {
		s.metrics.StaleQuotes.Inc()
		logger.WithField("fetchedAt", last.FetchedAt).Info("serving last known quote")
		last.Stale = true
		return last, nil
	}

	if len(s.sources) == 0 {
		return Quote{}, fmt.Errorf("%w for %s: no quote providers configured", ErrQuoteUnavailable, symbol)
	}
	return Quote{}, fmt.Errorf("%w for %s: %w", ErrQuoteUnavailable, symbol, errors.Join(errs...))
}

// GetQuotes never fails. Symbols without any known price are left out so the
// caller keeps using its stored price for them.
func (s *QuoteService) GetQuotes(ctx context.Context, symbols []string) map[string]Quote {
	quotes := make(map[string]Quote, len(symbols))
	for _, symbol := range symbols {
		symbol = models.NormalizeSymbol(symbol)
		if _, done := quotes[symbol]; done || symbol == "" {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		q, err := s.GetQuote(ctx, symbol)
		if err != nil {
			continue
		}
		quotes[symbol] = q
	}
	return quotes
}

// Prices flattens quotes into the symbol to price map the projector takes.
func Prices(quotes map[string]Quote) map[string]float64 {
	prices := make(map[string]float64, len(quotes))
	for symbol, q := range quotes {
		prices[symbol] = q.Price
	}
	return prices
}
