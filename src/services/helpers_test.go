package services_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"dividendtracker/src/config"
	"dividendtracker/src/models"
	"dividendtracker/src/repositories"

	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	name   string
	mu     sync.Mutex
	prices map[string]float64
	fail   bool
	calls  int
}

func newFakeSource(name string, prices map[string]float64) *fakeSource {
	return &fakeSource{name: name, prices: prices}
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) LatestPrice(_ context.Context, symbol string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return 0, errors.New("provider down")
	}
	price, ok := f.prices[symbol]
	if !ok {
		return 0, errors.New("unknown symbol")
	}
	return price, nil
}

func (f *fakeSource) setFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fail
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeDividends struct {
	payments map[string][]models.DividendPayment
	err      error
}

func (f *fakeDividends) GetDividends(_ context.Context, symbol string) ([]models.DividendPayment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.payments[symbol], nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestRepository(t *testing.T) repositories.PortfolioRepository {
	t.Helper()
	cfg := &config.Config{}
	cfg.Databases.Backend = config.SQLite
	cfg.Databases.SQLite.Path = filepath.Join(t.TempDir(), "portfolio.db")

	repo, err := repositories.NewRepository(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
