package dependencies

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dividendtracker/src/clients/alphavantage"
	"dividendtracker/src/clients/finnhub"
	"dividendtracker/src/config"
	"dividendtracker/src/metrics"
	"dividendtracker/src/repositories"
	"dividendtracker/src/services"
	aws_handler "dividendtracker/src/utils/aws"

	"github.com/sirupsen/logrus"
)

// Dependencies holds everything the API and worker servers share.
type Dependencies struct {
	Config     *config.Config
	Logger     *logrus.Logger
	Metrics    *metrics.Metrics
	Repository repositories.PortfolioRepository
	Quotes     services.QuoteServiceI
	Portfolios services.PortfolioServiceI
	Refresh    services.RefreshServiceI
	CSV        services.CSVServiceI
	Reports    services.ReportServiceI
}

// New resolves provider keys, opens the configured repository and builds the
// services on top of it.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Dependencies, error) {
	if needsSecrets(cfg) {
		awsHandler, err := aws_handler.NewAWSHandler(cfg.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create aws session: %w", err)
		}
		if err := ResolveProviderKeys(ctx, cfg, awsHandler.SecretManager); err != nil {
			return nil, err
		}
	}

	sources, dividends, err := QuoteSources(cfg, logger)
	if err != nil {
		return nil, err
	}

	repo, err := repositories.NewRepository(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s repository: %w", cfg.Databases.Backend, err)
	}

	return Build(cfg, logger, repo, sources, dividends), nil
}

// Build wires the services over an already opened repository.
func Build(cfg *config.Config, logger *logrus.Logger, repo repositories.PortfolioRepository, sources []services.QuoteSource, dividends services.DividendSource) *Dependencies {
	m := metrics.New()
	quotes := services.NewQuoteService(sources, cfg.Quotes.MinRefreshInterval, m)
	portfolios := services.NewPortfolioService(repo, quotes, dividends, m)
	return &Dependencies{
		Config:     cfg,
		Logger:     logger,
		Metrics:    m,
		Repository: repo,
		Quotes:     quotes,
		Portfolios: portfolios,
		Refresh:    services.NewRefreshService(repo, quotes, m),
		CSV:        services.NewCSVService(portfolios),
		Reports:    services.NewReportService(),
	}
}

func (d *Dependencies) Close() error {
	return d.Repository.Close()
}

func needsSecrets(cfg *config.Config) bool {
	providers := []config.ProviderConfig{cfg.ExternalClients.Finnhub, cfg.ExternalClients.AlphaVantage}
	for _, p := range providers {
		if p.APIKey == "" && p.APIKeySecretID != "" {
			return true
		}
	}
	return false
}

// ResolveProviderKeys fills every provider key that is configured as a
// secret id.
func ResolveProviderKeys(ctx context.Context, cfg *config.Config, getter aws_handler.SecretGetter) error {
	providers := []*config.ProviderConfig{&cfg.ExternalClients.Finnhub, &cfg.ExternalClients.AlphaVantage}
	var errs []error
	for _, p := range providers {
		key, err := aws_handler.ResolveKey(ctx, getter, p.APIKey, p.APIKeySecretID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		p.APIKey = key
	}
	return errors.Join(errs...)
}

// QuoteSources builds the price providers in the order listed in
// quotes.sources. Providers without a key are skipped. Alpha Vantage doubles
// as the dividend source whenever it is configured.
func QuoteSources(cfg *config.Config, logger *logrus.Logger) ([]services.QuoteSource, services.DividendSource, error) {
	var sources []services.QuoteSource
	var dividends services.DividendSource

	var av *alphavantage.AlphaVantageServiceClient
	if cfg.ExternalClients.AlphaVantage.Enabled() {
		client, err := alphavantage.NewClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		av = client
		dividends = client
	}

	for _, name := range cfg.Quotes.Sources {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case finnhub.Name:
			if !cfg.ExternalClients.Finnhub.Enabled() {
				logger.WithField("source", finnhub.Name).Warn("quote source has no api key, skipping")
				continue
			}
			client, err := finnhub.NewClient(cfg)
			if err != nil {
				return nil, nil, err
			}
			sources = append(sources, client)
		case alphavantage.Name:
			if av == nil {
				logger.WithField("source", alphavantage.Name).Warn("quote source has no api key, skipping")
				continue
			}
			sources = append(sources, av)
		default:
			return nil, nil, fmt.Errorf("unknown quote source %q", name)
		}
	}

	if len(sources) == 0 {
		logger.Warn("no quote source configured, live prices are disabled")
	}
	return sources, dividends, nil
}
