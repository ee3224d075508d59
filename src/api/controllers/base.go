package controllers

import (
	"context"
	"io"
	"time"

	"dividendtracker/src/dependencies"
	"dividendtracker/src/models"
	"dividendtracker/src/schemas"
	"dividendtracker/src/services"
)

type IController interface {
	GetQuote(ctx context.Context, symbol string) (*services.Quote, error)

	ListPortfolios(ctx context.Context) ([]models.Portfolio, error)
	GetPortfolio(ctx context.Context, id string) (*schemas.PortfolioDetail, error)
	CreatePortfolio(ctx context.Context, req *schemas.CreatePortfolioRequest) (*models.Portfolio, error)
	DeletePortfolio(ctx context.Context, id string) error

	ListHoldings(ctx context.Context, portfolioID string) ([]schemas.HoldingResponse, error)
	AddHolding(ctx context.Context, portfolioID string, req *schemas.HoldingRequest) (*schemas.HoldingResponse, error)
	UpdateHolding(ctx context.Context, portfolioID, symbol string, req *schemas.HoldingRequest) (*schemas.HoldingResponse, error)
	RemoveHolding(ctx context.Context, portfolioID, symbol string) error

	ListDividends(ctx context.Context, portfolioID, symbol string) ([]schemas.DividendResponse, error)
	AppendDividend(ctx context.Context, portfolioID, symbol string, req *schemas.DividendRequest) ([]schemas.DividendResponse, error)
	SyncDividends(ctx context.Context, portfolioID, symbol string) (*schemas.SyncDividendsResponse, error)

	GetProjection(ctx context.Context, portfolioID string, live bool, start time.Time) (*services.PortfolioProjection, error)
	GetSectors(ctx context.Context, portfolioID string) (*schemas.SectorsResponse, error)
	RenderIncomeChart(ctx context.Context, portfolioID string, live bool, start time.Time) ([]byte, error)
	RenderSectorChart(ctx context.Context, portfolioID string) ([]byte, error)

	ExportCSV(ctx context.Context, portfolioID string) ([]byte, error)
	ExportXLSX(ctx context.Context, portfolioID string, start time.Time) ([]byte, error)
	ImportCSV(ctx context.Context, portfolioID string, r io.Reader) (*services.ImportResult, error)
	RefreshPortfolio(ctx context.Context, portfolioID string) (*services.RefreshResult, error)
}

type Controller struct {
	Portfolios services.PortfolioServiceI
	Quotes     services.QuoteServiceI
	Refresh    services.RefreshServiceI
	CSV        services.CSVServiceI
	Reports    services.ReportServiceI
}

func NewController(deps *dependencies.Dependencies) *Controller {
	return &Controller{
		Portfolios: deps.Portfolios,
		Quotes:     deps.Quotes,
		Refresh:    deps.Refresh,
		CSV:        deps.CSV,
		Reports:    deps.Reports,
	}
}
