package services

import (
	"context"
	"fmt"
	"io"

	"dividendtracker/src/projection"
	"dividendtracker/src/utils/render"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

const (
	HoldingsSheet   = "Holdings"
	ProjectionSheet = "Projection"
	ScheduleSheet   = "Schedule"
	SummarySheet    = "Summary"
)

type ReportDataframes struct {
	HoldingsDF   *dataframe.DataFrame
	ProjectionDF *dataframe.DataFrame
	ScheduleDF   *dataframe.DataFrame
	SummaryDF    *dataframe.DataFrame
}

type ReportServiceI interface {
	GenerateReportDataframes(ctx context.Context, p *PortfolioProjection) (*ReportDataframes, error)
	GenerateXLSXReport(ctx context.Context, dfs *ReportDataframes) (*excelize.File, error)
	RenderIncomeChart(w io.Writer, p *PortfolioProjection) error
	RenderSectorChart(w io.Writer, title string, sectors []projection.SectorWeight) error
}

type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

// GenerateReportDataframes lays a projection out as the four report tables.
func (rs *ReportService) GenerateReportDataframes(_ context.Context, p *PortfolioProjection) (*ReportDataframes, error) {
	if p == nil {
		return nil, fmt.Errorf("no projection to report on")
	}
	if len(p.Snapshot) != len(p.Holdings) {
		return nil, fmt.Errorf("projection has %d valuations for %d holdings", len(p.Holdings), len(p.Snapshot))
	}

	holdingsDf := rs.holdingsDataFrame(p)
	projectionDf := rs.projectionDataFrame(p)
	scheduleDf := rs.scheduleDataFrame(p)
	summaryDf := rs.summaryDataFrame(p)

	for _, df := range []*dataframe.DataFrame{holdingsDf, projectionDf, scheduleDf, summaryDf} {
		if df.Err != nil {
			return nil, df.Err
		}
	}
	return &ReportDataframes{
		HoldingsDF:   holdingsDf,
		ProjectionDF: projectionDf,
		ScheduleDF:   scheduleDf,
		SummaryDF:    summaryDf,
	}, nil
}

func (rs *ReportService) holdingsDataFrame(p *PortfolioProjection) *dataframe.DataFrame {
	n := len(p.Snapshot)
	symbols, sectors, frequencies := make([]string, n), make([]string, n), make([]string, n)
	columns := map[string][]float64{}
	floatNames := []string{"Shares", "AvgPrice", "CurrentPrice", "CostBasis", "MarketValue", "GainLoss", "GainLossPercent", "DividendYield", "AnnualIncome"}
	for _, name := range floatNames {
		columns[name] = make([]float64, n)
	}

	for i, h := range p.Snapshot {
		v := p.Holdings[i]
		symbols[i] = h.Symbol
		sectors[i] = h.Sector
		frequencies[i] = string(h.PayoutFrequency)
		columns["Shares"][i] = h.Shares
		columns["AvgPrice"][i] = h.AvgPrice
		columns["CurrentPrice"][i] = h.CurrentPrice
		columns["CostBasis"][i] = v.CostBasis
		columns["MarketValue"][i] = v.MarketValue
		columns["GainLoss"][i] = v.GainLoss
		columns["GainLossPercent"][i] = v.GainLossPercent
		columns["DividendYield"][i] = h.DividendYield
		columns["AnnualIncome"][i] = v.AnnualDividendIncome
	}

	cols := []series.Series{
		series.New(symbols, series.String, "Symbol"),
		series.New(sectors, series.String, "Sector"),
		series.New(frequencies, series.String, "PayoutFrequency"),
	}
	for _, name := range floatNames {
		cols = append(cols, series.New(columns[name], series.Float, name))
	}
	df := dataframe.New(cols...)
	return &df
}

func (rs *ReportService) projectionDataFrame(p *PortfolioProjection) *dataframe.DataFrame {
	months := make([]string, len(p.Series))
	income := make([]float64, len(p.Series))
	cumulative := make([]float64, len(p.Series))
	running := 0.0
	for i, m := range p.Series {
		months[i] = m.Month + " " + m.Year
		income[i] = m.Income
		running += m.Income
		cumulative[i] = running
	}
	df := dataframe.New(
		series.New(months, series.String, "Month"),
		series.New(income, series.Float, "Income"),
		series.New(cumulative, series.Float, "Cumulative"),
	)
	return &df
}

// scheduleDataFrame has one row per holding and one column per month.
func (rs *ReportService) scheduleDataFrame(p *PortfolioProjection) *dataframe.DataFrame {
	symbols := make([]string, len(p.Snapshot))
	perMonth := make([][]float64, len(p.Series))
	for m := range perMonth {
		perMonth[m] = make([]float64, len(p.Snapshot))
	}
	totals := make([]float64, len(p.Snapshot))

	for i, h := range p.Snapshot {
		symbols[i] = h.Symbol
		schedule := projection.HoldingSchedule(h)
		for m := range p.Series {
			perMonth[m][i] = schedule[m]
			totals[i] += schedule[m]
		}
	}

	cols := []series.Series{series.New(symbols, series.String, "Symbol")}
	for m, month := range p.Series {
		cols = append(cols, series.New(perMonth[m], series.Float, month.Month+" "+month.Year))
	}
	cols = append(cols, series.New(totals, series.Float, "Total"))
	df := dataframe.New(cols...)
	return &df
}

func (rs *ReportService) summaryDataFrame(p *PortfolioProjection) *dataframe.DataFrame {
	s := p.Summary
	metrics := []string{
		"Total Portfolio Value", "Total Cost Basis", "Total Gain/Loss", "Gain/Loss %",
		"Total Annual Income", "Monthly Average", "Quarterly Average", "Weekly Average",
		"Daily Average", "Average Yield %", "Yield on Cost %",
	}
	values := []float64{
		s.TotalPortfolioValue, s.TotalCostBasis, s.TotalGainLoss, s.GainLossPercent,
		s.TotalAnnualIncome, s.MonthlyAverage, s.QuarterlyAverage, s.WeeklyAverage,
		s.DailyAverage, s.AverageYield, s.YieldOnCost,
	}
	df := dataframe.New(
		series.New(metrics, series.String, "Metric"),
		series.New(values, series.Float, "Value"),
	)
	return &df
}

func (rs *ReportService) GenerateXLSXReport(_ context.Context, dfs *ReportDataframes) (*excelize.File, error) {
	if dfs == nil {
		return nil, fmt.Errorf("no report dataframes")
	}
	file := excelize.NewFile()
	if err := file.SetSheetName("Sheet1", HoldingsSheet); err != nil {
		return nil, err
	}

	sheets := []struct {
		name string
		df   *dataframe.DataFrame
	}{
		{HoldingsSheet, dfs.HoldingsDF},
		{ProjectionSheet, dfs.ProjectionDF},
		{ScheduleSheet, dfs.ScheduleDF},
		{SummarySheet, dfs.SummaryDF},
	}
	for _, sheet := range sheets {
		if err := rs.convertDataframeToSheet(file, sheet.df, sheet.name); err != nil {
			return nil, fmt.Errorf("failed to write sheet %s: %w", sheet.name, err)
		}
	}
	if err := rs.applyStylesToAllSheets(file); err != nil {
		return nil, err
	}

	if err := addChartSheet(file, ProjectionSheet, IncomeChartSheet, "Month", "Income", excelize.Col); err != nil {
		return nil, err
	}
	if err := addChartSheet(file, HoldingsSheet, AllocationChartSheet, "Symbol", "MarketValue", excelize.Pie); err != nil {
		return nil, err
	}
	file.SetActiveSheet(0)
	return file, nil
}

func (rs *ReportService) convertDataframeToSheet(f *excelize.File, df *dataframe.DataFrame, sheetName string) error {
	if idx, err := f.GetSheetIndex(sheetName); err != nil {
		return err
	} else if idx == -1 {
		if _, err := f.NewSheet(sheetName); err != nil {
			return err
		}
	}
	if df == nil {
		return nil
	}

	names := df.Names()
	header := make([]interface{}, len(names))
	for i, name := range names {
		header[i] = name
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	numberStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return err
	}

	for row := 0; row < df.Nrow(); row++ {
		values := make([]interface{}, len(names))
		for col, name := range names {
			s := df.Col(name)
			if s.Type() == series.Float {
				values[col] = s.Elem(row).Float()
			} else {
				values[col] = s.Elem(row).String()
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}

	for col, name := range names {
		if df.Col(name).Type() != series.Float || df.Nrow() == 0 {
			continue
		}
		first, _ := excelize.CoordinatesToCellName(col+1, 2)
		last, _ := excelize.CoordinatesToCellName(col+1, df.Nrow()+1)
		if err := f.SetCellStyle(sheetName, first, last, numberStyle); err != nil {
			return err
		}
	}
	return nil
}

func (rs *ReportService) applyStylesToAllSheets(f *excelize.File) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6E6"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return err
		}
		if len(rows) == 0 || len(rows[0]) == 0 {
			continue
		}
		last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
			return err
		}
		lastCol, _ := excelize.ColumnNumberToName(len(rows[0]))
		if err := f.SetColWidth(sheetName, "A", lastCol, 16); err != nil {
			return err
		}
	}
	return nil
}

// RenderIncomeChart draws the projected monthly income as a bar chart.
func (rs *ReportService) RenderIncomeChart(w io.Writer, p *PortfolioProjection) error {
	labels := make([]string, len(p.Series))
	values := make([]float64, len(p.Series))
	for i, m := range p.Series {
		labels[i] = m.Month + " " + m.Year
		values[i] = m.Income
	}
	title := fmt.Sprintf("%s: projected monthly income", p.Portfolio.Name)
	return render.RenderBarGraph(w, title, "Income", labels, values)
}

// RenderSectorChart draws each sector's share of market value.
func (rs *ReportService) RenderSectorChart(w io.Writer, title string, sectors []projection.SectorWeight) error {
	slices := make([]render.Slice, len(sectors))
	for i, s := range sectors {
		slices[i] = render.Slice{Name: s.Sector, Value: s.MarketValue}
	}
	return render.RenderPieGraph(w, title, "Market value", slices)
}
