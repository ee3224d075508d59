package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	IncomeChartSheet     = "Income Chart"
	AllocationChartSheet = "Allocation Chart"
)

// addChartSheet plots valueCol against categoryCol of dataSheet on a new
// sheet. Both columns are looked up by their header.
func addChartSheet(file *excelize.File, dataSheet, chartSheet, categoryCol, valueCol string, chartType excelize.ChartType) error {
	rows, err := file.GetRows(dataSheet)
	if err != nil {
		return fmt.Errorf("failed to read rows from sheet %s: %w", dataSheet, err)
	}
	if len(rows) < 2 {
		return nil
	}

	categoryName, err := headerColumn(rows[0], categoryCol)
	if err != nil {
		return fmt.Errorf("sheet %s: %w", dataSheet, err)
	}
	valueName, err := headerColumn(rows[0], valueCol)
	if err != nil {
		return fmt.Errorf("sheet %s: %w", dataSheet, err)
	}

	startRow := 2
	endRow := len(rows)
	titleFont := excelize.Font{
		Bold: true,
		Size: 18,
	}

	chart := excelize.Chart{
		Type: chartType,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("'%s'!$%s$1", dataSheet, valueName),
				Categories: fmt.Sprintf("'%s'!$%s$%d:$%s$%d", dataSheet, categoryName, startRow, categoryName, endRow),
				Values:     fmt.Sprintf("'%s'!$%s$%d:$%s$%d", dataSheet, valueName, startRow, valueName, endRow),
			},
		},
		Title: []excelize.RichTextRun{
			{
				Text: chartSheet,
				Font: &titleFont,
			},
		},
		Legend: excelize.ChartLegend{
			Position: "right",
		},
		Dimension: excelize.ChartDimension{
			Width:  960,
			Height: 540,
		},
		Format: excelize.GraphicOptions{
			OffsetX: 15,
			OffsetY: 10,
		},
	}
	if chartType == excelize.Pie {
		chart.PlotArea = excelize.ChartPlotArea{ShowCatName: true, ShowPercent: true}
	} else {
		chart.PlotArea = excelize.ChartPlotArea{ShowVal: true}
		chart.Legend.Position = "none"
	}

	if _, err := file.NewSheet(chartSheet); err != nil {
		return err
	}
	if err := file.AddChart(chartSheet, "A1", &chart); err != nil {
		return fmt.Errorf("failed to add chart to sheet %s: %w", chartSheet, err)
	}
	return nil
}

func headerColumn(header []string, name string) (string, error) {
	for i, h := range header {
		if h == name {
			return excelize.ColumnNumberToName(i + 1)
		}
	}
	return "", fmt.Errorf("column %s not found", name)
}
