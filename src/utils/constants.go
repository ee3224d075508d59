package utils

const ShortSlashDateLayout = "2006/01/02"
const ShortDashDateLayout = "2006-01-02"
const MonthLayout = "2006-01"

const (
	ContentTypeJSON = "application/json"
	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeHTML = "text/html; charset=utf-8"
)

// ChartColors defines a palette of distinct colors for chart visualization
var ChartColors = []string{
	"#2f7ed8", // Blue
	"#8bbc21", // Green
	"#f28f43", // Orange
	"#910000", // Dark Red
	"#1aadce", // Teal
	"#492970", // Purple
	"#77a1e5", // Light Blue
	"#c42525", // Red
	"#a6c96a", // Light Green
	"#0d233a", // Navy
	"#808080", // Medium Gray
}

// GetChartColor returns a color from the chart color palette
// If the index exceeds the palette size, it cycles back to the beginning
func GetChartColor(index int) string {
	return ChartColors[index%len(ChartColors)]
}
