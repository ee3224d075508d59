package projection

import (
	"strconv"
	"time"

	"dividendtracker/src/models"
)

// WindowMonths is the length of the forward-looking projection window.
const WindowMonths = 12

type MonthlyIncome struct {
	Month  string  `json:"month"`
	Year   string  `json:"year"`
	Income float64 `json:"income"`
}

// PayoutSchedule spreads an annual amount over the window. Every schedule is
// phase-aligned on month 0 of the window: a payout lands on month i when
// i % period == 0, whatever the holding's real ex-dividend calendar is.
func PayoutSchedule(annual float64, frequency models.PayoutFrequency) [WindowMonths]float64 {
	var schedule [WindowMonths]float64
	if annual <= 0 {
		return schedule
	}
	period := frequency.Period()
	payout := annual / float64(frequency.PaymentsPerYear())
	for i := 0; i < WindowMonths; i += period {
		schedule[i] = payout
	}
	return schedule
}

// HoldingSchedule is the monthly contribution of a single holding.
func HoldingSchedule(h models.Holding) [WindowMonths]float64 {
	return PayoutSchedule(AnnualDividendIncome(h), h.PayoutFrequency)
}

// MonthlySeries sums every holding's schedule month by month. Month 0 is the
// calendar month containing start.
func MonthlySeries(holdings []models.Holding, start time.Time) []MonthlyIncome {
	var totals [WindowMonths]float64
	for _, h := range holdings {
		schedule := HoldingSchedule(h)
		for i, v := range schedule {
			totals[i] += v
		}
	}

	months := WindowStart(start)
	series := make([]MonthlyIncome, WindowMonths)
	for i := range series {
		m := months.AddDate(0, i, 0)
		series[i] = MonthlyIncome{
			Month:  m.Month().String()[:3],
			Year:   strconv.Itoa(m.Year()),
			Income: totals[i],
		}
	}
	return series
}

// WindowStart returns midnight on the first day of start's month.
func WindowStart(start time.Time) time.Time {
	return time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
}
