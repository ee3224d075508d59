package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

type PayoutFrequency string

const (
	Monthly    PayoutFrequency = "monthly"
	Quarterly  PayoutFrequency = "quarterly"
	SemiAnnual PayoutFrequency = "semi-annual"
	Annual     PayoutFrequency = "annual"
)

const UnknownSector = "Unknown"

// MaxAmount caps every numeric holding field so derived values such as market
// value and annual income stay finite.
const MaxAmount = 1e12

// Canonical maps spelling variants onto the four known frequencies.
// Anything else, including the empty value, is quarterly.
func (f PayoutFrequency) Canonical() PayoutFrequency {
	s := strings.ToLower(strings.TrimSpace(string(f)))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	switch s {
	case "monthly":
		return Monthly
	case "quarterly":
		return Quarterly
	case "semi-annual", "semiannual", "semi-annually":
		return SemiAnnual
	case "annual", "annually", "yearly":
		return Annual
	default:
		return Quarterly
	}
}

// Period returns the number of months between two payouts.
func (f PayoutFrequency) Period() int {
	switch f.Canonical() {
	case Monthly:
		return 1
	case SemiAnnual:
		return 6
	case Annual:
		return 12
	default:
		return 3
	}
}

// PaymentsPerYear returns how many payouts fall in a twelve month window.
func (f PayoutFrequency) PaymentsPerYear() int {
	return 12 / f.Period()
}

type DividendPayment struct {
	ExDate      time.Time `json:"exDate" db:"ex_date"`
	PaymentDate time.Time `json:"paymentDate" db:"payment_date"`
	Amount      float64   `json:"amount" db:"amount"`
}

type Holding struct {
	Symbol          string            `json:"symbol" db:"symbol"`
	Shares          float64           `json:"shares" db:"shares"`
	AvgPrice        float64           `json:"avgPrice" db:"avg_price"`
	CurrentPrice    float64           `json:"currentPrice" db:"current_price"`
	CostBasis       float64           `json:"costBasis" db:"cost_basis"`
	DividendYield   float64           `json:"dividendYield" db:"dividend_yield"`
	Sector          string            `json:"sector" db:"sector"`
	PayoutFrequency PayoutFrequency   `json:"payoutFrequency" db:"payout_frequency"`
	DividendHistory []DividendPayment `json:"dividendHistory,omitempty"`
	UpdatedAt       time.Time         `json:"updatedAt" db:"updated_at"`
}

// Normalize applies the defaults a freshly entered holding gets: upper-case
// symbol, "Unknown" sector, canonical frequency, current price falling back
// to the average price and cost basis falling back to shares × avgPrice.
func (h *Holding) Normalize() {
	h.Symbol = NormalizeSymbol(h.Symbol)
	h.Sector = strings.TrimSpace(h.Sector)
	if h.Sector == "" {
		h.Sector = UnknownSector
	}
	h.PayoutFrequency = h.PayoutFrequency.Canonical()
	if h.CurrentPrice == 0 {
		h.CurrentPrice = h.AvgPrice
	}
	if h.CostBasis == 0 {
		h.CostBasis = h.Shares * h.AvgPrice
	}
}

// Validate reports every numeric field that is negative, NaN, infinite or
// above MaxAmount.
func (h Holding) Validate() error {
	var errs []error
	if NormalizeSymbol(h.Symbol) == "" {
		errs = append(errs, errors.New("symbol is required"))
	}
	fields := []struct {
		name  string
		value float64
	}{
		{"shares", h.Shares},
		{"avgPrice", h.AvgPrice},
		{"currentPrice", h.CurrentPrice},
		{"costBasis", h.CostBasis},
		{"dividendYield", h.DividendYield},
	}
	for _, f := range fields {
		if err := checkAmount(f.name, f.value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d DividendPayment) Validate() error {
	if d.ExDate.IsZero() {
		return errors.New("exDate is required")
	}
	if !d.PaymentDate.IsZero() && d.PaymentDate.Before(d.ExDate) {
		return errors.New("paymentDate must not be before exDate")
	}
	return checkAmount("amount", d.Amount)
}

func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func checkAmount(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be a finite number", name)
	}
	if v < 0 {
		return fmt.Errorf("%s must not be negative", name)
	}
	if v > MaxAmount {
		return fmt.Errorf("%s must not exceed %g", name, MaxAmount)
	}
	return nil
}
