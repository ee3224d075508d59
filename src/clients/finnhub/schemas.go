package finnhub

// QuoteResponse is the /quote payload. Unknown symbols come back with every
// field set to zero.
type QuoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
