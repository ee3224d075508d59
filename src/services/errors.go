package services

import "errors"

var (
	ErrLastPortfolio    = errors.New("the last portfolio cannot be deleted")
	ErrQuoteUnavailable = errors.New("no quote available")
	ErrNoDividendSource = errors.New("no dividend data provider is configured")
)

// ValidationError marks input the caller has to fix.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Err: err}
}
