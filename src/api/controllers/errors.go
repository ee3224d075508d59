package controllers

import (
	"errors"
	"net/http"

	"dividendtracker/src/clients/alphavantage"
	"dividendtracker/src/repositories"
	"dividendtracker/src/services"
	"dividendtracker/src/utils"
)

// translateError maps domain errors onto HTTP errors. Anything it does not
// recognise is returned unchanged and ends up as a 500.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var validationErr *services.ValidationError
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return utils.NotFound("%s", err.Error())
	case errors.As(err, &validationErr):
		return utils.UnprocessableEntity("%s", validationErr.Error())
	case errors.Is(err, services.ErrLastPortfolio):
		return utils.Conflict("%s", err.Error())
	case errors.Is(err, services.ErrNoDividendSource):
		return utils.ServiceUnavailable("%s", err.Error())
	case errors.Is(err, alphavantage.ErrRateLimitExceeded):
		return utils.NewHTTPError(http.StatusTooManyRequests, err.Error())
	case errors.Is(err, services.ErrQuoteUnavailable):
		return utils.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return err
}
