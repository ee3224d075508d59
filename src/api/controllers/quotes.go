package controllers

import (
	"context"

	"dividendtracker/src/services"
)

func (c *Controller) GetQuote(ctx context.Context, symbol string) (*services.Quote, error) {
	quote, err := c.Quotes.GetQuote(ctx, symbol)
	if err != nil {
		return nil, translateError(err)
	}
	return &quote, nil
}
