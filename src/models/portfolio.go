package models

import "time"

const DefaultPortfolioName = "My Portfolio"

type Portfolio struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
