package models

import "github.com/shopspring/decimal"

type Room struct {
	ID          int64           `json:"id" yaml:"-" db:"id"`
	Number      string          `json:"number" yaml:"number" db:"number"`
	Type        string          `json:"type" yaml:"type" db:"type"`
	PricePerDay decimal.Decimal `json:"price_per_day" yaml:"price_per_day" db:"price_per_day"`
	Description string          `json:"description" yaml:"description" db:"description"`
}

type Service struct {
	ID    int64           `json:"id" yaml:"-" db:"id"`
	Name  string          `json:"name" yaml:"name" db:"name"`
	Price decimal.Decimal `json:"price" yaml:"price" db:"price"`
}
