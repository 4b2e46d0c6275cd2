package models

import "github.com/shopspring/decimal"

type BillLine struct {
	Service  Service         `json:"service"`
	Quantity int             `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
}

type Bill struct {
	Booking      Booking         `json:"booking"`
	Room         Room            `json:"room"`
	Days         int             `json:"days"`
	RoomCost     decimal.Decimal `json:"room_cost"`
	Lines        []BillLine      `json:"lines"`
	ServicesCost decimal.Decimal `json:"services_cost"`
	Total        decimal.Decimal `json:"total"`
}
