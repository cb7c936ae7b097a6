package models

import "time"

type Payment struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	PaidAt      time.Time `json:"paid_at"`
}

type BillingHistory struct {
	Payments  []Payment `json:"payments"`
	TotalPaid float64   `json:"total_paid"`
	Currency  string    `json:"currency,omitempty"`
	TimeZone  string    `json:"time_zone"`
}
