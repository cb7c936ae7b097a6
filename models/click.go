package models

import "time"

// ClickEvent records a visit to a tracked scheduling link.
type ClickEvent struct {
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name,omitempty"`
	ClickedAt time.Time `json:"clicked_at"`
}
