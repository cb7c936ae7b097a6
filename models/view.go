package models

import "github.com/goccy/go-json"

const (
	ViewStatusOK      = "ok"
	ViewStatusEmpty   = "empty"
	ViewStatusError   = "error"
	ViewStatusLoading = "loading"
)

// View is the envelope every resource view renders.
type View struct {
	Status   string            `json:"status"`
	Message  string            `json:"message,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Data     json.RawMessage   `json:"data,omitempty"`
}

type MenuItem struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}
