package models

import "github.com/octabyte/bm-talentportal/enums"

type ConnectionRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
	Note   string `json:"note,omitempty" validate:"max=300"`
}

type ConnectionAccept struct {
	RequestID string `json:"request_id" validate:"required,max=64"`
}

type ConnectionStatus struct {
	UserID string                 `json:"user_id"`
	Status enums.ConnectionStatus `json:"status"`
}
