package models

import "github.com/octabyte/bm-talentportal/enums"

// Session is the snapshot of a client's authentication state exposed to views.
type Session struct {
	ID    string             `json:"-"`
	State enums.SessionState `json:"state"`
	User  *User              `json:"user,omitempty"`
}

func (s Session) Authenticated() bool {
	return s.State == enums.SessionStateAuthenticated && s.User != nil
}
