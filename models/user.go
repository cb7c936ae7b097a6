package models

import "github.com/octabyte/bm-talentportal/enums"

// User is the identity returned by the backend whoami endpoint.
type User struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           enums.Role `json:"role"`
	ProfilePicture string     `json:"profile_picture,omitempty"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type Registration struct {
	Name     string     `json:"name" validate:"required,min=2,max=100"`
	Email    string     `json:"email" validate:"required,email,max=254"`
	Password string     `json:"password" validate:"required,min=8,max=128"`
	Role     enums.Role `json:"role" validate:"required,oneof=talent recruiter company"`
}
