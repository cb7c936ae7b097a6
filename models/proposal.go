package models

type Proposal struct {
	TalentID string `json:"talent_id" validate:"required,max=64"`
	JobID    string `json:"job_id,omitempty" validate:"omitempty,max=64"`
	Message  string `json:"message" validate:"required,min=10,max=2000"`
}
