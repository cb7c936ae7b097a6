package models

import "github.com/octabyte/bm-talentportal/enums"

type JobPosting struct {
	Title          string               `json:"title" validate:"required,min=3,max=120"`
	Description    string               `json:"description" validate:"required,min=20,max=5000"`
	Location       string               `json:"location" validate:"required,max=120"`
	EmploymentType enums.EmploymentType `json:"employment_type" validate:"required,oneof=full_time part_time contract internship"`
	SalaryMin      int                  `json:"salary_min,omitempty" validate:"gte=0"`
	SalaryMax      int                  `json:"salary_max,omitempty" validate:"gte=0,gtefield=SalaryMin"`
	Skills         []string             `json:"skills,omitempty" validate:"max=30,dive,required,max=50"`
}

type JobApplication struct {
	CoverLetter string `json:"cover_letter" validate:"omitempty,max=3000"`
	ResumeURL   string `json:"resume_url,omitempty" validate:"omitempty,url"`
}

type JobQuery struct {
	Search   string `query:"q" validate:"max=100"`
	Location string `query:"location" validate:"max=120"`
	Page     int    `query:"page" validate:"gte=0"`
}
