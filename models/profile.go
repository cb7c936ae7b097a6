package models

type Bio struct {
	Headline string `json:"headline" validate:"required,min=2,max=120"`
	About    string `json:"about" validate:"max=2000"`
	Location string `json:"location,omitempty" validate:"max=120"`
}

type Experience struct {
	Title     string `json:"title" validate:"required,max=120"`
	Company   string `json:"company" validate:"required,max=120"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01"`
	EndDate   string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01"`
	Summary   string `json:"summary,omitempty" validate:"max=1000"`
}

type Skills struct {
	Skills []string `json:"skills" validate:"required,min=1,max=30,dive,required,max=50"`
}

type Link struct {
	Label string `json:"label" validate:"required,max=40"`
	URL   string `json:"url" validate:"required,url,max=300"`
}

type Links struct {
	Links []Link `json:"links" validate:"max=10,dive"`
}

// Upload is a validated file ready to be sent as a multipart field.
type Upload struct {
	Field       string
	FileName    string
	ContentType string
	Data        []byte
}
