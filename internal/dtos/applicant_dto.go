package dtos

type ApplicantRequest struct {
	Name   string  `json:"name" form:"name" validate:"required,max=100"`
	Email  string  `json:"email" form:"email" validate:"required,email,max=254"`
	Phone  *string `json:"phone" form:"phone" validate:"omitempty,max=15"`
	Resume *string `json:"resume" form:"resume"`
}

type ApplicantPatch struct {
	Name   *string `json:"name" form:"name" validate:"omitempty,min=1,max=100"`
	Email  *string `json:"email" form:"email" validate:"omitempty,email,max=254"`
	Phone  *string `json:"phone" form:"phone" validate:"omitempty,max=15"`
	Resume *string `json:"resume" form:"resume"`
}

type ApplicantSummary struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}
