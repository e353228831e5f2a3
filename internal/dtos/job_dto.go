package dtos

// JobRequest is the body of POST and PUT /api/jobs.
type JobRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=100"`
	Description string `json:"description" form:"description" validate:"required"`
	IsActive    *bool  `json:"is_active" form:"is_active"`
}

// JobPatch is the body of PATCH /api/jobs/:id; nil fields are left alone.
type JobPatch struct {
	Title       *string `json:"title" form:"title" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" form:"description" validate:"omitempty,min=1"`
	IsActive    *bool   `json:"is_active" form:"is_active"`
}

type JobSummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}
