package dtos

type TokenRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" form:"refresh" validate:"required"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AccessToken struct {
	Access string `json:"access"`
}

type Dashboard struct {
	Applicants   int64            `json:"applicants"`
	Jobs         int64            `json:"jobs"`
	ActiveJobs   int64            `json:"active_jobs"`
	Applications map[string]int64 `json:"applications"`
}
