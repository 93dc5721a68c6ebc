package dto

type CreateJobRequest struct {
	Title          string `form:"title" binding:"required,max=120"`
	Company        string `form:"company" binding:"required,max=120"`
	Description    string `form:"description" binding:"required"`
	RequiredSkills string `form:"required_skills" binding:"required"`
	PostingDate    string `form:"posting_date" binding:"required,max=10"`
}

// UpdateJobRequest leaves nil fields unchanged. Status is not editable here.
type UpdateJobRequest struct {
	Title          *string `form:"title" binding:"omitempty,max=120"`
	Company        *string `form:"company" binding:"omitempty,max=120"`
	Description    *string `form:"description"`
	RequiredSkills *string `form:"required_skills"`
	PostingDate    *string `form:"posting_date" binding:"omitempty,max=10"`
}

type JobFilter struct {
	Query string `form:"q"`
}
