package entity

import "time"

type Job struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:120;not null" json:"title"`
	Company        string    `gorm:"size:120;not null" json:"company"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	RequiredSkills string    `gorm:"type:text;not null" json:"required_skills"`
	PostingDate    string    `gorm:"size:10;not null" json:"posting_date"`
	Status         Status    `gorm:"size:20;not null;default:pending;index" json:"status"`
	RecruiterID    uint      `gorm:"not null;index" json:"recruiter_id"`
	Recruiter      *User     `gorm:"foreignKey:RecruiterID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (j *Job) IsApproved() bool {
	return j.Status == StatusApproved
}

// Application joins a user to a job; a user applies to a job at most once.
type Application struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_applications_user_job" json:"user_id"`
	JobID     uint      `gorm:"not null;uniqueIndex:idx_applications_user_job;index" json:"job_id"`
	Status    Status    `gorm:"size:20;not null;default:pending" json:"status"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Job       *Job      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
