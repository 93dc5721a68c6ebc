package entity

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FirstName    string    `gorm:"size:80;not null" json:"first_name"`
	LastName     string    `gorm:"size:80;not null" json:"last_name"`
	DateOfBirth  string    `gorm:"size:10;not null" json:"date_of_birth"`
	Address      string    `gorm:"size:255;not null" json:"address"`
	Role         Role      `gorm:"size:20;not null;default:user;index" json:"role"`
	Status       Status    `gorm:"size:20;not null;default:pending;index" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Profile      *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (u *User) IsApproved() bool {
	return u.Status == StatusApproved
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile is owned by exactly one user and has no lifecycle of its own.
type Profile struct {
	UserID     uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Summary    string    `gorm:"type:text" json:"summary"`
	Skills     string    `gorm:"type:text" json:"skills"`
	Education  string    `gorm:"type:text" json:"education"`
	Experience string    `gorm:"type:text" json:"experience"`
	ResumeURL  *string   `gorm:"type:text" json:"resume_url,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
