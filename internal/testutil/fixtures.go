package testutil

import (
	"fmt"
	"testing"

	"anoa.com/jobboard/internal/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateUser inserts a user with an empty profile and a MinCost hash of password.
func CreateUser(t testing.TB, db *gorm.DB, email, password string, role entity.Role, status entity.Status) *entity.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := &entity.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Test",
		LastName:     fmt.Sprintf("User %s", role),
		DateOfBirth:  "1990-01-01",
		Address:      "1 Test Street",
		Role:         role,
		Status:       status,
		Profile:      &entity.Profile{},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

// CreateJob inserts a job owned by recruiterID.
func CreateJob(t testing.TB, db *gorm.DB, recruiterID uint, title string, status entity.Status) *entity.Job {
	t.Helper()

	job := &entity.Job{
		Title:          title,
		Company:        "Acme",
		Description:    title + " description",
		RequiredSkills: "go, sql",
		PostingDate:    "2024-05-01",
		Status:         status,
		RecruiterID:    recruiterID,
	}
	if err := db.Create(job).Error; err != nil {
		t.Fatalf("create job %s: %v", title, err)
	}
	return job
}

// CreateApplication inserts an application of userID to jobID.
func CreateApplication(t testing.TB, db *gorm.DB, userID, jobID uint, status entity.Status) *entity.Application {
	t.Helper()

	app := &entity.Application{UserID: userID, JobID: jobID, Status: status}
	if err := db.Create(app).Error; err != nil {
		t.Fatalf("create application: %v", err)
	}
	return app
}
