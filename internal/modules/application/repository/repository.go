package repository

import (
	"context"

	"anoa.com/jobboard/internal/entity"
	"anoa.com/jobboard/pkg/apperror"
	"anoa.com/jobboard/pkg/database"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	// Create relies on the (user_id, job_id) unique index; a duplicate yields ErrConflict.
	Create(ctx context.Context, app *entity.Application) error
	Exists(ctx context.Context, userID, jobID uint) (bool, error)
	FindByID(ctx context.Context, id uint) (*entity.Application, error)
	// FindByJob preloads each applicant and their profile.
	FindByJob(ctx context.Context, jobID uint) ([]*entity.Application, error)
	// FindByUser preloads each job.
	FindByUser(ctx context.Context, userID uint) ([]*entity.Application, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, app *entity.Application) error {
	err := r.db.WithContext(ctx).Omit("User", "Job").Create(app).Error
	if database.IsUniqueViolation(err) {
		return apperror.Wrap(apperror.ErrConflict, "Already applied")
	}
	return err
}

func (r *applicationRepository) Exists(ctx context.Context, userID, jobID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Application{}).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		Count(&count).Error
	return count > 0, err
}

func (r *applicationRepository) FindByID(ctx context.Context, id uint) (*entity.Application, error) {
	var app entity.Application
	if err := r.db.WithContext(ctx).Preload("Job").First(&app, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "Application not found")
		}
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) FindByJob(ctx context.Context, jobID uint) ([]*entity.Application, error) {
	var apps []*entity.Application
	err := r.db.WithContext(ctx).
		Preload("User.Profile").
		Where("job_id = ?", jobID).
		Order("id").
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepository) FindByUser(ctx context.Context, userID uint) ([]*entity.Application, error) {
	var apps []*entity.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("user_id = ?", userID).
		Order("id").
		Find(&apps).Error
	return apps, err
}
