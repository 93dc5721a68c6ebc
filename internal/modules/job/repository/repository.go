package repository

import (
	"context"
	"strings"

	"anoa.com/jobboard/internal/entity"
	"anoa.com/jobboard/pkg/apperror"
	"anoa.com/jobboard/pkg/database"
	"gorm.io/gorm"
)

type JobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	FindByID(ctx context.Context, id uint) (*entity.Job, error)
	// FindApproved lists approved jobs, newest first.
	FindApproved(ctx context.Context) ([]*entity.Job, error)
	// FindApprovedByIDs keeps the order of ids and drops any that are missing or not approved.
	FindApprovedByIDs(ctx context.Context, ids []uint) ([]*entity.Job, error)
	// SearchApproved matches query case-insensitively against the job's text fields.
	SearchApproved(ctx context.Context, query string) ([]*entity.Job, error)
	Update(ctx context.Context, job *entity.Job) error
	// Delete removes the job and its applications together.
	Delete(ctx context.Context, id uint) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *entity.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepository) FindByID(ctx context.Context, id uint) (*entity.Job, error) {
	var job entity.Job
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "Job not found")
		}
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) FindApproved(ctx context.Context) ([]*entity.Job, error) {
	var jobs []*entity.Job
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.StatusApproved).
		Order("id DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *jobRepository) FindApprovedByIDs(ctx context.Context, ids []uint) ([]*entity.Job, error) {
	if len(ids) == 0 {
		return []*entity.Job{}, nil
	}

	var found []*entity.Job
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND status = ?", ids, entity.StatusApproved).
		Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]*entity.Job, len(found))
	for _, job := range found {
		byID[job.ID] = job
	}

	jobs := make([]*entity.Job, 0, len(found))
	for _, id := range ids {
		if job, ok := byID[id]; ok {
			jobs = append(jobs, job)
			delete(byID, id)
		}
	}
	return jobs, nil
}

func (r *jobRepository) SearchApproved(ctx context.Context, query string) ([]*entity.Job, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(query))) + "%"

	var jobs []*entity.Job
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.StatusApproved).
		Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(company) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(required_skills) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern, pattern).
		Order("id DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *jobRepository) Update(ctx context.Context, job *entity.Job) error {
	return r.db.WithContext(ctx).
		Model(&entity.Job{ID: job.ID}).
		Select("title", "company", "description", "required_skills", "posting_date", "updated_at").
		Updates(job).Error
}

func (r *jobRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&entity.Application{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entity.Job{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperror.Wrap(apperror.ErrNotFound, "Job not found")
		}
		return nil
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
