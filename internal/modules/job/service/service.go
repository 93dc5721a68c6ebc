package job

import (
	"context"
	"errors"
	"strings"

	"anoa.com/jobboard/internal/entity"
	auth "anoa.com/jobboard/internal/modules/auth/service"
	"anoa.com/jobboard/internal/modules/job/dto"
	"anoa.com/jobboard/internal/modules/job/repository"
	search "anoa.com/jobboard/internal/modules/search/service"
	"anoa.com/jobboard/internal/workflow"
	"anoa.com/jobboard/pkg/apperror"
	"anoa.com/jobboard/pkg/logger"
	"anoa.com/jobboard/pkg/textutil"
)

const searchLimit = 50

type JobService interface {
	CreateJob(ctx context.Context, recruiter *entity.User, req dto.CreateJobRequest) (*entity.Job, error)
	UpdateJob(ctx context.Context, recruiter *entity.User, id uint, req dto.UpdateJobRequest) (*entity.Job, error)
	DeleteJob(ctx context.Context, recruiter *entity.User, id uint) error
	ApproveJob(ctx context.Context, id uint) (entity.Status, error)
	// ListJobs returns approved jobs, optionally narrowed by a search query.
	ListJobs(ctx context.Context, filter dto.JobFilter) ([]*entity.Job, error)
	// GetJob returns an approved job; pending jobs are reported as missing.
	GetJob(ctx context.Context, id uint) (*entity.Job, error)
}

type jobService struct {
	repo     repository.JobRepository
	workflow *workflow.Engine
	index    search.JobIndex
}

func NewJobService(repo repository.JobRepository, engine *workflow.Engine, index search.JobIndex) JobService {
	if index == nil {
		index = search.NoopIndex{}
	}
	return &jobService{repo: repo, workflow: engine, index: index}
}

func (s *jobService) CreateJob(ctx context.Context, recruiter *entity.User, req dto.CreateJobRequest) (*entity.Job, error) {
	if err := auth.RequireRole(recruiter, entity.RoleRecruiter); err != nil {
		return nil, err
	}

	job := &entity.Job{
		Title:          textutil.StripTags(req.Title),
		Company:        textutil.StripTags(req.Company),
		Description:    textutil.StripTags(req.Description),
		RequiredSkills: textutil.StripTags(req.RequiredSkills),
		PostingDate:    strings.TrimSpace(req.PostingDate),
		Status:         entity.StatusPending,
		RecruiterID:    recruiter.ID,
	}
	if job.Title == "" || job.Company == "" || job.Description == "" || job.RequiredSkills == "" || job.PostingDate == "" {
		return nil, apperror.Wrap(apperror.ErrValidation, "All fields are required")
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	logger.Info().Uint("job_id", job.ID).Uint("recruiter_id", recruiter.ID).Msg("job posted")
	return job, nil
}

// ownedJob loads a job and checks that recruiter owns it; a missing job wins over ownership.
func (s *jobService) ownedJob(ctx context.Context, recruiter *entity.User, id uint) (*entity.Job, error) {
	if err := auth.RequireRole(recruiter, entity.RoleRecruiter); err != nil {
		return nil, err
	}

	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireResourceOwner(recruiter, job.RecruiterID); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *jobService) UpdateJob(ctx context.Context, recruiter *entity.User, id uint, req dto.UpdateJobRequest) (*entity.Job, error) {
	job, err := s.ownedJob(ctx, recruiter, id)
	if err != nil {
		return nil, err
	}

	assignClean(&job.Title, req.Title)
	assignClean(&job.Company, req.Company)
	assignClean(&job.Description, req.Description)
	assignClean(&job.RequiredSkills, req.RequiredSkills)
	if req.PostingDate != nil {
		if date := strings.TrimSpace(*req.PostingDate); date != "" {
			job.PostingDate = date
		}
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}

	if job.IsApproved() {
		s.reindex(ctx, job)
	}
	return job, nil
}

func (s *jobService) DeleteJob(ctx context.Context, recruiter *entity.User, id uint) error {
	if _, err := s.ownedJob(ctx, recruiter, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.index.RemoveJobs(ctx, id); err != nil {
		logger.Warn().Err(err).Uint("job_id", id).Msg("failed to remove job from index")
	}

	logger.Info().Uint("job_id", id).Uint("recruiter_id", recruiter.ID).Msg("job deleted")
	return nil
}

func (s *jobService) ApproveJob(ctx context.Context, id uint) (entity.Status, error) {
	res, err := s.workflow.Approve(ctx, entity.LifecycleJob, id)
	if err != nil {
		return "", err
	}

	if res.Changed {
		if job, err := s.repo.FindByID(ctx, id); err == nil {
			s.reindex(ctx, job)
		} else {
			logger.Warn().Err(err).Uint("job_id", id).Msg("failed to load approved job for indexing")
		}
	}
	return res.Status, nil
}

func (s *jobService) ListJobs(ctx context.Context, filter dto.JobFilter) ([]*entity.Job, error) {
	query := strings.TrimSpace(filter.Query)
	if query == "" {
		return s.repo.FindApproved(ctx)
	}

	ids, err := s.index.SearchJobIDs(ctx, query, searchLimit)
	if err != nil {
		if !errors.Is(err, search.ErrIndexUnavailable) {
			logger.Warn().Err(err).Msg("job search failed, falling back to database")
		}
		return s.repo.SearchApproved(ctx, query)
	}
	return s.repo.FindApprovedByIDs(ctx, ids)
}

func (s *jobService) GetJob(ctx context.Context, id uint) (*entity.Job, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !job.IsApproved() {
		return nil, apperror.Wrap(apperror.ErrNotFound, "Job not found")
	}
	return job, nil
}

func (s *jobService) reindex(ctx context.Context, job *entity.Job) {
	if err := s.index.IndexJob(ctx, job); err != nil {
		logger.Warn().Err(err).Uint("job_id", job.ID).Msg("failed to index job")
	}
}

// assignClean overwrites dst with the cleaned value unless it cleans down to nothing.
func assignClean(dst *string, value *string) {
	if value == nil {
		return
	}
	if cleaned := textutil.StripTags(*value); cleaned != "" {
		*dst = cleaned
	}
}
