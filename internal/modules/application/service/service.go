package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/jobboard/internal/entity"
	"anoa.com/jobboard/internal/modules/application/repository"
	auth "anoa.com/jobboard/internal/modules/auth/service"
	"anoa.com/jobboard/internal/workflow"
	"anoa.com/jobboard/pkg/apperror"
	"anoa.com/jobboard/pkg/logger"
)

// JobFinder is the part of the job store applications need.
type JobFinder interface {
	FindByID(ctx context.Context, id uint) (*entity.Job, error)
}

// Throttle limits how often a subject may repeat an action.
type Throttle interface {
	Allow(ctx context.Context, subject, action string, window time.Duration) error
	Clear(ctx context.Context, subject, action string) error
}

type Options struct {
	// Throttle is consulted once per applicant and job; nil disables it.
	Throttle    Throttle
	ApplyWindow time.Duration
}

const applyAction = "apply"

type ApplicationService interface {
	// Apply checks, in order, that the applicant is approved, that the job exists and is
	// approved, that the applicant has not applied already and that the apply window
	// for this applicant and job is open.
	Apply(ctx context.Context, applicant *entity.User, jobID uint) (*entity.Application, error)
	ListForJob(ctx context.Context, recruiter *entity.User, jobID uint) ([]*entity.Application, error)
	ListForUser(ctx context.Context, applicant *entity.User) ([]*entity.Application, error)
	Approve(ctx context.Context, recruiter *entity.User, id uint) (entity.Status, error)
}

type applicationService struct {
	repo     repository.ApplicationRepository
	jobs     JobFinder
	workflow *workflow.Engine
	opts     Options
}

func NewApplicationService(repo repository.ApplicationRepository, jobs JobFinder, engine *workflow.Engine, opts Options) ApplicationService {
	return &applicationService{repo: repo, jobs: jobs, workflow: engine, opts: opts}
}

func (s *applicationService) Apply(ctx context.Context, applicant *entity.User, jobID uint) (*entity.Application, error) {
	if err := auth.RequireApproved(applicant); err != nil {
		return nil, err
	}

	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, jobUnavailable()
		}
		return nil, err
	}
	if !job.IsApproved() {
		return nil, jobUnavailable()
	}

	exists, err := s.repo.Exists(ctx, applicant.ID, jobID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Wrap(apperror.ErrConflict, "Already applied")
	}

	subject := fmt.Sprintf("user:%d:job:%d", applicant.ID, jobID)
	if err := s.throttle(ctx, subject); err != nil {
		return nil, err
	}

	app := &entity.Application{
		UserID: applicant.ID,
		JobID:  jobID,
		Status: entity.StatusPending,
	}
	// A concurrent duplicate that passed the check above is stopped by the unique index.
	if err := s.repo.Create(ctx, app); err != nil {
		s.release(ctx, subject)
		return nil, err
	}

	logger.Info().Uint("application_id", app.ID).Uint("job_id", jobID).Uint("user_id", applicant.ID).Msg("application submitted")
	return app, nil
}

func (s *applicationService) ListForJob(ctx context.Context, recruiter *entity.User, jobID uint) ([]*entity.Application, error) {
	if err := auth.RequireRole(recruiter, entity.RoleRecruiter); err != nil {
		return nil, err
	}

	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireResourceOwner(recruiter, job.RecruiterID); err != nil {
		return nil, err
	}

	return s.repo.FindByJob(ctx, jobID)
}

func (s *applicationService) ListForUser(ctx context.Context, applicant *entity.User) ([]*entity.Application, error) {
	if err := auth.RequireApproved(applicant); err != nil {
		return nil, err
	}
	return s.repo.FindByUser(ctx, applicant.ID)
}

// Approve is allowed only to the recruiter owning the application's job.
func (s *applicationService) Approve(ctx context.Context, recruiter *entity.User, id uint) (entity.Status, error) {
	if err := auth.RequireRole(recruiter, entity.RoleRecruiter); err != nil {
		return "", err
	}

	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if app.Job == nil {
		return "", apperror.Wrap(apperror.ErrNotFound, "Job not found")
	}
	if err := auth.RequireResourceOwner(recruiter, app.Job.RecruiterID); err != nil {
		return "", err
	}

	res, err := s.workflow.Approve(ctx, entity.LifecycleApplication, id)
	if err != nil {
		return "", err
	}
	return res.Status, nil
}

// throttle lets limiter outages through and only fails on a rejected request.
func (s *applicationService) throttle(ctx context.Context, subject string) error {
	if s.opts.Throttle == nil || s.opts.ApplyWindow <= 0 {
		return nil
	}
	err := s.opts.Throttle.Allow(ctx, subject, applyAction, s.opts.ApplyWindow)
	if err == nil || errors.Is(err, apperror.ErrRateLimitExceeded) {
		return err
	}
	logger.Warn().Err(err).Str("subject", subject).Msg("rate limiter unavailable")
	return nil
}

func (s *applicationService) release(ctx context.Context, subject string) {
	if s.opts.Throttle == nil || s.opts.ApplyWindow <= 0 {
		return
	}
	if err := s.opts.Throttle.Clear(ctx, subject, applyAction); err != nil {
		logger.Warn().Err(err).Str("subject", subject).Msg("failed to release apply lock")
	}
}

func jobUnavailable() error {
	return apperror.Wrap(apperror.ErrJobUnavailable, "Job not available")
}
