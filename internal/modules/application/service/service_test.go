package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"anoa.com/jobboard/internal/entity"
	"anoa.com/jobboard/internal/modules/application/repository"
	jobRepo "anoa.com/jobboard/internal/modules/job/repository"
	"anoa.com/jobboard/internal/testutil"
	"anoa.com/jobboard/internal/workflow"
	"anoa.com/jobboard/pkg/apperror"
	"anoa.com/jobboard/pkg/ratelimiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (ApplicationService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return newServiceWith(db, repository.NewApplicationRepository(db), Options{}), db
}

func newServiceWith(db *gorm.DB, repo repository.ApplicationRepository, opts Options) ApplicationService {
	return NewApplicationService(
		repo,
		jobRepo.NewJobRepository(db),
		workflow.NewEngine(workflow.NewGormStore(db)),
		opts,
	)
}

// memoryThrottle holds one lock per subject and action until cleared.
type memoryThrottle struct {
	mu      sync.Mutex
	locks   map[string]bool
	down    bool
	cleared []string
}

func (m *memoryThrottle) Allow(_ context.Context, subject, action string, window time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return errors.New("connection refused")
	}
	key := ratelimiter.Key(subject, action)
	if m.locks[key] {
		return &ratelimiter.RateLimitError{Action: action, RetryAfter: window}
	}
	m.locks[key] = true
	return nil
}

func (m *memoryThrottle) Clear(_ context.Context, subject, action string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := ratelimiter.Key(subject, action)
	delete(m.locks, key)
	m.cleared = append(m.cleared, key)
	return nil
}

type failingCreate struct {
	repository.ApplicationRepository
}

func (failingCreate) Create(context.Context, *entity.Application) error {
	return errors.New("disk full")
}

func TestApplyChecksInOrder(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	recruiter := testutil.CreateUser(t, db, "r@x.com", "pw", entity.RoleRecruiter, entity.StatusApproved)
	pending := testutil.CreateUser(t, db, "p@x.com", "pw", entity.RoleUser, entity.StatusPending)
	applicant := testutil.CreateUser(t, db, "a@x.com", "pw", entity.RoleUser, entity.StatusApproved)
	open := testutil.CreateJob(t, db, recruiter.ID, "Open", entity.StatusApproved)
	draft := testutil.CreateJob(t, db, recruiter.ID, "Draft", entity.StatusPending)

	// an unapproved applicant is refused before the job is looked at
	_, err := svc.Apply(ctx, pending, 999)
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = svc.Apply(ctx, applicant, 999)
	assert.ErrorIs(t, err, apperror.ErrJobUnavailable)
	_, err = svc.Apply(ctx, applicant, draft.ID)
	assert.ErrorIs(t, err, apperror.ErrJobUnavailable)

	app, err := svc.Apply(ctx, applicant, open.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, app.Status)
	assert.Equal(t, open.ID, app.JobID)

	_, err = svc.Apply(ctx, applicant, open.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	// recruiters may apply too when approved
	_, err = svc.Apply(ctx, recruiter, open.ID)
	assert.NoError(t, err)
}

func TestConcurrentApplyCreatesOneRow(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	recruiter := testutil.CreateUser(t, db, "r@x.com", "pw", entity.RoleRecruiter, entity.StatusApproved)
	applicant := testutil.CreateUser(t, db, "a@x.com", "pw", entity.RoleUser, entity.StatusApproved)
	job := testutil.CreateJob(t, db, recruiter.ID, "Open", entity.StatusApproved)

	const attempts = 5
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Apply(ctx, applicant, job.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperror.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	require.NoError(t, db.Model(&entity.Application{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestListForJobAndApprove(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "o@x.com", "pw", entity.RoleRecruiter, entity.StatusApproved)
	rival := testutil.CreateUser(t, db, "r@x.com", "pw", entity.RoleRecruiter, entity.StatusApproved)
	applicant := testutil.CreateUser(t, db, "a@x.com", "pw", entity.RoleUser, entity.StatusApproved)
	job := testutil.CreateJob(t, db, owner.ID, "Open", entity.StatusApproved)
	app := testutil.CreateApplication(t, db, applicant.ID, job.ID, entity.StatusPending)

	_, err := svc.ListForJob(ctx, rival, job.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = svc.ListForJob(ctx, applicant, job.ID)
	assert.ErrorIs(t, err, apperror.ErrPrivilegeRequired)
	_, err = svc.ListForJob(ctx, owner, 999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	apps, err := svc.ListForJob(ctx, owner, job.ID)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, applicant.ID, apps[0].UserID)

	_, err = svc.Approve(ctx, rival, app.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = svc.Approve(ctx, owner, 999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	for i := 0; i < 2; i++ {
		status, err := svc.Approve(ctx, owner, app.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusApproved, status)
	}

	mine, err := svc.ListForUser(ctx, applicant)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, entity.StatusApproved, mine[0].Status)
}

func TestApplyThrottledPerJob(t *testing.T) {
	db := testutil.NewDB(t)
	throttle := &memoryThrottle{locks: map[string]bool{}}
	repo := repository.NewApplicationRepository(db)
	svc := newServiceWith(db, repo, Options{Throttle: throttle, ApplyWindow: time.Minute})
	ctx := context.Background()

	recruiter := testutil.CreateUser(t, db, "r@x.com", "pw", entity.RoleRecruiter, entity.StatusApproved)
	applicant := testutil.CreateUser(t, db, "a@x.com", "pw", entity.RoleUser, entity.StatusApproved)
	first := testutil.CreateJob(t, db, recruiter.ID, "First", entity.StatusApproved)
	second := testutil.CreateJob(t, db, recruiter.ID, "Second", entity.StatusApproved)
	third := testutil.CreateJob(t, db, recruiter.ID, "Third", entity.StatusApproved)

	_, err := svc.Apply(ctx, applicant, first.ID)
	require.NoError(t, err)
	_, err = svc.Apply(ctx, applicant, second.ID)
	require.NoError(t, err, "a different job has its own window")

	// a repeat is reported as a duplicate, not as throttled
	_, err = svc.Apply(ctx, applicant, first.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	// the window applies when the row is gone but the lock is not
	require.NoError(t, db.Where("job_id = ?", first.ID).Delete(&entity.Application{}).Error)
	_, err = svc.Apply(ctx, applicant, first.ID)
	assert.ErrorIs(t, err, apperror.ErrRateLimitExceeded)
	var limitErr *ratelimiter.RateLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, "apply", limitErr.Action)

	// a failed insert gives the window back
	broken := newServiceWith(db, failingCreate{repo}, Options{Throttle: throttle, ApplyWindow: time.Minute})
	_, err = broken.Apply(ctx, applicant, third.ID)
	require.Error(t, err)
	assert.Equal(t, []string{ratelimiter.Key(fmt.Sprintf("user:%d:job:%d", applicant.ID, third.ID), "apply")}, throttle.cleared)
	_, err = svc.Apply(ctx, applicant, third.ID)
	assert.NoError(t, err)
}

func TestApplyProceedsWhenThrottleIsDown(t *testing.T) {
	db := testutil.NewDB(t)
	throttle := &memoryThrottle{locks: map[string]bool{}, down: true}
	svc := newServiceWith(db, repository.NewApplicationRepository(db), Options{Throttle: throttle, ApplyWindow: time.Minute})

	recruiter := testutil.CreateUser(t, db, "r@x.com", "pw", entity.RoleRecruiter, entity.StatusApproved)
	applicant := testutil.CreateUser(t, db, "a@x.com", "pw", entity.RoleUser, entity.StatusApproved)
	job := testutil.CreateJob(t, db, recruiter.ID, "Open", entity.StatusApproved)

	_, err := svc.Apply(context.Background(), applicant, job.ID)
	assert.NoError(t, err)
}
