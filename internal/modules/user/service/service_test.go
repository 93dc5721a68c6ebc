package user

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"anoa.com/jobboard/internal/entity"
	"anoa.com/jobboard/internal/modules/user/dto"
	"anoa.com/jobboard/internal/modules/user/repository"
	"anoa.com/jobboard/internal/testutil"
	"anoa.com/jobboard/internal/workflow"
	"anoa.com/jobboard/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type recordingIndex struct {
	removed []uint
}

func (r *recordingIndex) IndexJob(context.Context, *entity.Job) error { return nil }

func (r *recordingIndex) RemoveJobs(_ context.Context, ids ...uint) error {
	r.removed = append(r.removed, ids...)
	return errors.New("index offline")
}

func (r *recordingIndex) SearchJobIDs(context.Context, string, int) ([]uint, error) {
	return nil, nil
}

type memoryStorage struct {
	uploads []string
	deleted []string
}

func (m *memoryStorage) Upload(_ context.Context, r io.Reader, folder, fileName string) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	url := "https://files.test/" + folder + "/" + fileName + "?" + string(body)
	m.uploads = append(m.uploads, url)
	return url, nil
}

func (m *memoryStorage) Delete(_ context.Context, fileURL string) error {
	m.deleted = append(m.deleted, fileURL)
	return nil
}

type fixture struct {
	db      *gorm.DB
	svc     UserService
	index   *recordingIndex
	storage *memoryStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	index := &recordingIndex{}
	store := &memoryStorage{}

	svc := NewUserService(
		repository.NewUserRepository(db),
		workflow.NewEngine(workflow.NewGormStore(db)),
		index,
		store,
		Options{BcryptCost: bcrypt.MinCost, ResumeFolder: "resumes"},
	)
	return &fixture{db: db, svc: svc, index: index, storage: store}
}

func registration(email string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:       email,
		Password:    "secret",
		FirstName:   " Ann ",
		LastName:    "Lee",
		DateOfBirth: "1995-02-03",
		Address:     "12 Main St",
	}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Register(ctx, registration("  Ann@Example.COM "))
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", created.Email)
	assert.Equal(t, "Ann", created.FirstName)
	assert.Equal(t, entity.RoleUser, created.Role)
	assert.Equal(t, entity.StatusPending, created.Status)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret")))

	_, err = f.svc.Register(ctx, registration("ann@example.com"))
	assert.ErrorIs(t, err, apperror.ErrConflict)

	blank := registration("b@x.com")
	blank.Address = "   "
	_, err = f.svc.Register(ctx, blank)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "All fields are required", err.Error())

	longDate := registration("c@x.com")
	longDate.DateOfBirth = "03 February 1995"
	_, err = f.svc.Register(ctx, longDate)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUpdateUserOnlyForSelfOrAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "o@x.com", "pw", entity.RoleUser, entity.StatusPending)
	other := testutil.CreateUser(t, f.db, "x@x.com", "pw", entity.RoleRecruiter, entity.StatusApproved)
	admin := testutil.CreateUser(t, f.db, "a@x.com", "pw", entity.RoleAdmin, entity.StatusApproved)

	summary := "<script>alert(1)</script>Backend developer"
	_, err := f.svc.UpdateUser(ctx, other, owner.ID, dto.UpdateUserRequest{Summary: &summary})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	updated, err := f.svc.UpdateUser(ctx, admin, owner.ID, dto.UpdateUserRequest{Summary: &summary})
	require.NoError(t, err)
	assert.Equal(t, "Backend developer", updated.Profile.Summary)
	assert.Equal(t, "Test", updated.FirstName)
}

func TestChangeRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	target := testutil.CreateUser(t, f.db, "t@x.com", "pw", entity.RoleUser, entity.StatusApproved)

	_, err := f.svc.ChangeRole(ctx, 999, "manager")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.svc.ChangeRole(ctx, target.ID, "Recruiter")
	assert.ErrorIs(t, err, apperror.ErrInvalidEnumValue)

	changed, err := f.svc.ChangeRole(ctx, target.ID, "recruiter")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleRecruiter, changed.Role)
}

func TestApproveUserIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	target := testutil.CreateUser(t, f.db, "t@x.com", "pw", entity.RoleUser, entity.StatusPending)

	for i := 0; i < 2; i++ {
		status, err := f.svc.ApproveUser(ctx, target.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusApproved, status)
	}

	_, err := f.svc.ApproveUser(ctx, 999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteUserCleansIndexAndResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	recruiter := testutil.CreateUser(t, f.db, "r@x.com", "pw", entity.RoleRecruiter, entity.StatusApproved)
	job := testutil.CreateJob(t, f.db, recruiter.ID, "Ops", entity.StatusApproved)

	resume := "https://files.test/resumes/cv.pdf"
	require.NoError(t, f.db.Model(&entity.Profile{UserID: recruiter.ID}).Update("resume_url", resume).Error)

	// index failures do not fail the delete
	require.NoError(t, f.svc.DeleteUser(ctx, recruiter.ID))
	assert.Equal(t, []uint{job.ID}, f.index.removed)
	assert.Equal(t, []string{resume}, f.storage.deleted)

	assert.ErrorIs(t, f.svc.DeleteUser(ctx, recruiter.ID), apperror.ErrNotFound)
}

func TestUploadResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "o@x.com", "pw", entity.RoleUser, entity.StatusApproved)
	other := testutil.CreateUser(t, f.db, "x@x.com", "pw", entity.RoleUser, entity.StatusApproved)

	_, err := f.svc.UploadResume(ctx, other, owner.ID, dto.ResumeFile{Reader: strings.NewReader("v1"), FileName: "cv.pdf"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	first, err := f.svc.UploadResume(ctx, owner, owner.ID, dto.ResumeFile{Reader: strings.NewReader("v1"), FileName: "cv.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "https://files.test/resumes/cv.pdf?v1", *first.Profile.ResumeURL)

	second, err := f.svc.UploadResume(ctx, owner, owner.ID, dto.ResumeFile{Reader: strings.NewReader("v2"), FileName: "cv.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "https://files.test/resumes/cv.pdf?v2", *second.Profile.ResumeURL)
	assert.Equal(t, []string{"https://files.test/resumes/cv.pdf?v1"}, f.storage.deleted)

	stored, err := f.svc.GetUser(ctx, owner, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, *second.Profile.ResumeURL, *stored.Profile.ResumeURL)
}

func TestUploadResumeWithoutStorage(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewUserService(repository.NewUserRepository(db), workflow.NewEngine(workflow.NewGormStore(db)), nil, nil, Options{})
	owner := testutil.CreateUser(t, db, "o@x.com", "pw", entity.RoleUser, entity.StatusApproved)

	_, err := svc.UploadResume(context.Background(), owner, owner.ID, dto.ResumeFile{Reader: strings.NewReader("x")})
	assert.ErrorIs(t, err, apperror.ErrStorageUnavailable)
}

func TestAccountFieldsLimitedToColumnSizes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	long := registration("long@x.com")
	long.FirstName = strings.Repeat("a", 200)
	_, err := f.svc.Register(ctx, long)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "first_name must be at most 80 characters", err.Error())

	long = registration("long@x.com")
	long.Address = strings.Repeat("b", 400)
	_, err = f.svc.Register(ctx, long)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	// multi-byte names are measured in characters
	accented := registration("accent@x.com")
	accented.FirstName = strings.Repeat("é", 80)
	_, err = f.svc.Register(ctx, accented)
	require.NoError(t, err)

	owner := testutil.CreateUser(t, f.db, "o@x.com", "pw", entity.RoleUser, entity.StatusApproved)
	lastName := strings.Repeat("c", 81)
	_, err = f.svc.UpdateUser(ctx, owner, owner.ID, dto.UpdateUserRequest{LastName: &lastName})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	stored, err := f.svc.GetUser(ctx, owner, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.LastName, stored.LastName)
}
