package user

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"anoa.com/jobboard/internal/entity"
	auth "anoa.com/jobboard/internal/modules/auth/service"
	search "anoa.com/jobboard/internal/modules/search/service"
	"anoa.com/jobboard/internal/modules/user/dto"
	"anoa.com/jobboard/internal/modules/user/repository"
	"anoa.com/jobboard/internal/workflow"
	"anoa.com/jobboard/pkg/apperror"
	"anoa.com/jobboard/pkg/logger"
	"anoa.com/jobboard/pkg/password"
	"anoa.com/jobboard/pkg/storage"
	"anoa.com/jobboard/pkg/textutil"
	"anoa.com/jobboard/pkg/validator"
)

type UserService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*entity.User, error)
	GetUser(ctx context.Context, principal *entity.User, id uint) (*entity.User, error)
	UpdateUser(ctx context.Context, principal *entity.User, id uint, req dto.UpdateUserRequest) (*entity.User, error)
	ListUsers(ctx context.Context, filter dto.UserFilter) ([]*entity.User, error)
	ApproveUser(ctx context.Context, id uint) (entity.Status, error)
	ChangeRole(ctx context.Context, id uint, role string) (*entity.User, error)
	DeleteUser(ctx context.Context, id uint) error
	UploadResume(ctx context.Context, principal *entity.User, id uint, file dto.ResumeFile) (*entity.User, error)
}

const (
	maxNameLength    = 80
	maxDateLength    = 10
	maxAddressLength = 255
)

type Options struct {
	BcryptCost   int
	ResumeFolder string
}

type userService struct {
	repo     repository.UserRepository
	workflow *workflow.Engine
	index    search.JobIndex
	storage  storage.FileStorage
	opts     Options
}

// NewUserService wires the user service. fileStorage may be nil, in which case résumé
// uploads are refused.
func NewUserService(repo repository.UserRepository, engine *workflow.Engine, index search.JobIndex, fileStorage storage.FileStorage, opts Options) UserService {
	if index == nil {
		index = search.NoopIndex{}
	}
	return &userService{
		repo:     repo,
		workflow: engine,
		index:    index,
		storage:  fileStorage,
		opts:     opts,
	}
}

func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*entity.User, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	dateOfBirth := strings.TrimSpace(req.DateOfBirth)
	address := strings.TrimSpace(req.Address)

	if req.Email == "" || req.Password == "" || firstName == "" || lastName == "" || dateOfBirth == "" || address == "" {
		return nil, apperror.Wrap(apperror.ErrValidation, "All fields are required")
	}
	if err := checkLengths(firstName, lastName, dateOfBirth, address); err != nil {
		return nil, err
	}

	email, err := validator.NormalizeEmail(req.Email)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrValidation, "%s", err.Error())
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperror.Wrap(apperror.ErrConflict, "Email already registered")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	hash, err := password.Hash(req.Password, s.opts.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		DateOfBirth:  dateOfBirth,
		Address:      address,
		Role:         entity.RoleUser,
		Status:       entity.StatusPending,
		Profile:      &entity.Profile{},
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Uint("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, principal *entity.User, id uint) (*entity.User, error) {
	if err := auth.RequireSelfOrAdmin(principal, id); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *userService) UpdateUser(ctx context.Context, principal *entity.User, id uint, req dto.UpdateUserRequest) (*entity.User, error) {
	if err := auth.RequireSelfOrAdmin(principal, id); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Profile == nil {
		user.Profile = &entity.Profile{UserID: user.ID}
	}

	assignTrimmed(&user.FirstName, req.FirstName)
	assignTrimmed(&user.LastName, req.LastName)
	assignTrimmed(&user.DateOfBirth, req.DateOfBirth)
	assignTrimmed(&user.Address, req.Address)
	if err := checkLengths(user.FirstName, user.LastName, user.DateOfBirth, user.Address); err != nil {
		return nil, err
	}

	assignClean(&user.Profile.Summary, req.Summary)
	assignClean(&user.Profile.Skills, req.Skills)
	assignClean(&user.Profile.Education, req.Education)
	assignClean(&user.Profile.Experience, req.Experience)

	if err := s.repo.UpdateAccount(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, filter dto.UserFilter) ([]*entity.User, error) {
	var listFilter repository.ListFilter

	if filter.Status != "" {
		status, err := entity.ParseStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		listFilter.Status = status
	}
	if filter.Role != "" {
		role, err := entity.ParseRole(filter.Role)
		if err != nil {
			return nil, err
		}
		listFilter.Role = role
	}

	return s.repo.FindAll(ctx, listFilter)
}

func (s *userService) ApproveUser(ctx context.Context, id uint) (entity.Status, error) {
	res, err := s.workflow.Approve(ctx, entity.LifecycleUser, id)
	if err != nil {
		return "", err
	}
	return res.Status, nil
}

// ChangeRole looks the user up before parsing the role, so a missing user wins over a bad value.
func (s *userService) ChangeRole(ctx context.Context, id uint, rawRole string) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := entity.ParseRole(rawRole)
	if err != nil {
		return nil, err
	}

	if role != user.Role {
		if err := s.repo.UpdateRole(ctx, id, role); err != nil {
			return nil, err
		}
		logger.Info().Uint("user_id", id).Str("from", user.Role.String()).Str("to", role.String()).Msg("role changed")
		user.Role = role
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	jobIDs, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	if len(jobIDs) > 0 {
		if err := s.index.RemoveJobs(ctx, jobIDs...); err != nil {
			logger.Warn().Err(err).Uint("user_id", id).Msg("failed to remove deleted user's jobs from index")
		}
	}

	if user.Profile != nil && user.Profile.ResumeURL != nil && s.storage != nil {
		if err := s.storage.Delete(ctx, *user.Profile.ResumeURL); err != nil {
			logger.Warn().Err(err).Uint("user_id", id).Msg("failed to delete resume file")
		}
	}

	logger.Info().Uint("user_id", id).Int("jobs_removed", len(jobIDs)).Msg("user deleted")
	return nil
}

func (s *userService) UploadResume(ctx context.Context, principal *entity.User, id uint, file dto.ResumeFile) (*entity.User, error) {
	if err := auth.RequireSelfOrAdmin(principal, id); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, apperror.ErrStorageUnavailable
	}
	if file.Reader == nil {
		return nil, apperror.Wrap(apperror.ErrMissingParameter, "resume file is required")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.Upload(ctx, file.Reader, s.opts.ResumeFolder, file.FileName)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetResumeURL(ctx, id, &url); err != nil {
		return nil, err
	}

	if user.Profile != nil && user.Profile.ResumeURL != nil {
		if err := s.storage.Delete(ctx, *user.Profile.ResumeURL); err != nil {
			logger.Warn().Err(err).Uint("user_id", id).Msg("failed to delete previous resume")
		}
	}

	if user.Profile == nil {
		user.Profile = &entity.Profile{UserID: id}
	}
	user.Profile.ResumeURL = &url
	return user, nil
}

// checkLengths keeps account fields within their column sizes.
func checkLengths(firstName, lastName, dateOfBirth, address string) error {
	limits := []struct {
		field string
		value string
		max   int
	}{
		{"first_name", firstName, maxNameLength},
		{"last_name", lastName, maxNameLength},
		{"date_of_birth", dateOfBirth, maxDateLength},
		{"address", address, maxAddressLength},
	}
	for _, l := range limits {
		if utf8.RuneCountInString(l.value) > l.max {
			return apperror.Wrap(apperror.ErrValidation, "%s must be at most %d characters", l.field, l.max)
		}
	}
	return nil
}

func assignTrimmed(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}

func assignClean(dst *string, value *string) {
	if value != nil {
		*dst = textutil.StripTags(*value)
	}
}
