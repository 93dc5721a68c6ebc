package auth

import (
	"context"
	"errors"
	"strings"

	"anoa.com/jobboard/internal/entity"
	"anoa.com/jobboard/pkg/apperror"
	"anoa.com/jobboard/pkg/password"
)

// UserLookup is the part of the user store the authenticator needs.
type UserLookup interface {
	// FindByEmail returns apperror.ErrNotFound when no user has the address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

type AuthService interface {
	// Authenticate resolves email and password to a user. Unknown addresses and wrong
	// passwords fail identically.
	Authenticate(ctx context.Context, email, password string) (*entity.User, error)
	// AuthenticatePrivileged resolves an identifier that must belong to an approved
	// holder of role. The password is checked when supplied.
	AuthenticatePrivileged(ctx context.Context, email, password string, role entity.Role) (*entity.User, error)
	// Login is Authenticate plus the approval check used by the credential-check endpoint.
	Login(ctx context.Context, email, password string) (*entity.User, error)
}

type Options struct {
	// RequirePrivilegedPassword makes the password mandatory for privileged callers.
	RequirePrivilegedPassword bool
	// BcryptCost should match the cost stored hashes are made with.
	BcryptCost int
}

type authService struct {
	users UserLookup
	opts  Options
}

func NewAuthService(users UserLookup, opts Options) AuthService {
	return &authService{users: users, opts: opts}
}

func (s *authService) Authenticate(ctx context.Context, email, plain string) (*entity.User, error) {
	email = normalizeEmail(email)
	if email == "" || plain == "" {
		return nil, apperror.Wrap(apperror.ErrMissingCredentials, "Email and password required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			password.Burn(plain, s.opts.BcryptCost)
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if !password.Matches(user.PasswordHash, plain) {
		return nil, invalidCredentials()
	}
	return user, nil
}

func (s *authService) AuthenticatePrivileged(ctx context.Context, email, plain string, role entity.Role) (*entity.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperror.Wrap(apperror.ErrMissingParameter, "%s_email parameter is required", role)
	}
	if plain == "" && s.opts.RequirePrivilegedPassword {
		return nil, apperror.Wrap(apperror.ErrMissingParameter, "%s_password parameter is required", role)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			if plain != "" {
				password.Burn(plain, s.opts.BcryptCost)
			}
			return nil, privilegeRequired(role)
		}
		return nil, err
	}

	if plain != "" && !password.Matches(user.PasswordHash, plain) {
		return nil, privilegeRequired(role)
	}
	if err := RequireRole(user, role); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, plain string) (*entity.User, error) {
	user, err := s.Authenticate(ctx, email, plain)
	if err != nil {
		return nil, err
	}
	if !user.IsApproved() {
		return nil, apperror.Wrap(apperror.ErrPrivilegeRequired, "Pending approval")
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func invalidCredentials() error {
	return apperror.Wrap(apperror.ErrInvalidCredentials, "Invalid credentials")
}
