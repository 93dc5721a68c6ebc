package auth

import (
	"strings"

	"anoa.com/jobboard/internal/entity"
	"anoa.com/jobboard/pkg/apperror"
)

// RequireRole allows approved holders of role.
func RequireRole(principal *entity.User, role entity.Role) error {
	if principal == nil || principal.Role != role || !principal.IsApproved() {
		return privilegeRequired(role)
	}
	return nil
}

// RequireApproved allows any approved principal.
func RequireApproved(principal *entity.User) error {
	if principal == nil || !principal.IsApproved() {
		return apperror.Wrap(apperror.ErrInvalidCredentials, "Invalid user credentials")
	}
	return nil
}

// RequireSelfOrAdmin allows the target user themself and any admin.
func RequireSelfOrAdmin(principal *entity.User, targetUserID uint) error {
	if principal == nil {
		return invalidCredentials()
	}
	if principal.ID == targetUserID || principal.IsAdmin() {
		return nil
	}
	return unauthorized()
}

// RequireResourceOwner allows the user referenced by the resource's owning key.
func RequireResourceOwner(principal *entity.User, ownerID uint) error {
	if principal == nil {
		return invalidCredentials()
	}
	if principal.ID != ownerID {
		return unauthorized()
	}
	return nil
}

func privilegeRequired(role entity.Role) error {
	name := string(role)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return apperror.Wrap(apperror.ErrPrivilegeRequired, "%s privileges required", name)
}

func unauthorized() error {
	return apperror.Wrap(apperror.ErrForbidden, "Unauthorized access")
}
