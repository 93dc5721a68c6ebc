package entity

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"anoa.com/jobboard/pkg/apperror"
)

// Role is persisted as its string tag.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleRecruiter Role = "recruiter"
)

var roles = []Role{RoleUser, RoleAdmin, RoleRecruiter}

// ParseRole accepts exactly one of the role tags, surrounding whitespace ignored.
func ParseRole(raw string) (Role, error) {
	value := Role(strings.TrimSpace(raw))
	for _, r := range roles {
		if value == r {
			return r, nil
		}
	}
	return "", apperror.Wrap(apperror.ErrInvalidEnumValue, "invalid role %q: must be one of user, admin, recruiter", raw)
}

func (r Role) String() string { return string(r) }

func (r Role) Value() (driver.Value, error) { return string(r), nil }

// Status is shared by users, jobs and applications.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

func ParseStatus(raw string) (Status, error) {
	switch value := Status(strings.TrimSpace(raw)); value {
	case StatusPending, StatusApproved:
		return value, nil
	}
	return "", apperror.Wrap(apperror.ErrInvalidEnumValue, "invalid status %q: must be one of pending, approved", raw)
}

func (s Status) String() string { return string(s) }

func (s Status) Value() (driver.Value, error) { return string(s), nil }

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// The only edge is pending to approved.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && next == StatusApproved
}

// Lifecycle names one of the three approval workflows.
type Lifecycle string

const (
	LifecycleUser        Lifecycle = "user"
	LifecycleJob         Lifecycle = "job"
	LifecycleApplication Lifecycle = "application"
)

func (l Lifecycle) String() string { return string(l) }

// Table returns the table holding the lifecycle's status column.
func (l Lifecycle) Table() string {
	switch l {
	case LifecycleUser:
		return "users"
	case LifecycleJob:
		return "jobs"
	case LifecycleApplication:
		return "applications"
	}
	panic(fmt.Sprintf("entity: unknown lifecycle %q", string(l)))
}
