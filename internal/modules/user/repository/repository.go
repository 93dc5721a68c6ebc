package repository

import (
	"context"
	"fmt"

	"anoa.com/jobboard/internal/entity"
	"anoa.com/jobboard/pkg/apperror"
	"anoa.com/jobboard/pkg/database"
	"gorm.io/gorm"
)

// ListFilter narrows FindAll; zero values match everything.
type ListFilter struct {
	Status entity.Status
	Role   entity.Role
}

type UserRepository interface {
	// Create inserts the user and its profile in one transaction.
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uint) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAll(ctx context.Context, filter ListFilter) ([]*entity.User, error)
	// UpdateAccount writes the editable user fields and the profile together.
	UpdateAccount(ctx context.Context, user *entity.User) error
	UpdateRole(ctx context.Context, id uint, role entity.Role) error
	SetResumeURL(ctx context.Context, userID uint, url *string) error
	// Delete removes the user with everything that depends on it and returns the ids
	// of the jobs that went with it.
	Delete(ctx context.Context, id uint) ([]uint, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	if user.Profile == nil {
		user.Profile = &entity.Profile{}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})
	if database.IsUniqueViolation(err) {
		return apperror.Wrap(apperror.ErrConflict, "Email already registered")
	}
	return err
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context, filter ListFilter) ([]*entity.User, error) {
	var users []*entity.User
	query := r.db.WithContext(ctx).Preload("Profile").Order("id")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateAccount(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.User{ID: user.ID}).
			Select("first_name", "last_name", "date_of_birth", "address", "updated_at").
			Updates(user).Error; err != nil {
			return err
		}

		if user.Profile == nil {
			return nil
		}
		user.Profile.UserID = user.ID

		result := tx.Model(&entity.Profile{UserID: user.ID}).
			Select("summary", "skills", "education", "experience", "updated_at").
			Updates(user.Profile)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return tx.Create(user.Profile).Error
		}
		return nil
	})
}

func (r *userRepository) UpdateRole(ctx context.Context, id uint, role entity.Role) error {
	result := r.db.WithContext(ctx).Model(&entity.User{ID: id}).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.Wrap(apperror.ErrNotFound, "User not found")
	}
	return nil
}

func (r *userRepository) SetResumeURL(ctx context.Context, userID uint, url *string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Profile{UserID: userID}).Update("resume_url", url)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return tx.Create(&entity.Profile{UserID: userID, ResumeURL: url}).Error
		}
		return nil
	})
}

func (r *userRepository) Delete(ctx context.Context, id uint) ([]uint, error) {
	var jobIDs []uint

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user entity.User
		if err := tx.Select("id").First(&user, id).Error; err != nil {
			return notFound(err)
		}

		if err := tx.Model(&entity.Job{}).Where("recruiter_id = ?", id).Pluck("id", &jobIDs).Error; err != nil {
			return err
		}
		if len(jobIDs) > 0 {
			if err := tx.Where("job_id IN ?", jobIDs).Delete(&entity.Application{}).Error; err != nil {
				return fmt.Errorf("delete applications to owned jobs: %w", err)
			}
			if err := tx.Where("id IN ?", jobIDs).Delete(&entity.Job{}).Error; err != nil {
				return fmt.Errorf("delete owned jobs: %w", err)
			}
		}

		if err := tx.Where("user_id = ?", id).Delete(&entity.Application{}).Error; err != nil {
			return fmt.Errorf("delete applications: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&entity.Profile{}).Error; err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		return tx.Delete(&entity.User{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return jobIDs, nil
}

func notFound(err error) error {
	if database.IsNotFound(err) {
		return apperror.Wrap(apperror.ErrNotFound, "User not found")
	}
	return err
}
