package workflow

import (
	"context"
	"time"

	"anoa.com/jobboard/internal/entity"
	"anoa.com/jobboard/pkg/apperror"
	"gorm.io/gorm"
)

type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns a StatusStore over the users, jobs and applications tables.
func NewGormStore(db *gorm.DB) StatusStore {
	return &gormStore{db: db}
}

func (s *gormStore) CompareAndSetStatus(ctx context.Context, lifecycle entity.Lifecycle, id uint, from, to entity.Status) (bool, error) {
	result := s.db.WithContext(ctx).
		Table(lifecycle.Table()).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (s *gormStore) CurrentStatus(ctx context.Context, lifecycle entity.Lifecycle, id uint) (entity.Status, error) {
	var statuses []string
	err := s.db.WithContext(ctx).
		Table(lifecycle.Table()).
		Where("id = ?", id).
		Limit(1).
		Pluck("status", &statuses).Error
	if err != nil {
		return "", err
	}
	if len(statuses) == 0 {
		return "", apperror.Wrap(apperror.ErrNotFound, "%s not found", lifecycle)
	}
	return entity.Status(statuses[0]), nil
}
