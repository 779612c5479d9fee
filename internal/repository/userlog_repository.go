package repository

import (
	"context"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/observability"

	"gorm.io/gorm"
)

type UserLogRepository interface {
	Create(ctx context.Context, log *domain.UserLog) error
	List(ctx context.Context) ([]domain.UserLog, error)
}

type GormUserLogRepository struct{ db *gorm.DB }

func NewUserLogRepository(db *gorm.DB) UserLogRepository { return &GormUserLogRepository{db: db} }

func (r *GormUserLogRepository) Create(ctx context.Context, log *domain.UserLog) error {
	err := r.db.WithContext(ctx).Create(log).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "user_log", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "user_log", "create", "success")
	return nil
}

func (r *GormUserLogRepository) List(ctx context.Context) ([]domain.UserLog, error) {
	var logs []domain.UserLog
	err := r.db.WithContext(ctx).Order("timestamp DESC").Find(&logs).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "user_log", "list", "error")
		return logs, err
	}
	observability.RecordRepositoryOperation(ctx, "user_log", "list", "success")
	return logs, nil
}
