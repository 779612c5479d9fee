package repository

import (
	"context"
	"errors"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/observability"

	"gorm.io/gorm"
)

type HostRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Host, error)
	Create(ctx context.Context, host *domain.Host) error
	Update(ctx context.Context, host *domain.Host) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]domain.Host, error)
}

type GormHostRepository struct{ db *gorm.DB }

func NewHostRepository(db *gorm.DB) HostRepository { return &GormHostRepository{db: db} }

func (r *GormHostRepository) FindByID(ctx context.Context, id uint) (*domain.Host, error) {
	var h domain.Host
	err := r.db.WithContext(ctx).First(&h, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "host", "find_by_id", "not_found")
			return nil, ErrHostNotFound
		}
		observability.RecordRepositoryOperation(ctx, "host", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "host", "find_by_id", "success")
	return &h, nil
}

func (r *GormHostRepository) Create(ctx context.Context, host *domain.Host) error {
	err := r.db.WithContext(ctx).Create(host).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "host", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "host", "create", "success")
	return nil
}

func (r *GormHostRepository) Update(ctx context.Context, host *domain.Host) error {
	err := r.db.WithContext(ctx).Save(host).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "host", "update", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "host", "update", "success")
	return nil
}

func (r *GormHostRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Host{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "host", "delete", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "host", "delete", "not_found")
		return ErrHostNotFound
	}
	observability.RecordRepositoryOperation(ctx, "host", "delete", "success")
	return nil
}

func (r *GormHostRepository) List(ctx context.Context) ([]domain.Host, error) {
	var hosts []domain.Host
	err := r.db.WithContext(ctx).Order("id").Find(&hosts).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "host", "list", "error")
		return hosts, err
	}
	observability.RecordRepositoryOperation(ctx, "host", "list", "success")
	return hosts, nil
}
