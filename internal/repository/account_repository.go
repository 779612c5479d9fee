package repository

import (
	"context"
	"errors"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/observability"

	"gorm.io/gorm"
)

var ErrAccountNotFound = errors.New("account not found")

// AccountRepository is the credential store. Mutations of the lockout
// counters, OTP fields and password history are plain read-modify-write
// updates with no per-account locking; concurrent attempts can undercount,
// an accepted risk of the design.
type AccountRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]domain.Account, error)
	ListByRole(ctx context.Context, role string) ([]domain.Account, error)
}

type GormAccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) AccountRepository { return &GormAccountRepository{db: db} }

func (r *GormAccountRepository) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	var a domain.Account
	err := r.db.WithContext(ctx).First(&a, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "account", "find_by_id", "not_found")
			return nil, ErrAccountNotFound
		}
		observability.RecordRepositoryOperation(ctx, "account", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "account", "find_by_id", "success")
	return &a, nil
}

func (r *GormAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var a domain.Account
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "account", "find_by_email", "not_found")
			return nil, ErrAccountNotFound
		}
		observability.RecordRepositoryOperation(ctx, "account", "find_by_email", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "account", "find_by_email", "success")
	return &a, nil
}

func (r *GormAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	err := r.db.WithContext(ctx).Create(account).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "account", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "account", "create", "success")
	return nil
}

func (r *GormAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	err := r.db.WithContext(ctx).Save(account).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "account", "update", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "account", "update", "success")
	return nil
}

func (r *GormAccountRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Account{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "account", "delete", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "account", "delete", "not_found")
		return ErrAccountNotFound
	}
	observability.RecordRepositoryOperation(ctx, "account", "delete", "success")
	return nil
}

func (r *GormAccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	err := r.db.WithContext(ctx).Order("id").Find(&accounts).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "account", "list", "error")
		return accounts, err
	}
	observability.RecordRepositoryOperation(ctx, "account", "list", "success")
	return accounts, nil
}

func (r *GormAccountRepository) ListByRole(ctx context.Context, role string) ([]domain.Account, error) {
	var accounts []domain.Account
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("id").Find(&accounts).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "account", "list_by_role", "error")
		return accounts, err
	}
	observability.RecordRepositoryOperation(ctx, "account", "list_by_role", "success")
	return accounts, nil
}
