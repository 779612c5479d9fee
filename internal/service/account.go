package service

import (
	"context"
	"errors"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/repository"
)

// UpdateProfileInput carries the editable profile fields. Zero-valued fields
// are left untouched; Password, when set, goes through the reuse guard.
type UpdateProfileInput struct {
	FullName       string
	MobileNumber   string
	Address        string
	City           string
	ProfilePicture string
	Password       string
}

// AccountService covers profile reads and writes for the authenticated
// account plus the admin listings.
type AccountService struct {
	accounts repository.AccountRepository
	guard    *PasswordGuard
}

func NewAccountService(accounts repository.AccountRepository, guard *PasswordGuard) *AccountService {
	return &AccountService{accounts: accounts, guard: guard}
}

func (s *AccountService) Get(ctx context.Context, id uint) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

// Update applies the submitted profile fields. A password change keeps the
// same reuse policy as the OTP reset path.
func (s *AccountService) Update(ctx context.Context, id uint, in UpdateProfileInput) (*domain.Account, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FullName != "" {
		account.FullName = in.FullName
	}
	if in.MobileNumber != "" {
		account.MobileNumber = in.MobileNumber
	}
	if in.Address != "" {
		account.Address = in.Address
	}
	if in.City != "" {
		account.City = in.City
	}
	if in.ProfilePicture != "" {
		account.ProfilePicture = in.ProfilePicture
	}
	if in.Password != "" {
		if err := s.guard.Apply(account, in.Password); err != nil {
			return nil, err
		}
	}
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) Delete(ctx context.Context, id uint) error {
	err := s.accounts.Delete(ctx, id)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *AccountService) List(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.List(ctx)
}

func (s *AccountService) ListByRole(ctx context.Context, role string) ([]domain.Account, error) {
	return s.accounts.ListByRole(ctx, role)
}
