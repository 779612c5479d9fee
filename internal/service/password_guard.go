package service

import (
	"time"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/security"
)

// PasswordGuard enforces the reuse policy: a new password may not verify
// against any retained prior hash. It applies uniformly to profile password
// changes and OTP resets.
type PasswordGuard struct {
	hasher *security.PasswordHasher
	now    func() time.Time
}

func NewPasswordGuard(hasher *security.PasswordHasher) *PasswordGuard {
	return &PasswordGuard{hasher: hasher, now: time.Now}
}

// AssertNotReused fails with ErrPasswordReused when any stored hash verifies
// the candidate plaintext.
func (g *PasswordGuard) AssertNotReused(candidate string, history []string) error {
	for _, prior := range history {
		match, err := g.hasher.Verify(prior, candidate)
		if err != nil {
			return err
		}
		if match {
			return ErrPasswordReused
		}
	}
	return nil
}

// Apply runs the reuse check and, on acceptance, installs the new hash on
// the account: prepends it to the history, truncates to the retained depth
// and stamps passwordChangedAt. The caller persists the account.
func (g *PasswordGuard) Apply(account *domain.Account, newPassword string) error {
	if err := g.AssertNotReused(newPassword, account.PasswordHistory); err != nil {
		return err
	}
	hash, err := g.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	account.PushPasswordHistory(hash)
	account.PasswordChangedAt = g.now().UTC()
	return nil
}
