package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// MaxPasswordHistory is the number of prior password hashes retained per
// account. New hashes are prepended; anything beyond this depth is dropped.
const MaxPasswordHistory = 5

// Account is the single credential record for both end users and admins.
// Role discriminates the two kinds; admin accounts leave the profile fields
// empty.
type Account struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	FullName            string     `gorm:"size:128" json:"fullName"`
	MobileNumber        string     `gorm:"size:32" json:"mobileNumber"`
	Address             string     `gorm:"size:256" json:"address"`
	City                string     `gorm:"size:64" json:"city"`
	Email               string     `gorm:"size:256;uniqueIndex;not null" json:"email"`
	PasswordHash        string     `gorm:"size:128;not null" json:"-"`
	Role                string     `gorm:"size:16;not null;default:user" json:"role"`
	ProfilePicture      string     `gorm:"size:256;default:default_profile_img.png" json:"profilePicture"`
	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	LockUntil           *time.Time `json:"-"`
	PasswordHistory     []string   `gorm:"serializer:json" json:"-"`
	PasswordChangedAt   time.Time  `json:"-"`
	OTP                 *string    `gorm:"size:8" json:"-"`
	OTPExpiresAt        *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (a *Account) IsAdmin() bool { return a.Role == RoleAdmin }

// Locked reports whether the account is under an active lockout window.
func (a *Account) Locked(now time.Time) bool {
	return a.LockUntil != nil && a.LockUntil.After(now)
}

// ClearOTP drops the outstanding one-time code, if any.
func (a *Account) ClearOTP() {
	a.OTP = nil
	a.OTPExpiresAt = nil
}

// PushPasswordHistory prepends hash and truncates to MaxPasswordHistory.
func (a *Account) PushPasswordHistory(hash string) {
	a.PasswordHistory = append([]string{hash}, a.PasswordHistory...)
	if len(a.PasswordHistory) > MaxPasswordHistory {
		a.PasswordHistory = a.PasswordHistory[:MaxPasswordHistory]
	}
}
