package domain

import "time"

type Host struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	FullName         string    `gorm:"size:128;not null" json:"fullName"`
	Bio              string    `gorm:"size:2048;not null" json:"bio"`
	Email            string    `gorm:"size:256;uniqueIndex;not null" json:"email"`
	Expertise        []string  `gorm:"serializer:json" json:"expertise"`
	SocialMediaLinks []string  `gorm:"serializer:json" json:"socialMediaLinks"`
	ProfilePicture   string    `gorm:"size:256;default:default_profile_img.png" json:"profilePicture"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Webinar struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:256;not null" json:"title"`
	Subtitle     string    `gorm:"size:256;not null" json:"subtitle"`
	Category     string    `gorm:"size:64;index;not null" json:"category"`
	Level        string    `gorm:"size:32;not null" json:"level"`
	Language     string    `gorm:"size:32;not null" json:"language"`
	Date         time.Time `gorm:"index;not null" json:"date"`
	StartTime    string    `gorm:"size:16;not null" json:"startTime"`
	EndTime      string    `gorm:"size:16" json:"endTime"`
	TotalSeats   *int      `json:"totalSeats"`
	BookedSeats  int       `gorm:"not null;default:0" json:"bookedSeats"`
	WebinarPhoto string    `gorm:"size:256" json:"webinarPhoto"`
	HostID       uint      `gorm:"index;not null" json:"hostId"`
	Host         *Host     `gorm:"foreignKey:HostID" json:"host,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Full reports whether every seat is taken. Webinars without a seat cap are
// never full.
func (w *Webinar) Full() bool {
	return w.TotalSeats != nil && w.BookedSeats >= *w.TotalSeats
}

// WebinarDetails is the denormalized snapshot embedded in a booking so the
// booking survives webinar edits and deletions.
type WebinarDetails struct {
	WebinarPhoto string    `json:"webinarPhoto"`
	Title        string    `json:"title"`
	Level        string    `json:"level"`
	Language     string    `json:"language"`
	Date         time.Time `json:"date"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	HostFullName string    `json:"hostFullName"`
}

type Booking struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"index;not null" json:"userId"`
	WebinarID      uint           `gorm:"index;not null" json:"webinarId"`
	Webinar        *Webinar       `gorm:"foreignKey:WebinarID" json:"webinar,omitempty"`
	WebinarDetails WebinarDetails `gorm:"serializer:json" json:"webinarDetails"`
	CreatedAt      time.Time      `json:"created_at"`
}

// UserLog is one audit row for an authenticated user action, including login
// attempts recorded by the auth service.
type UserLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Method    string    `gorm:"size:16;not null" json:"method"`
	URL       string    `gorm:"size:512;not null" json:"url"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}
