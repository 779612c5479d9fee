package repository

import (
	"context"
	"errors"
	"time"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/observability"

	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("booking not found")

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	List(ctx context.Context) ([]domain.Booking, error)
	ListByWebinar(ctx context.Context, webinarID uint) ([]domain.Booking, error)
	ListUpcomingByUser(ctx context.Context, userID uint, now time.Time) ([]domain.Booking, error)
	ListPastByUser(ctx context.Context, userID uint, now time.Time) ([]domain.Booking, error)
	Exists(ctx context.Context, userID, webinarID uint) (bool, error)
}

type GormBookingRepository struct{ db *gorm.DB }

func NewBookingRepository(db *gorm.DB) BookingRepository { return &GormBookingRepository{db: db} }

func (r *GormBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	err := r.db.WithContext(ctx).Create(booking).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "booking", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "booking", "create", "success")
	return nil
}

func (r *GormBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).Preload("Webinar").Order("id").Find(&bookings).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "booking", "list", "error")
		return bookings, err
	}
	observability.RecordRepositoryOperation(ctx, "booking", "list", "success")
	return bookings, nil
}

func (r *GormBookingRepository) ListByWebinar(ctx context.Context, webinarID uint) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).Where("webinar_id = ?", webinarID).Order("id").Find(&bookings).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "booking", "list_by_webinar", "error")
		return bookings, err
	}
	observability.RecordRepositoryOperation(ctx, "booking", "list_by_webinar", "success")
	return bookings, nil
}

func (r *GormBookingRepository) ListUpcomingByUser(ctx context.Context, userID uint, now time.Time) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).
		Joins("JOIN webinars ON webinars.id = bookings.webinar_id").
		Where("bookings.user_id = ? AND webinars.date >= ?", userID, now).
		Preload("Webinar.Host").
		Find(&bookings).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "booking", "list_upcoming_by_user", "error")
		return bookings, err
	}
	observability.RecordRepositoryOperation(ctx, "booking", "list_upcoming_by_user", "success")
	return bookings, nil
}

func (r *GormBookingRepository) ListPastByUser(ctx context.Context, userID uint, now time.Time) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).
		Joins("JOIN webinars ON webinars.id = bookings.webinar_id").
		Where("bookings.user_id = ? AND webinars.date < ?", userID, now).
		Preload("Webinar.Host").
		Find(&bookings).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "booking", "list_past_by_user", "error")
		return bookings, err
	}
	observability.RecordRepositoryOperation(ctx, "booking", "list_past_by_user", "success")
	return bookings, nil
}

func (r *GormBookingRepository) Exists(ctx context.Context, userID, webinarID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("user_id = ? AND webinar_id = ?", userID, webinarID).
		Count(&count).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "booking", "exists", "error")
		return false, err
	}
	observability.RecordRepositoryOperation(ctx, "booking", "exists", "success")
	return count > 0, nil
}
