package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/mail"
	"github.com/webinara/webinara-backend/internal/observability"
	"github.com/webinara/webinara-backend/internal/repository"
)

// BookingService books seats and answers the per-user booking queries. A
// booking embeds a snapshot of the webinar so history survives edits and the
// retention sweep.
type BookingService struct {
	bookings repository.BookingRepository
	webinars repository.WebinarRepository
	accounts repository.AccountRepository
	mailer   mail.Mailer
	logger   *slog.Logger
	now      func() time.Time
}

func NewBookingService(
	bookings repository.BookingRepository,
	webinars repository.WebinarRepository,
	accounts repository.AccountRepository,
	mailer mail.Mailer,
	logger *slog.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		webinars: webinars,
		accounts: accounts,
		mailer:   mailer,
		logger:   logger,
		now:      time.Now,
	}
}

// Book reserves a seat. The seat check and counter bump are read-modify-write
// on the webinar row; the snapshot is taken at booking time.
func (s *BookingService) Book(ctx context.Context, userID, webinarID uint) (*domain.Booking, error) {
	webinar, err := s.webinars.FindByID(ctx, webinarID)
	if err != nil {
		if errors.Is(err, repository.ErrWebinarNotFound) {
			observability.RecordBookingEvent("not_found")
			return nil, ErrNotFound
		}
		return nil, err
	}

	booked, err := s.bookings.Exists(ctx, userID, webinarID)
	if err != nil {
		return nil, err
	}
	if booked {
		observability.RecordBookingEvent("duplicate")
		return nil, ErrAlreadyBooked
	}
	if webinar.Full() {
		observability.RecordBookingEvent("full")
		return nil, ErrSeatsFull
	}

	hostName := ""
	if webinar.Host != nil {
		hostName = webinar.Host.FullName
	}
	booking := &domain.Booking{
		UserID:    userID,
		WebinarID: webinarID,
		WebinarDetails: domain.WebinarDetails{
			WebinarPhoto: webinar.WebinarPhoto,
			Title:        webinar.Title,
			Level:        webinar.Level,
			Language:     webinar.Language,
			Date:         webinar.Date,
			StartTime:    webinar.StartTime,
			EndTime:      webinar.EndTime,
			HostFullName: hostName,
		},
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		observability.RecordBookingEvent("error")
		return nil, err
	}

	webinar.BookedSeats++
	if err := s.webinars.Update(ctx, webinar); err != nil {
		return nil, err
	}

	s.sendConfirmation(ctx, userID, webinar)
	observability.RecordBookingEvent("success")
	return booking, nil
}

// HasBooking answers the pre-booking check the client runs before showing
// the book button.
func (s *BookingService) HasBooking(ctx context.Context, userID, webinarID uint) (bool, error) {
	return s.bookings.Exists(ctx, userID, webinarID)
}

func (s *BookingService) Upcoming(ctx context.Context, userID uint) ([]domain.Booking, error) {
	return s.bookings.ListUpcomingByUser(ctx, userID, s.now().UTC())
}

func (s *BookingService) Past(ctx context.Context, userID uint) ([]domain.Booking, error) {
	return s.bookings.ListPastByUser(ctx, userID, s.now().UTC())
}

func (s *BookingService) List(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.List(ctx)
}

func (s *BookingService) ListByWebinar(ctx context.Context, webinarID uint) ([]domain.Booking, error) {
	return s.bookings.ListByWebinar(ctx, webinarID)
}

func (s *BookingService) sendConfirmation(ctx context.Context, userID uint, webinar *domain.Webinar) {
	account, err := s.accounts.FindByID(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "booking confirmation lookup failed", "user_id", userID, "error", err)
		return
	}
	body := mail.BookingConfirmationBody(webinar.Title, webinar.Date.Format("02 Jan 2006"), webinar.StartTime, webinar.EndTime)
	if err := s.mailer.Send(ctx, account.Email, "Booking Confirmation", body); err != nil {
		s.logger.ErrorContext(ctx, "booking confirmation mail failed", "email", account.Email, "error", err)
	}
}

// WithClock overrides the time source for date-window tests.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}
