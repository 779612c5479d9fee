package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/repository"
)

// WebinarService covers the webinar catalog and its host directory. Reads
// are public; mutations sit behind the admin routes.
type WebinarService struct {
	webinars repository.WebinarRepository
	hosts    repository.HostRepository
	now      func() time.Time
}

func NewWebinarService(webinars repository.WebinarRepository, hosts repository.HostRepository) *WebinarService {
	return &WebinarService{webinars: webinars, hosts: hosts, now: time.Now}
}

func (s *WebinarService) Get(ctx context.Context, id uint) (*domain.Webinar, error) {
	w, err := s.webinars.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrWebinarNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return w, nil
}

// Create validates the host reference before inserting.
func (s *WebinarService) Create(ctx context.Context, webinar *domain.Webinar) error {
	if _, err := s.hosts.FindByID(ctx, webinar.HostID); err != nil {
		if errors.Is(err, repository.ErrHostNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.webinars.Create(ctx, webinar)
}

func (s *WebinarService) Update(ctx context.Context, webinar *domain.Webinar) error {
	if _, err := s.Get(ctx, webinar.ID); err != nil {
		return err
	}
	return s.webinars.Update(ctx, webinar)
}

func (s *WebinarService) Delete(ctx context.Context, id uint) error {
	err := s.webinars.Delete(ctx, id)
	if errors.Is(err, repository.ErrWebinarNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *WebinarService) List(ctx context.Context) ([]domain.Webinar, error) {
	return s.webinars.List(ctx)
}

// Upcoming is the home-page listing: webinars dated today or later.
func (s *WebinarService) Upcoming(ctx context.Context) ([]domain.Webinar, error) {
	return s.webinars.ListUpcoming(ctx, s.now().UTC())
}

func (s *WebinarService) UpcomingByCategory(ctx context.Context, category string) ([]domain.Webinar, error) {
	return s.webinars.ListUpcomingByCategory(ctx, category, s.now().UTC())
}

// Filter narrows upcoming webinars by optional category, level and language
// facets. Empty facets match everything.
func (s *WebinarService) Filter(ctx context.Context, category, level, language string) ([]domain.Webinar, error) {
	upcoming, err := s.webinars.ListUpcoming(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}
	filtered := make([]domain.Webinar, 0, len(upcoming))
	for _, w := range upcoming {
		if category != "" && !strings.EqualFold(w.Category, category) {
			continue
		}
		if level != "" && !strings.EqualFold(w.Level, level) {
			continue
		}
		if language != "" && !strings.EqualFold(w.Language, language) {
			continue
		}
		filtered = append(filtered, w)
	}
	return filtered, nil
}

// Search splits the query into whitespace-separated keywords, each matched
// case-insensitively against title, category and level of upcoming webinars.
func (s *WebinarService) Search(ctx context.Context, query string) ([]domain.Webinar, error) {
	keywords := strings.Fields(strings.ToLower(query))
	if len(keywords) == 0 {
		return s.Upcoming(ctx)
	}
	return s.webinars.Search(ctx, keywords, s.now().UTC())
}

// CheckFull reports whether every seat of the webinar is booked.
func (s *WebinarService) CheckFull(ctx context.Context, id uint) (bool, error) {
	w, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return w.Full(), nil
}

// Host directory.

func (s *WebinarService) GetHost(ctx context.Context, id uint) (*domain.Host, error) {
	h, err := s.hosts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHostNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return h, nil
}

func (s *WebinarService) CreateHost(ctx context.Context, host *domain.Host) error {
	return s.hosts.Create(ctx, host)
}

func (s *WebinarService) UpdateHost(ctx context.Context, host *domain.Host) error {
	if _, err := s.GetHost(ctx, host.ID); err != nil {
		return err
	}
	return s.hosts.Update(ctx, host)
}

func (s *WebinarService) DeleteHost(ctx context.Context, id uint) error {
	err := s.hosts.Delete(ctx, id)
	if errors.Is(err, repository.ErrHostNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *WebinarService) ListHosts(ctx context.Context) ([]domain.Host, error) {
	return s.hosts.List(ctx)
}

// WithClock overrides the time source for date-window tests.
func (s *WebinarService) WithClock(now func() time.Time) *WebinarService {
	s.now = now
	return s
}
