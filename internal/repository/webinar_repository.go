package repository

import (
	"context"
	"errors"
	"time"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/observability"

	"gorm.io/gorm"
)

var (
	ErrWebinarNotFound = errors.New("webinar not found")
	ErrHostNotFound    = errors.New("host not found")
)

type WebinarRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Webinar, error)
	Create(ctx context.Context, webinar *domain.Webinar) error
	Update(ctx context.Context, webinar *domain.Webinar) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]domain.Webinar, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]domain.Webinar, error)
	ListUpcomingByCategory(ctx context.Context, category string, now time.Time) ([]domain.Webinar, error)
	Search(ctx context.Context, keywords []string, now time.Time) ([]domain.Webinar, error)
	ListPast(ctx context.Context, now time.Time) ([]domain.Webinar, error)
}

type GormWebinarRepository struct{ db *gorm.DB }

func NewWebinarRepository(db *gorm.DB) WebinarRepository { return &GormWebinarRepository{db: db} }

func (r *GormWebinarRepository) FindByID(ctx context.Context, id uint) (*domain.Webinar, error) {
	var w domain.Webinar
	err := r.db.WithContext(ctx).Preload("Host").First(&w, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "webinar", "find_by_id", "not_found")
			return nil, ErrWebinarNotFound
		}
		observability.RecordRepositoryOperation(ctx, "webinar", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "webinar", "find_by_id", "success")
	return &w, nil
}

func (r *GormWebinarRepository) Create(ctx context.Context, webinar *domain.Webinar) error {
	err := r.db.WithContext(ctx).Create(webinar).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "webinar", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "webinar", "create", "success")
	return nil
}

func (r *GormWebinarRepository) Update(ctx context.Context, webinar *domain.Webinar) error {
	err := r.db.WithContext(ctx).Save(webinar).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "webinar", "update", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "webinar", "update", "success")
	return nil
}

func (r *GormWebinarRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Webinar{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "webinar", "delete", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "webinar", "delete", "not_found")
		return ErrWebinarNotFound
	}
	observability.RecordRepositoryOperation(ctx, "webinar", "delete", "success")
	return nil
}

func (r *GormWebinarRepository) List(ctx context.Context) ([]domain.Webinar, error) {
	var webinars []domain.Webinar
	err := r.db.WithContext(ctx).Preload("Host").Order("date").Find(&webinars).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "webinar", "list", "error")
		return webinars, err
	}
	observability.RecordRepositoryOperation(ctx, "webinar", "list", "success")
	return webinars, nil
}

func (r *GormWebinarRepository) ListUpcoming(ctx context.Context, now time.Time) ([]domain.Webinar, error) {
	var webinars []domain.Webinar
	err := r.db.WithContext(ctx).Preload("Host").
		Where("date >= ?", now).
		Order("date").
		Find(&webinars).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "webinar", "list_upcoming", "error")
		return webinars, err
	}
	observability.RecordRepositoryOperation(ctx, "webinar", "list_upcoming", "success")
	return webinars, nil
}

func (r *GormWebinarRepository) ListUpcomingByCategory(ctx context.Context, category string, now time.Time) ([]domain.Webinar, error) {
	var webinars []domain.Webinar
	err := r.db.WithContext(ctx).Preload("Host").
		Where("category = ? AND date >= ?", category, now).
		Order("date").
		Find(&webinars).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "webinar", "list_upcoming_by_category", "error")
		return webinars, err
	}
	observability.RecordRepositoryOperation(ctx, "webinar", "list_upcoming_by_category", "success")
	return webinars, nil
}

// Search matches any keyword against title, category and level of upcoming
// webinars. Matching against the host name happens in the handler via the
// preloaded Host, as the legacy behavior did.
func (r *GormWebinarRepository) Search(ctx context.Context, keywords []string, now time.Time) ([]domain.Webinar, error) {
	query := r.db.WithContext(ctx).Preload("Host").Where("date >= ?", now)
	if len(keywords) > 0 {
		clause := r.db.Where("1 = 0")
		for _, word := range keywords {
			pattern := "%" + word + "%"
			clause = clause.Or("lower(title) LIKE ? OR lower(category) LIKE ? OR lower(level) LIKE ?", pattern, pattern, pattern)
		}
		query = query.Where(clause)
	}
	var webinars []domain.Webinar
	err := query.Order("date").Find(&webinars).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "webinar", "search", "error")
		return webinars, err
	}
	observability.RecordRepositoryOperation(ctx, "webinar", "search", "success")
	return webinars, nil
}

func (r *GormWebinarRepository) ListPast(ctx context.Context, now time.Time) ([]domain.Webinar, error) {
	var webinars []domain.Webinar
	err := r.db.WithContext(ctx).Where("date < ?", now).Find(&webinars).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "webinar", "list_past", "error")
		return webinars, err
	}
	observability.RecordRepositoryOperation(ctx, "webinar", "list_past", "success")
	return webinars, nil
}
