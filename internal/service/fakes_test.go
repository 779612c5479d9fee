package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/repository"
)

// fakeAccountRepo is an in-memory AccountRepository for service tests.
type fakeAccountRepo struct {
	mu       sync.Mutex
	nextID   uint
	accounts map[uint]*domain.Account

	failUpdate error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{nextID: 1, accounts: map[uint]*domain.Account{}}
}

func (f *fakeAccountRepo) seed(account *domain.Account) *domain.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account.ID == 0 {
		account.ID = f.nextID
		f.nextID++
	}
	copied := *account
	f.accounts[account.ID] = &copied
	return account
}

func (f *fakeAccountRepo) FindByID(_ context.Context, id uint) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (f *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.Email == account.Email {
			return errors.New("duplicate email")
		}
	}
	account.ID = f.nextID
	f.nextID++
	copied := *account
	f.accounts[account.ID] = &copied
	return nil
}

func (f *fakeAccountRepo) Update(_ context.Context, account *domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate != nil {
		return f.failUpdate
	}
	if _, ok := f.accounts[account.ID]; !ok {
		return repository.ErrAccountNotFound
	}
	copied := *account
	f.accounts[account.ID] = &copied
	return nil
}

func (f *fakeAccountRepo) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[id]; !ok {
		return repository.ErrAccountNotFound
	}
	delete(f.accounts, id)
	return nil
}

func (f *fakeAccountRepo) List(_ context.Context) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Account, 0, len(f.accounts))
	for _, a := range f.accounts {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAccountRepo) ListByRole(_ context.Context, role string) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Account
	for _, a := range f.accounts {
		if a.Role == role {
			out = append(out, *a)
		}
	}
	return out, nil
}

// fakeWebinarRepo implements WebinarRepository over a map. The query methods
// reimplement the date/keyword filters in memory.
type fakeWebinarRepo struct {
	mu       sync.Mutex
	nextID   uint
	webinars map[uint]*domain.Webinar
}

func newFakeWebinarRepo() *fakeWebinarRepo {
	return &fakeWebinarRepo{nextID: 1, webinars: map[uint]*domain.Webinar{}}
}

func (f *fakeWebinarRepo) seed(w *domain.Webinar) *domain.Webinar {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w.ID == 0 {
		w.ID = f.nextID
		f.nextID++
	}
	copied := *w
	f.webinars[w.ID] = &copied
	return w
}

func (f *fakeWebinarRepo) FindByID(_ context.Context, id uint) (*domain.Webinar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.webinars[id]
	if !ok {
		return nil, repository.ErrWebinarNotFound
	}
	copied := *w
	return &copied, nil
}

func (f *fakeWebinarRepo) Create(_ context.Context, w *domain.Webinar) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.ID = f.nextID
	f.nextID++
	copied := *w
	f.webinars[w.ID] = &copied
	return nil
}

func (f *fakeWebinarRepo) Update(_ context.Context, w *domain.Webinar) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.webinars[w.ID]; !ok {
		return repository.ErrWebinarNotFound
	}
	copied := *w
	f.webinars[w.ID] = &copied
	return nil
}

func (f *fakeWebinarRepo) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.webinars[id]; !ok {
		return repository.ErrWebinarNotFound
	}
	delete(f.webinars, id)
	return nil
}

func (f *fakeWebinarRepo) List(_ context.Context) ([]domain.Webinar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Webinar
	for _, w := range f.webinars {
		out = append(out, *w)
	}
	return out, nil
}

func (f *fakeWebinarRepo) ListUpcoming(_ context.Context, now time.Time) ([]domain.Webinar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Webinar
	for _, w := range f.webinars {
		if !w.Date.Before(now) {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (f *fakeWebinarRepo) ListUpcomingByCategory(ctx context.Context, category string, now time.Time) ([]domain.Webinar, error) {
	upcoming, _ := f.ListUpcoming(ctx, now)
	var out []domain.Webinar
	for _, w := range upcoming {
		if strings.EqualFold(w.Category, category) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWebinarRepo) Search(ctx context.Context, keywords []string, now time.Time) ([]domain.Webinar, error) {
	upcoming, _ := f.ListUpcoming(ctx, now)
	var out []domain.Webinar
	for _, w := range upcoming {
		haystack := strings.ToLower(w.Title + " " + w.Category + " " + w.Level)
		for _, kw := range keywords {
			if strings.Contains(haystack, kw) {
				out = append(out, w)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeWebinarRepo) ListPast(_ context.Context, now time.Time) ([]domain.Webinar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Webinar
	for _, w := range f.webinars {
		if w.Date.Before(now) {
			out = append(out, *w)
		}
	}
	return out, nil
}

// fakeHostRepo implements HostRepository over a map.
type fakeHostRepo struct {
	mu     sync.Mutex
	nextID uint
	hosts  map[uint]*domain.Host
}

func newFakeHostRepo() *fakeHostRepo {
	return &fakeHostRepo{nextID: 1, hosts: map[uint]*domain.Host{}}
}

func (f *fakeHostRepo) seed(h *domain.Host) *domain.Host {
	f.mu.Lock()
	defer f.mu.Unlock()
	if h.ID == 0 {
		h.ID = f.nextID
		f.nextID++
	}
	copied := *h
	f.hosts[h.ID] = &copied
	return h
}

func (f *fakeHostRepo) FindByID(_ context.Context, id uint) (*domain.Host, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hosts[id]
	if !ok {
		return nil, repository.ErrHostNotFound
	}
	copied := *h
	return &copied, nil
}

func (f *fakeHostRepo) Create(_ context.Context, h *domain.Host) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h.ID = f.nextID
	f.nextID++
	copied := *h
	f.hosts[h.ID] = &copied
	return nil
}

func (f *fakeHostRepo) Update(_ context.Context, h *domain.Host) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.hosts[h.ID]; !ok {
		return repository.ErrHostNotFound
	}
	copied := *h
	f.hosts[h.ID] = &copied
	return nil
}

func (f *fakeHostRepo) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.hosts[id]; !ok {
		return repository.ErrHostNotFound
	}
	delete(f.hosts, id)
	return nil
}

func (f *fakeHostRepo) List(_ context.Context) ([]domain.Host, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Host
	for _, h := range f.hosts {
		out = append(out, *h)
	}
	return out, nil
}

// fakeBookingRepo implements BookingRepository over a slice.
type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   uint
	bookings []domain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{nextID: 1}
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = f.nextID
	f.nextID++
	f.bookings = append(f.bookings, *b)
	return nil
}

func (f *fakeBookingRepo) List(_ context.Context) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Booking, len(f.bookings))
	copy(out, f.bookings)
	return out, nil
}

func (f *fakeBookingRepo) ListByWebinar(_ context.Context, webinarID uint) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Booking
	for _, b := range f.bookings {
		if b.WebinarID == webinarID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListUpcomingByUser(_ context.Context, userID uint, now time.Time) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Booking
	for _, b := range f.bookings {
		if b.UserID == userID && !b.WebinarDetails.Date.Before(now) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListPastByUser(_ context.Context, userID uint, now time.Time) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Booking
	for _, b := range f.bookings {
		if b.UserID == userID && b.WebinarDetails.Date.Before(now) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) Exists(_ context.Context, userID, webinarID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.UserID == userID && b.WebinarID == webinarID {
			return true, nil
		}
	}
	return false, nil
}

// fakeUserLogRepo collects audit rows in memory.
type fakeUserLogRepo struct {
	mu   sync.Mutex
	logs []domain.UserLog
}

func (f *fakeUserLogRepo) Create(_ context.Context, log *domain.UserLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	log.ID = uint(len(f.logs) + 1)
	f.logs = append(f.logs, *log)
	return nil
}

func (f *fakeUserLogRepo) List(_ context.Context) ([]domain.UserLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.UserLog, len(f.logs))
	copy(out, f.logs)
	return out, nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

// fakeMailer records deliveries and can simulate SMTP failures.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func (m *fakeMailer) deliveries() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMail, len(m.sent))
	copy(out, m.sent)
	return out
}
