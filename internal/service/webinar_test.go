package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/webinara/webinara-backend/internal/domain"
)

func newWebinarFixture(t *testing.T) (*WebinarService, *fakeWebinarRepo, *fakeHostRepo) {
	t.Helper()
	webinars := newFakeWebinarRepo()
	hosts := newFakeHostRepo()
	return NewWebinarService(webinars, hosts), webinars, hosts
}

func TestWebinarCreateRequiresHost(t *testing.T) {
	svc, _, hosts := newWebinarFixture(t)

	w := &domain.Webinar{Title: "Intro to Go", HostID: 404, Date: time.Now().Add(time.Hour)}
	if err := svc.Create(context.Background(), w); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for missing host", err)
	}

	host := hosts.seed(&domain.Host{FullName: "Dana Host", Email: "dana@example.com"})
	w.HostID = host.ID
	if err := svc.Create(context.Background(), w); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if w.ID == 0 {
		t.Fatalf("id not assigned")
	}
}

func TestWebinarUpcomingWindow(t *testing.T) {
	svc, webinars, _ := newWebinarFixture(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return now })

	webinars.seed(&domain.Webinar{Title: "Past", Date: now.Add(-time.Hour)})
	webinars.seed(&domain.Webinar{Title: "Soon", Date: now.Add(time.Hour)})

	upcoming, err := svc.Upcoming(context.Background())
	if err != nil {
		t.Fatalf("Upcoming: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].Title != "Soon" {
		t.Fatalf("upcoming = %+v", upcoming)
	}
}

func TestWebinarSearch(t *testing.T) {
	svc, webinars, _ := newWebinarFixture(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return now })

	webinars.seed(&domain.Webinar{Title: "Go Concurrency", Category: "programming", Level: "advanced", Date: now.Add(time.Hour)})
	webinars.seed(&domain.Webinar{Title: "Watercolors", Category: "art", Level: "beginner", Date: now.Add(time.Hour)})
	webinars.seed(&domain.Webinar{Title: "Go for Beginners", Category: "programming", Level: "beginner", Date: now.Add(-time.Hour)})

	results, err := svc.Search(context.Background(), "  GO  ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// The past Go webinar is excluded.
	if len(results) != 1 || results[0].Title != "Go Concurrency" {
		t.Fatalf("results = %+v", results)
	}

	// Keywords match any of title, category, level.
	results, _ = svc.Search(context.Background(), "beginner art")
	if len(results) != 1 || results[0].Title != "Watercolors" {
		t.Fatalf("results = %+v", results)
	}

	// A blank query falls back to the upcoming listing.
	results, _ = svc.Search(context.Background(), "   ")
	if len(results) != 2 {
		t.Fatalf("blank query results = %+v", results)
	}
}

func TestWebinarUpcomingByCategory(t *testing.T) {
	svc, webinars, _ := newWebinarFixture(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return now })

	webinars.seed(&domain.Webinar{Title: "Go Concurrency", Category: "programming", Date: now.Add(time.Hour)})
	webinars.seed(&domain.Webinar{Title: "Watercolors", Category: "art", Date: now.Add(time.Hour)})

	results, err := svc.UpcomingByCategory(context.Background(), "programming")
	if err != nil {
		t.Fatalf("UpcomingByCategory: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Go Concurrency" {
		t.Fatalf("results = %+v", results)
	}
}

func TestWebinarFilterFacets(t *testing.T) {
	svc, webinars, _ := newWebinarFixture(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return now })

	webinars.seed(&domain.Webinar{Title: "Go Concurrency", Category: "programming", Level: "Advanced", Language: "English", Date: now.Add(time.Hour)})
	webinars.seed(&domain.Webinar{Title: "Go Basics", Category: "programming", Level: "Beginner", Language: "English", Date: now.Add(time.Hour)})
	webinars.seed(&domain.Webinar{Title: "Aquarelle", Category: "art", Level: "Beginner", Language: "French", Date: now.Add(time.Hour)})
	webinars.seed(&domain.Webinar{Title: "Old Go", Category: "programming", Level: "Advanced", Language: "English", Date: now.Add(-time.Hour)})

	results, err := svc.Filter(context.Background(), "programming", "advanced", "")
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Go Concurrency" {
		t.Fatalf("results = %+v", results)
	}

	all, err := svc.Filter(context.Background(), "", "", "")
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("unfiltered upcoming = %d, want 3", len(all))
	}

	french, err := svc.Filter(context.Background(), "", "", "french")
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(french) != 1 || french[0].Title != "Aquarelle" {
		t.Fatalf("french = %+v", french)
	}
}

func TestWebinarCheckFull(t *testing.T) {
	svc, webinars, _ := newWebinarFixture(t)

	capped := webinars.seed(&domain.Webinar{Title: "Capped", TotalSeats: intPtr(2), BookedSeats: 2})
	open := webinars.seed(&domain.Webinar{Title: "Open", TotalSeats: intPtr(2), BookedSeats: 1})
	uncapped := webinars.seed(&domain.Webinar{Title: "Uncapped", BookedSeats: 9000})

	if full, err := svc.CheckFull(context.Background(), capped.ID); err != nil || !full {
		t.Fatalf("capped: full=%v err=%v", full, err)
	}
	if full, err := svc.CheckFull(context.Background(), open.ID); err != nil || full {
		t.Fatalf("open: full=%v err=%v", full, err)
	}
	if full, err := svc.CheckFull(context.Background(), uncapped.ID); err != nil || full {
		t.Fatalf("uncapped: full=%v err=%v", full, err)
	}
	if _, err := svc.CheckFull(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestHostCRUD(t *testing.T) {
	svc, _, _ := newWebinarFixture(t)

	host := &domain.Host{FullName: "Dana Host", Email: "dana@example.com", Expertise: []string{"golang"}}
	if err := svc.CreateHost(context.Background(), host); err != nil {
		t.Fatalf("CreateHost: %v", err)
	}

	got, err := svc.GetHost(context.Background(), host.ID)
	if err != nil {
		t.Fatalf("GetHost: %v", err)
	}
	if got.FullName != "Dana Host" {
		t.Fatalf("got = %+v", got)
	}

	got.Bio = "Long-time Go trainer"
	if err := svc.UpdateHost(context.Background(), got); err != nil {
		t.Fatalf("UpdateHost: %v", err)
	}

	hosts, err := svc.ListHosts(context.Background())
	if err != nil || len(hosts) != 1 {
		t.Fatalf("ListHosts: %v %v", hosts, err)
	}
	if hosts[0].Bio != "Long-time Go trainer" {
		t.Fatalf("update not applied: %+v", hosts[0])
	}

	if err := svc.DeleteHost(context.Background(), host.ID); err != nil {
		t.Fatalf("DeleteHost: %v", err)
	}
	if err := svc.DeleteHost(context.Background(), host.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetHost(context.Background(), host.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestWebinarUpdateAndDelete(t *testing.T) {
	svc, webinars, _ := newWebinarFixture(t)
	w := webinars.seed(&domain.Webinar{Title: "Old Title", Date: time.Now().Add(time.Hour)})

	w.Title = "New Title"
	if err := svc.Update(context.Background(), w); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := svc.Get(context.Background(), w.ID)
	if got.Title != "New Title" {
		t.Fatalf("title = %q", got.Title)
	}

	if err := svc.Update(context.Background(), &domain.Webinar{ID: 404}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if err := svc.Delete(context.Background(), w.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), w.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
