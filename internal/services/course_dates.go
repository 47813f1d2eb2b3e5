package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"coursedates/internal/domain"
	"coursedates/internal/usecase"
)

const digestTemplate = "course_dates_digest"

type courseDatesService struct {
	fetcher        domain.CourseDatesFetcher
	repo           domain.CourseDateRepository
	email          domain.EmailService
	logger         *slog.Logger
	location       *time.Location
	now            func() time.Time
	contextTimeout time.Duration
}

// CourseDatesOption configures a CourseDatesService.
type CourseDatesOption func(*courseDatesService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) CourseDatesOption {
	return func(s *courseDatesService) { s.now = now }
}

// WithLocation sets the timezone used when the course API does not report one.
func WithLocation(loc *time.Location) CourseDatesOption {
	return func(s *courseDatesService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// NewCourseDatesService builds the service. repo may be nil, which disables
// the offline cache.
func NewCourseDatesService(fetcher domain.CourseDatesFetcher, repo domain.CourseDateRepository, email domain.EmailService, logger *slog.Logger, timeout time.Duration, opts ...CourseDatesOption) domain.CourseDatesService {
	s := &courseDatesService{
		fetcher:        fetcher,
		repo:           repo,
		email:          email,
		logger:         logger,
		location:       time.UTC,
		now:            time.Now,
		contextTimeout: timeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *courseDatesService) GetCourseDates(ctx context.Context, req domain.CourseDatesRequest) (*domain.CourseSchedule, error) {
	if req.CourseID == "" {
		return nil, fmt.Errorf("course id is required: %w", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	dates, fetchedAt, fromCache, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}

	loc := s.resolveLocation(dates.UserTimezone)
	now := s.now().In(loc)
	days, err := usecase.OrganizeDates(dates.CourseDateBlocks, now)
	if err != nil {
		return nil, err
	}

	return &domain.CourseSchedule{
		CourseID:            req.CourseID,
		Days:                days,
		FromCache:           fromCache,
		FetchedAt:           fetchedAt,
		OrganizedAt:         now,
		Timezone:            loc.String(),
		VerifiedUpgradeLink: dates.VerifiedUpgradeLink,
		MissedDeadlines:     dates.MissedDeadlines,
		LearnerIsFullAccess: dates.LearnerIsFullAccess,
	}, nil
}

// load fetches fresh dates and refreshes the cache, or falls back to the cache
// when the course API cannot be reached.
func (s *courseDatesService) load(ctx context.Context, req domain.CourseDatesRequest) (domain.CourseDates, time.Time, bool, error) {
	dates, err := s.fetcher.Fetch(ctx, req.CourseID, req.AccessToken)
	if err == nil {
		fetchedAt := s.now()
		if s.repo != nil {
			if err := s.repo.SaveDates(ctx, req.CourseID, req.Username, dates, fetchedAt); err != nil {
				s.logger.WarnContext(ctx, "failed to cache course dates", "course_id", req.CourseID, "err", err)
			}
		}
		return dates, fetchedAt, false, nil
	}

	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUnauthorized) || s.repo == nil {
		return domain.CourseDates{}, time.Time{}, false, fmt.Errorf("fetch course dates: %w", err)
	}

	cached, fetchedAt, cacheErr := s.repo.LoadDates(ctx, req.CourseID, req.Username)
	if cacheErr != nil {
		if !errors.Is(cacheErr, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to read cached course dates", "course_id", req.CourseID, "err", cacheErr)
		}
		return domain.CourseDates{}, time.Time{}, false, fmt.Errorf("fetch course dates: %w", err)
	}
	s.logger.WarnContext(ctx, "course api unavailable, serving cached dates",
		"course_id", req.CourseID,
		"fetched_at", fetchedAt,
		"err", err,
	)
	return cached, fetchedAt, true, nil
}

func (s *courseDatesService) resolveLocation(name string) *time.Location {
	if name == "" {
		return s.location
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		s.logger.Warn("unknown user timezone, using default", "timezone", name, "err", err)
		return s.location
	}
	return loc
}

func (s *courseDatesService) SendDigest(ctx context.Context, req domain.CourseDatesRequest, to string) error {
	if to == "" {
		return fmt.Errorf("recipient is required: %w", domain.ErrInvalidInput)
	}
	schedule, err := s.GetCourseDates(ctx, req)
	if err != nil {
		return err
	}
	return s.email.SendCourseDatesDigest(ctx, newDigestData(to, schedule))
}

func newDigestData(to string, schedule *domain.CourseSchedule) *domain.CourseDatesDigestEmailData {
	data := &domain.CourseDatesDigestEmailData{
		Email:       to,
		CourseID:    schedule.CourseID,
		FromCache:   schedule.FromCache,
		GeneratedAt: schedule.OrganizedAt,
	}
	for _, day := range schedule.Days {
		d := domain.DigestDay{
			Date:    day.Date.Format("Mon, Jan 2, 2006"),
			IsToday: usecase.IsDateToday(day.Date, schedule.OrganizedAt),
		}
		for _, ev := range day.Events {
			if ev.DateType == domain.DateTypeToday {
				d.Events = append(d.Events, domain.DigestEvent{Tag: ev.DisplayTag})
				continue
			}
			d.Events = append(d.Events, domain.DigestEvent{
				Title: ev.Title,
				Time:  ev.Date.In(day.Date.Location()).Format("15:04"),
				Tag:   ev.DisplayTag,
				Link:  ev.Link,
			})
		}
		data.Days = append(data.Days, d)
	}
	return data
}
