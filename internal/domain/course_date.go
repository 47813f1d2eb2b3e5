package domain

import (
	"context"
	"errors"
	"time"
)

// ErrEmptySchedule is returned when a course has no dated events to organize.
var ErrEmptySchedule = errors.New("no dates available for this course")

// DateType identifies what a dated event in a course schedule represents.
type DateType string

const (
	DateTypeCourseStart             DateType = "course-start-date"
	DateTypeCourseEnd               DateType = "course-end-date"
	DateTypeAssignmentDue           DateType = "assignment-due-date"
	DateTypeCourseExpired           DateType = "course-expired-date"
	DateTypeCertificateAvailable    DateType = "certificate-available-date"
	DateTypeVerifiedUpgradeDeadline DateType = "verified-upgrade-deadline"
	DateTypeVerificationDeadline    DateType = "verification-deadline-date"
	// DateTypeToday is never sent by the course API; the organizer injects it.
	DateTypeToday DateType = "todays-date"
)

// DisplayTag is the badge shown next to a dated event.
type DisplayTag string

const (
	DisplayTagToday          DisplayTag = "today"
	DisplayTagCompleted      DisplayTag = "completed"
	DisplayTagNotYetReleased DisplayTag = "not-yet-released"
	DisplayTagDueNext        DisplayTag = "due-next"
	DisplayTagPastDue        DisplayTag = "past-due"
	DisplayTagVerifiedOnly   DisplayTag = "verified-only"
	DisplayTagBlank          DisplayTag = "blank"
)

// DateEvent is a single dated block of a course schedule.
// swagger:model DateEvent
type DateEvent struct {
	Date             time.Time  `json:"date"`
	DateType         DateType   `json:"date_type"`
	Complete         bool       `json:"complete"`
	LearnerHasAccess bool       `json:"learner_has_access"`
	Link             string     `json:"link"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	AssignmentType   string     `json:"assignment_type"`
	DisplayTag       DisplayTag `json:"display_tag,omitempty"`
}

// DayGroup holds the events that fall on the same calendar day.
type DayGroup struct {
	// Date is midnight of the day in the location the schedule was organized in.
	Date   time.Time
	Events []DateEvent
}

// CourseDates is the course API dates payload.
type CourseDates struct {
	CourseDateBlocks    []DateEvent `json:"course_date_blocks"`
	MissedDeadlines     bool        `json:"missed_deadlines"`
	MissedGatedContent  bool        `json:"missed_gated_content"`
	VerifiedUpgradeLink string      `json:"verified_upgrade_link"`
	LearnerIsFullAccess bool        `json:"learner_is_full_access"`
	UserTimezone        string      `json:"user_timezone"`
}

// CourseSchedule is an organized course schedule ready for display.
// OrganizedAt is the clock reading, in Timezone, the days were tagged against.
type CourseSchedule struct {
	CourseID            string
	Days                []DayGroup
	FromCache           bool
	FetchedAt           time.Time
	OrganizedAt         time.Time
	Timezone            string
	VerifiedUpgradeLink string
	MissedDeadlines     bool
	LearnerIsFullAccess bool
}

// CourseDatesRequest identifies whose schedule for which course is requested.
type CourseDatesRequest struct {
	CourseID    string
	Username    string
	AccessToken string
}

// CourseDatesFetcher fetches course dates from the course API (or a test double).
type CourseDatesFetcher interface {
	Fetch(ctx context.Context, courseID, accessToken string) (CourseDates, error)
}

// CourseDateRepository keeps the last successfully fetched payload per course and user.
type CourseDateRepository interface {
	SaveDates(ctx context.Context, courseID, username string, dates CourseDates, fetchedAt time.Time) error
	LoadDates(ctx context.Context, courseID, username string) (CourseDates, time.Time, error)
}

// CourseDatesService defines the business logic for course schedules.
type CourseDatesService interface {
	GetCourseDates(ctx context.Context, req CourseDatesRequest) (*CourseSchedule, error)
	SendDigest(ctx context.Context, req CourseDatesRequest, to string) error
}
