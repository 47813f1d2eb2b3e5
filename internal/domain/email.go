package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// DigestDay is one day of a course dates digest email.
type DigestDay struct {
	Date    string
	IsToday bool
	Events  []DigestEvent
}

// DigestEvent is one event line of a course dates digest email.
type DigestEvent struct {
	Title string
	Time  string
	Tag   DisplayTag
	Link  string
}

// CourseDatesDigestEmailData holds data for the course dates digest email.
type CourseDatesDigestEmailData struct {
	Email       string
	CourseID    string
	Days        []DigestDay
	FromCache   bool
	GeneratedAt time.Time
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendCourseDatesDigest(ctx context.Context, data *CourseDatesDigestEmailData) error
}
