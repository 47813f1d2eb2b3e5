package services

import (
	"context"
	"fmt"
	"log/slog"

	"coursedates/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendCourseDatesDigest sends the schedule digest using the "course_dates_digest" template.
func (s *emailService) SendCourseDatesDigest(ctx context.Context, data *domain.CourseDatesDigestEmailData) error {
	if data == nil {
		return fmt.Errorf("course dates digest data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render(digestTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", digestTemplate, err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send course dates digest: %w", err)
	}
	s.logger.InfoContext(ctx, "course dates digest sent", "to", data.Email, "course_id", data.CourseID)
	return nil
}
