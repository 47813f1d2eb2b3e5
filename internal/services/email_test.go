package services

import (
	"context"
	"errors"
	"testing"

	"coursedates/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	to, subject, html, text string
	err                     error
}

func (f *fakeMailer) Send(to, subject, html, text string) error {
	f.to, f.subject, f.html, f.text = to, subject, html, text
	return f.err
}

type fakeRenderer struct {
	lastName string
	err      error
}

func (f *fakeRenderer) Render(templateName string, data any) (string, string, string, error) {
	f.lastName = templateName
	if f.err != nil {
		return "", "", "", f.err
	}
	return "subject", "<p>html</p>", "text", nil
}

func TestEmailService_SendCourseDatesDigest(t *testing.T) {
	data := &domain.CourseDatesDigestEmailData{Email: "learner@example.com", CourseID: "course-1"}

	tests := []struct {
		name       string
		data       *domain.CourseDatesDigestEmailData
		renderErr  error
		sendErr    error
		wantErrMsg string
	}{
		{name: "success", data: data},
		{name: "nil data", data: nil, wantErrMsg: "data is nil"},
		{name: "render error", data: data, renderErr: errors.New("bad template"), wantErrMsg: "failed to render course_dates_digest template"},
		{name: "send error", data: data, sendErr: errors.New("ses down"), wantErrMsg: "failed to send course dates digest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &fakeMailer{err: tt.sendErr}
			renderer := &fakeRenderer{err: tt.renderErr}
			svc := NewEmailService(mailer, renderer, testLogger)

			err := svc.SendCourseDatesDigest(context.Background(), tt.data)
			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "course_dates_digest", renderer.lastName)
			assert.Equal(t, "learner@example.com", mailer.to)
			assert.Equal(t, "subject", mailer.subject)
			assert.Equal(t, "<p>html</p>", mailer.html)
			assert.Equal(t, "text", mailer.text)
		})
	}
}
