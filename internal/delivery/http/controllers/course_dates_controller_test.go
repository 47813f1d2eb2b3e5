package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"coursedates/internal/delivery/http/helpers"
	"coursedates/internal/delivery/http/middleware"
	"coursedates/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type mockCourseDatesService struct {
	schedule *domain.CourseSchedule
	err      error
	gotReq   domain.CourseDatesRequest
	gotTo    string
}

func (m *mockCourseDatesService) GetCourseDates(_ context.Context, req domain.CourseDatesRequest) (*domain.CourseSchedule, error) {
	m.gotReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.schedule, nil
}

func (m *mockCourseDatesService) SendDigest(_ context.Context, req domain.CourseDatesRequest, to string) error {
	m.gotReq = req
	m.gotTo = to
	return m.err
}

func newTestController(svc domain.CourseDatesService) *CourseDatesController {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewCourseDatesController(logger, svc)
}

func authedRequest(method, target, courseID string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.SetPathValue("courseID", courseID)
	ctx := middleware.SetIdentity(req.Context(), domain.Identity{Username: "learner", Token: "tok"})
	return req.WithContext(ctx)
}

func sampleSchedule() *domain.CourseSchedule {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }
	return &domain.CourseSchedule{
		CourseID:    "course-1",
		Timezone:    "UTC",
		FetchedAt:   testNow,
		OrganizedAt: testNow,
		Days: []domain.DayGroup{
			{Date: day(10), Events: []domain.DateEvent{{Date: day(10), DateType: domain.DateTypeCourseStart, DisplayTag: domain.DisplayTagBlank}}},
			{Date: day(15), Events: []domain.DateEvent{{Date: testNow, DateType: domain.DateTypeToday, DisplayTag: domain.DisplayTagToday}}},
			{Date: day(20), Events: []domain.DateEvent{{Date: day(20), DateType: domain.DateTypeAssignmentDue, Link: "https://x", LearnerHasAccess: true, DisplayTag: domain.DisplayTagDueNext}}},
		},
	}
}

func TestCourseDatesController_GetCourseDates_Success(t *testing.T) {
	svc := &mockCourseDatesService{schedule: sampleSchedule()}
	ctrl := newTestController(svc)

	w := httptest.NewRecorder()
	ctrl.GetCourseDates(w, authedRequest(http.MethodGet, "/courses/course-1/dates", "course-1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.CourseDatesRequest{CourseID: "course-1", Username: "learner", AccessToken: "tok"}, svc.gotReq)

	var resp CourseScheduleSuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Error)
	require.NotNil(t, resp.Data)
	require.Len(t, resp.Data.Days, 3)
	assert.Equal(t, "2026-03-10", resp.Data.Days[0].Date)
	assert.False(t, resp.Data.Days[0].IsToday)
	assert.Equal(t, "2026-03-15", resp.Data.Days[1].Date)
	assert.True(t, resp.Data.Days[1].IsToday)
	assert.Equal(t, domain.DisplayTagToday, resp.Data.Days[1].Events[0].DisplayTag)
	assert.Equal(t, domain.DisplayTagDueNext, resp.Data.Days[2].Events[0].DisplayTag)
	assert.Equal(t, "UTC", resp.Data.Timezone)
}

func TestCourseDatesController_GetCourseDates_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"empty schedule", domain.ErrEmptySchedule, http.StatusNotFound, helpers.ErrCodeEmptySchedule},
		{"not found", fmt.Errorf("fetch course dates: %w", domain.ErrNotFound), http.StatusNotFound, helpers.ErrCodeNotFound},
		{"unauthorized", fmt.Errorf("fetch course dates: %w", domain.ErrUnauthorized), http.StatusUnauthorized, helpers.ErrCodeUnauthorized},
		{"invalid input", fmt.Errorf("course id is required: %w", domain.ErrInvalidInput), http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"upstream failure", fmt.Errorf("fetch course dates: %w", fmt.Errorf("course api returned status: 503: %w", domain.ErrUpstream)), http.StatusBadGateway, helpers.ErrCodeBadGateway},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, helpers.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := newTestController(&mockCourseDatesService{err: tt.err})

			w := httptest.NewRecorder()
			ctrl.GetCourseDates(w, authedRequest(http.MethodGet, "/courses/course-1/dates", "course-1", nil))

			require.Equal(t, tt.wantStatus, w.Code)
			var resp helpers.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestCourseDatesController_GetCourseDates_TodayFollowsScheduleClock(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	// 23:59 on the 15th in Tokyo, while UTC is already past noon on the 15th.
	organizedAt := time.Date(2026, 3, 15, 23, 59, 0, 0, tokyo)
	day15 := time.Date(2026, 3, 15, 0, 0, 0, 0, tokyo)
	day16 := time.Date(2026, 3, 16, 0, 0, 0, 0, tokyo)
	svc := &mockCourseDatesService{schedule: &domain.CourseSchedule{
		CourseID:    "course-1",
		Timezone:    "Asia/Tokyo",
		OrganizedAt: organizedAt,
		Days: []domain.DayGroup{
			{Date: day15, Events: []domain.DateEvent{{Date: day15, DateType: domain.DateTypeCourseStart, DisplayTag: domain.DisplayTagBlank}}},
			{Date: day16, Events: []domain.DateEvent{{Date: day16, DateType: domain.DateTypeCourseEnd, DisplayTag: domain.DisplayTagBlank}}},
		},
	}}
	ctrl := newTestController(svc)

	w := httptest.NewRecorder()
	ctrl.GetCourseDates(w, authedRequest(http.MethodGet, "/courses/course-1/dates", "course-1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp CourseScheduleSuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Days, 2)
	assert.True(t, resp.Data.Days[0].IsToday)
	assert.False(t, resp.Data.Days[1].IsToday)
}

func TestCourseDatesController_GetCourseDates_EmptyScheduleMessage(t *testing.T) {
	ctrl := newTestController(&mockCourseDatesService{err: domain.ErrEmptySchedule})

	w := httptest.NewRecorder()
	ctrl.GetCourseDates(w, authedRequest(http.MethodGet, "/courses/course-1/dates", "course-1", nil))

	var resp helpers.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "currently no dates available for this course", resp.Error.Message)
}

func TestCourseDatesController_GetCourseDates_Unauthenticated(t *testing.T) {
	svc := &mockCourseDatesService{schedule: sampleSchedule()}
	ctrl := newTestController(svc)

	req := httptest.NewRequest(http.MethodGet, "/courses/course-1/dates", nil)
	req.SetPathValue("courseID", "course-1")
	w := httptest.NewRecorder()
	ctrl.GetCourseDates(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, svc.gotReq.CourseID)
}

func TestCourseDatesController_GetCourseDates_MissingCourseID(t *testing.T) {
	ctrl := newTestController(&mockCourseDatesService{schedule: sampleSchedule()})

	w := httptest.NewRecorder()
	ctrl.GetCourseDates(w, authedRequest(http.MethodGet, "/courses//dates", " ", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseDatesController_SendDigest(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantTo     string
	}{
		{name: "accepted", body: `{"email":" learner@example.com "}`, wantStatus: http.StatusAccepted, wantTo: "learner@example.com"},
		{name: "missing email", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "invalid email", body: `{"email":"not-an-address"}`, wantStatus: http.StatusBadRequest},
		{name: "display name rejected", body: `{"email":"Learner <learner@example.com>"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"email":"learner@example.com","cc":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "empty schedule", body: `{"email":"learner@example.com"}`, svcErr: domain.ErrEmptySchedule, wantStatus: http.StatusNotFound, wantTo: "learner@example.com"},
		{name: "mailer failure", body: `{"email":"learner@example.com"}`, svcErr: errors.New("ses down"), wantStatus: http.StatusInternalServerError, wantTo: "learner@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCourseDatesService{err: tt.svcErr}
			ctrl := newTestController(svc)

			w := httptest.NewRecorder()
			ctrl.SendDigest(w, authedRequest(http.MethodPost, "/courses/course-1/dates/digest", "course-1", strings.NewReader(tt.body)))

			require.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantTo, svc.gotTo)
			if tt.wantTo != "" {
				assert.Equal(t, "course-1", svc.gotReq.CourseID)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"status":"ok"},"error":null}`, w.Body.String())
}
