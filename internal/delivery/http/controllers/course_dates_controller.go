package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"coursedates/internal/delivery/http/helpers"
	"coursedates/internal/delivery/http/middleware"
	"coursedates/internal/domain"
	"coursedates/internal/usecase"
)

const emptyScheduleMessage = "currently no dates available for this course"

type CourseDatesController struct {
	Logger  *slog.Logger
	Service domain.CourseDatesService
}

func NewCourseDatesController(logger *slog.Logger, svc domain.CourseDatesService) *CourseDatesController {
	return &CourseDatesController{
		Logger:  logger,
		Service: svc,
	}
}

// DayResponse is one calendar day of a course schedule.
type DayResponse struct {
	Date    string             `json:"date"`
	IsToday bool               `json:"is_today"`
	Events  []domain.DateEvent `json:"events"`
}

// CourseScheduleResponse is the organized schedule returned by GET /courses/{courseID}/dates.
type CourseScheduleResponse struct {
	CourseID            string        `json:"course_id"`
	Timezone            string        `json:"timezone"`
	FromCache           bool          `json:"from_cache"`
	FetchedAt           time.Time     `json:"fetched_at"`
	MissedDeadlines     bool          `json:"missed_deadlines"`
	LearnerIsFullAccess bool          `json:"learner_is_full_access"`
	VerifiedUpgradeLink string        `json:"verified_upgrade_link,omitempty"`
	Days                []DayResponse `json:"days"`
}

// CourseScheduleSuccessResponse is the success response envelope for GET /courses/{courseID}/dates.
type CourseScheduleSuccessResponse struct {
	Data  *CourseScheduleResponse `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// GetCourseDates godoc
// @Summary Get the organized schedule of a course
// @Description Fetches the course dates for the authenticated learner, groups them by day, inserts a marker for today and tags each event for display. Falls back to the last saved copy when the course API is unreachable.
// @Tags course-dates
// @Produce json
// @Security BearerAuth
// @Param courseID path string true "Course ID"
// @Success 200 {object} controllers.CourseScheduleSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found or empty_schedule"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Router /courses/{courseID}/dates [get]
func (c *CourseDatesController) GetCourseDates(w http.ResponseWriter, r *http.Request) {
	req, ok := c.courseRequest(w, r)
	if !ok {
		return
	}

	schedule, err := c.Service.GetCourseDates(r.Context(), req)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newScheduleResponse(schedule))
}

// SendDigestRequest is the request body for POST /courses/{courseID}/dates/digest.
type SendDigestRequest struct {
	Email string `json:"email"`
}

// Validate implements helpers.Validator.
func (r *SendDigestRequest) Validate() []string {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return []string{"email is required"}
	}
	addr, err := mail.ParseAddress(r.Email)
	if err != nil || addr.Address != r.Email {
		return []string{"email is invalid"}
	}
	return nil
}

// SendDigest godoc
// @Summary Email the organized schedule of a course
// @Description Builds the same schedule as GET /courses/{courseID}/dates and emails it to the given address.
// @Tags course-dates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseID path string true "Course ID"
// @Param body body controllers.SendDigestRequest true "Recipient"
// @Success 202 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found or empty_schedule"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Router /courses/{courseID}/dates/digest [post]
func (c *CourseDatesController) SendDigest(w http.ResponseWriter, r *http.Request) {
	req, ok := c.courseRequest(w, r)
	if !ok {
		return
	}
	var body SendDigestRequest
	if !helpers.DecodeAndValidate(w, r, &body) {
		return
	}

	if err := c.Service.SendDigest(r.Context(), req, body.Email); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// Health godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Router /health [get]
func Health(w http.ResponseWriter, _ *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (c *CourseDatesController) courseRequest(w http.ResponseWriter, r *http.Request) (domain.CourseDatesRequest, bool) {
	courseID := strings.TrimSpace(r.PathValue("courseID"))
	if courseID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing courseID")
		return domain.CourseDatesRequest{}, false
	}
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return domain.CourseDatesRequest{}, false
	}
	return domain.CourseDatesRequest{
		CourseID:    courseID,
		Username:    id.Username,
		AccessToken: id.Token,
	}, true
}

func (c *CourseDatesController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptySchedule):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeEmptySchedule, emptyScheduleMessage)
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "course not found")
	case errors.Is(err, domain.ErrUnauthorized):
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "course api rejected the token")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		c.Logger.WarnContext(r.Context(), "course api unavailable", "path", r.URL.Path, "err", err)
		helpers.WriteJSONError(w, http.StatusBadGateway, helpers.ErrCodeBadGateway, "course api unavailable")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
	}
}

func newScheduleResponse(s *domain.CourseSchedule) *CourseScheduleResponse {
	resp := &CourseScheduleResponse{
		CourseID:            s.CourseID,
		Timezone:            s.Timezone,
		FromCache:           s.FromCache,
		FetchedAt:           s.FetchedAt,
		MissedDeadlines:     s.MissedDeadlines,
		LearnerIsFullAccess: s.LearnerIsFullAccess,
		VerifiedUpgradeLink: s.VerifiedUpgradeLink,
		Days:                make([]DayResponse, 0, len(s.Days)),
	}
	for _, day := range s.Days {
		resp.Days = append(resp.Days, DayResponse{
			Date:    day.Date.Format(time.DateOnly),
			IsToday: usecase.IsDateToday(day.Date, s.OrganizedAt),
			Events:  day.Events,
		})
	}
	return resp
}
