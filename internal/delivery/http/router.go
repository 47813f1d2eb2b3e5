package http

import (
	"log/slog"
	"net/http"

	"coursedates/internal/delivery/http/controllers"
	"coursedates/internal/delivery/http/middleware"
	"coursedates/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(courseDates *controllers.CourseDatesController, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	mux.HandleFunc("GET /health", controllers.Health)

	// Course dates
	mux.HandleFunc("GET /courses/{courseID}/dates", auth(courseDates.GetCourseDates))
	mux.HandleFunc("POST /courses/{courseID}/dates/digest", auth(courseDates.SendDigest))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
