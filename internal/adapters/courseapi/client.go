package courseapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"coursedates/internal/domain"
)

// DefaultAuthScheme is the Authorization scheme the course API expects for learner tokens.
const DefaultAuthScheme = "JWT"

type courseDatesHTTPFetcher struct {
	client     *http.Client
	baseURL    string
	authScheme string
}

// NewHTTPFetcher returns a fetcher that calls the course home dates API under baseURL.
func NewHTTPFetcher(client *http.Client, baseURL string) domain.CourseDatesFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &courseDatesHTTPFetcher{
		client:     client,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		authScheme: DefaultAuthScheme,
	}
}

func (f *courseDatesHTTPFetcher) Fetch(ctx context.Context, courseID, accessToken string) (domain.CourseDates, error) {
	endpoint := fmt.Sprintf("%s/api/course_home/v1/dates/%s", f.baseURL, url.PathEscape(courseID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.CourseDates{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", f.authScheme+" "+accessToken)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.CourseDates{}, fmt.Errorf("failed to fetch course dates: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.CourseDates{}, fmt.Errorf("course api returned status %d: %w", resp.StatusCode, domain.ErrUnauthorized)
	case http.StatusNotFound:
		return domain.CourseDates{}, fmt.Errorf("course %s: %w", courseID, domain.ErrNotFound)
	default:
		return domain.CourseDates{}, fmt.Errorf("course api returned status: %d: %w", resp.StatusCode, domain.ErrUpstream)
	}

	var data domain.CourseDates
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return domain.CourseDates{}, fmt.Errorf("failed to decode course dates response: %w: %w", domain.ErrUpstream, err)
	}
	return data, nil
}
