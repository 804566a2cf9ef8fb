package common

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	analyticsdomain "contribution-tracker-go/internal/domain/analytics"
	"github.com/go-chi/chi/v5"
)

// PathID reads a positive integer route parameter.
func PathID(r *http.Request, name string) (int64, error) {
	value := strings.TrimSpace(chi.URLParam(r, name))
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return id, nil
}

// QueryID reads an optional positive integer query parameter.
func QueryID(r *http.Request, name string) (*int64, error) {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%s must be a positive integer", name)
	}
	return &id, nil
}

// QueryMonth reads an optional YYYY-MM query parameter.
func QueryMonth(r *http.Request, name string) (*analyticsdomain.YearMonth, error) {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return nil, nil
	}
	month, err := analyticsdomain.ParseYearMonth(value)
	if err != nil {
		return nil, fmt.Errorf("%s must be YYYY-MM", name)
	}
	return &month, nil
}
