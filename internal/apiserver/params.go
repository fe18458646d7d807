package apiserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
)

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// pathYearMonth parses and bounds-checks {year}/{month} route parameters.
func pathYearMonth(r *http.Request) (int, int, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1900 || year > 2100 {
		return 0, 0, errors.New("year must be between 1900 and 2100")
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, errors.New("month must be between 1 and 12")
	}
	return year, month, nil
}

func pathYear(r *http.Request) (int, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1900 || year > 2100 {
		return 0, errors.New("year must be between 1900 and 2100")
	}
	return year, nil
}

// queryDateRange reads the start_date and end_date query parameters.
func queryDateRange(r *http.Request) (core.Date, core.Date, error) {
	start, err := core.ParseDate(r.URL.Query().Get("start_date"))
	if err != nil {
		return core.Date{}, core.Date{}, errors.New("invalid start_date")
	}
	end, err := core.ParseDate(r.URL.Query().Get("end_date"))
	if err != nil {
		return core.Date{}, core.Date{}, errors.New("invalid end_date")
	}
	if end.Before(start.Time) {
		return core.Date{}, core.Date{}, errors.New("end_date before start_date")
	}
	return start, end, nil
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
