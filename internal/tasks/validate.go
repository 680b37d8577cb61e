package tasks

import (
	"strconv"
	"strings"
	"time"

	"github.com/geocoder89/taskhub/internal/apperr"
	"github.com/geocoder89/taskhub/internal/domain/task"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var (
	msgPagination   = "Invalid pagination parameters. Page must be >= 1, limit must be between 1 and 100"
	msgStatus       = "Invalid status. Must be one of: " + joinStatuses()
	msgOrderBy      = "Invalid orderBy field. Must be one of: " + joinSortFields()
	msgOrder        = "Invalid order. Must be one of: asc, desc"
	msgDateFormat   = "Invalid expiration_date format. Use ISO 8601 format (e.g., 2024-12-31T23:59:59.000Z)"
	msgDateInPast   = "Expiration date must be in the future"
	msgMissingField = "Missing required fields: title, description and expiration_date are required"
	msgEmptyTitle   = "Title must be a non-empty string"
	msgTaskID       = "Invalid task ID"
)

// layouts accepted for expiration_date; zone-less values are read as UTC
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParsePagination applies defaults to empty values and checks bounds.
func ParsePagination(rawPage, rawLimit string) (page, limit int, err error) {
	page, limit = DefaultPage, DefaultLimit

	if s := strings.TrimSpace(rawPage); s != "" {
		page, err = strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperr.Validation(msgPagination)
		}
	}

	if s := strings.TrimSpace(rawLimit); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperr.Validation(msgPagination)
		}
	}

	if page < 1 || limit < 1 || limit > MaxLimit {
		return 0, 0, apperr.Validation(msgPagination)
	}

	return page, limit, nil
}

func ParseStatus(raw string) (task.Status, error) {
	s := task.Status(raw)
	if !s.Valid() {
		return "", apperr.Validation(msgStatus)
	}
	return s, nil
}

// ParseSortField accepts the column names; expiration_date is kept as an alias of expirationDate.
func ParseSortField(raw string) (task.SortField, error) {
	if raw == "" {
		return task.SortCreatedAt, nil
	}
	if raw == "expiration_date" {
		return task.SortExpirationDate, nil
	}

	for _, f := range task.SortFields {
		if string(f) == raw {
			return f, nil
		}
	}
	return "", apperr.Validation(msgOrderBy)
}

// ParseOrder reports whether the order is descending. Empty means desc.
func ParseOrder(raw string) (bool, error) {
	switch raw {
	case "", "desc":
		return true, nil
	case "asc":
		return false, nil
	}
	return false, apperr.Validation(msgOrder)
}

// ParseExpirationDate parses raw and requires it to be strictly after now.
func ParseExpirationDate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if !t.After(now) {
			return time.Time{}, apperr.Validation(msgDateInPast)
		}
		return t.UTC(), nil
	}

	return time.Time{}, apperr.Validation(msgDateFormat)
}

func ParseTaskID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, apperr.Validation(msgTaskID)
	}
	return id, nil
}

func joinStatuses() string {
	out := make([]string, 0, len(task.Statuses))
	for _, s := range task.Statuses {
		out = append(out, string(s))
	}
	return strings.Join(out, ", ")
}

func joinSortFields() string {
	out := make([]string, 0, len(task.SortFields))
	for _, f := range task.SortFields {
		out = append(out, string(f))
	}
	return strings.Join(out, ", ")
}
