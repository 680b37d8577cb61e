package utils

import (
	"strings"

	"github.com/geocoder89/taskhub/internal/tasks"
)

// TaskListCachePrefix scopes every cached list page to its owner.
func TaskListCachePrefix(userID string) string {
	return "tasks:list:v1:user=" + userID + ":"
}

func BuildTaskListCacheKey(userID string, p tasks.ListParams) string {
	return TaskListCachePrefix(userID) +
		"status=" + strings.TrimSpace(p.Status) +
		":page=" + strings.TrimSpace(p.Page) +
		":limit=" + strings.TrimSpace(p.Limit) +
		":orderBy=" + strings.TrimSpace(p.OrderBy) +
		":order=" + strings.TrimSpace(p.Order)
}
