package task

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("task not found")

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Statuses lists the valid statuses in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID             int64     `json:"id"`
	UserID         string    `json:"userId"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Status         Status    `json:"status"`
	ExpirationDate time.Time `json:"expiration_date"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SortField is a column a task list can be ordered by.
type SortField string

const (
	SortCreatedAt      SortField = "createdAt"
	SortExpirationDate SortField = "expirationDate"
	SortTitle          SortField = "title"
	SortStatus         SortField = "status"
)

var SortFields = []SortField{SortCreatedAt, SortExpirationDate, SortTitle, SortStatus}

// with pointers if optional, it will be nil
type ListFilter struct {
	UserID  string
	Status  *Status
	OrderBy SortField
	Desc    bool
	Limit   int
	Offset  int
}

// Patch carries only the fields an update supplied.
type Patch struct {
	Title          *string
	Description    *string
	Status         *Status
	ExpirationDate *time.Time
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.ExpirationDate == nil
}

// Apply returns t with the supplied fields replaced.
func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.ExpirationDate != nil {
		t.ExpirationDate = *p.ExpirationDate
	}
	return t
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

type Page struct {
	Tasks      []Task     `json:"tasks"`
	Pagination Pagination `json:"pagination"`
}
