package tasks

import (
	"context"
	"fmt"
	"math"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"golang.org/x/sync/errgroup"
)

// ListParams are the raw query values; empty strings take the defaults.
type ListParams struct {
	Status  string `form:"status"`
	Page    string `form:"page"`
	Limit   string `form:"limit"`
	OrderBy string `form:"orderBy"`
	Order   string `form:"order"`
}

// List validates every parameter before reading the store, then fetches the
// requested page and the total count for the same filter.
func (s *Service) List(ctx context.Context, userID string, p ListParams) (task.Page, error) {
	page, limit, err := ParsePagination(p.Page, p.Limit)
	if err != nil {
		return task.Page{}, err
	}

	var status *task.Status
	if p.Status != "" {
		st, err := ParseStatus(p.Status)
		if err != nil {
			return task.Page{}, err
		}
		status = &st
	}

	orderBy, err := ParseSortField(p.OrderBy)
	if err != nil {
		return task.Page{}, err
	}

	desc, err := ParseOrder(p.Order)
	if err != nil {
		return task.Page{}, err
	}

	filter := task.ListFilter{
		UserID:  userID,
		Status:  status,
		OrderBy: orderBy,
		Desc:    desc,
		Limit:   limit,
		Offset:  pageOffset(page, limit),
	}

	var (
		items []task.Task
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.store.List(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.Count(gctx, userID, status)
		return err
	})
	if err := g.Wait(); err != nil {
		return task.Page{}, fmt.Errorf("list tasks: %w", err)
	}

	if items == nil {
		items = []task.Task{}
	}

	return task.Page{
		Tasks:      items,
		Pagination: Paginate(page, limit, total),
	}, nil
}

// pageOffset saturates instead of overflowing, so an absurd page number
// still reads as past the end.
func pageOffset(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

func Paginate(page, limit, total int) task.Pagination {
	totalPages := (total + limit - 1) / limit

	return task.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
