package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"
)

const taskColumns = `id, user_id, title, description, status, expiration_date, created_at`

// orderColumns is the only source of ORDER BY text; client input never reaches the SQL.
var orderColumns = map[task.SortField]string{
	task.SortCreatedAt:      "created_at",
	task.SortExpirationDate: "expiration_date",
	task.SortTitle:          "title",
	task.SortStatus:         "status",
}

type TasksRepo struct {
	db DB
	observer
}

func NewTasksRepo(db DB, prom *observability.Prom) *TasksRepo {
	return &TasksRepo{db: db, observer: observer{prom: prom}}
}

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.ExpirationDate, &t.CreatedAt)
	return t, err
}

func (r *TasksRepo) Create(ctx context.Context, in task.Task) (task.Task, error) {
	var out task.Task

	err := r.observe("tasks.create", func() error {
		var err error
		out, err = scanTask(r.db.QueryRow(
			ctx,
			`INSERT INTO tasks (user_id, title, description, status, expiration_date, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+taskColumns,
			in.UserID, in.Title, in.Description, in.Status, in.ExpirationDate, in.CreatedAt,
		))
		return err
	})
	if err != nil {
		return task.Task{}, oops.With("operation", "create task").With("user_id", in.UserID).Wrap(err)
	}

	return out, nil
}

func (r *TasksRepo) GetForUser(ctx context.Context, id int64, userID string) (task.Task, error) {
	var out task.Task

	err := r.observe("tasks.get", func() error {
		var err error
		out, err = scanTask(r.db.QueryRow(
			ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`,
			id, userID,
		))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, oops.With("operation", "get task").With("task_id", id).Wrap(err)
	}

	return out, nil
}

// Update writes only the columns present in patch.
func (r *TasksRepo) Update(ctx context.Context, id int64, userID string, patch task.Patch) (task.Task, error) {
	var sets []string
	args := []any{id, userID}

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.ExpirationDate != nil {
		add("expiration_date", *patch.ExpirationDate)
	}

	if len(sets) == 0 {
		return r.GetForUser(ctx, id, userID)
	}

	query := `UPDATE tasks SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 AND user_id = $2 RETURNING ` + taskColumns

	var out task.Task
	err := r.observe("tasks.update", func() error {
		var err error
		out, err = scanTask(r.db.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, oops.With("operation", "update task").With("task_id", id).Wrap(err)
	}

	return out, nil
}

func (r *TasksRepo) Delete(ctx context.Context, id int64, userID string) error {
	var affected int64

	err := r.observe("tasks.delete", func() error {
		tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		return oops.With("operation", "delete task").With("task_id", id).Wrap(err)
	}

	if affected == 0 {
		return task.ErrNotFound
	}

	return nil
}

func listWhere(userID string, status *task.Status) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{userID}

	if status != nil {
		args = append(args, *status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *TasksRepo) List(ctx context.Context, f task.ListFilter) ([]task.Task, error) {
	col, ok := orderColumns[f.OrderBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if f.Desc {
		dir = "DESC"
	}

	where, args := listWhere(f.UserID, f.Status)
	args = append(args, f.Limit, f.Offset)

	// id breaks ties so pages stay stable
	query := `SELECT ` + taskColumns + ` FROM tasks` + where +
		fmt.Sprintf(" ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d", col, dir, dir, len(args)-1, len(args))

	out := make([]task.Task, 0, f.Limit)

	err := r.observe("tasks.list", func() error {
		rows, err := r.db.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				return err
			}
			out = append(out, t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, oops.With("operation", "list tasks").With("user_id", f.UserID).Wrap(err)
	}

	return out, nil
}

func (r *TasksRepo) Count(ctx context.Context, userID string, status *task.Status) (int, error) {
	where, args := listWhere(userID, status)

	var n int
	err := r.observe("tasks.count", func() error {
		return r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&n)
	})
	if err != nil {
		return 0, oops.With("operation", "count tasks").With("user_id", userID).Wrap(err)
	}

	return n, nil
}
