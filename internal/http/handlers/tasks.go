package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/taskhub/internal/actorctx"
	"github.com/geocoder89/taskhub/internal/apperr"
	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/geocoder89/taskhub/internal/tasks"
	"github.com/geocoder89/taskhub/internal/utils"
	"github.com/gin-gonic/gin"
)

type TaskService interface {
	List(ctx context.Context, userID string, p tasks.ListParams) (task.Page, error)
	Create(ctx context.Context, userID string, in tasks.CreateInput) (task.Task, error)
	Update(ctx context.Context, userID, rawID string, in tasks.UpdateInput) (task.Task, error)
	Delete(ctx context.Context, userID, rawID string) (tasks.DeleteResult, error)
}

// ListCache holds rendered list pages per user. Optional.
type ListCache interface {
	Get(key string) (task.Page, bool)
	Set(key string, page task.Page)
	DeletePrefix(prefix string)
}

type TasksHandler struct {
	svc   TaskService
	cache ListCache
	prom  *observability.Prom
}

func NewTasksHandler(svc TaskService, cache ListCache, prom *observability.Prom) *TasksHandler {
	return &TasksHandler{svc: svc, cache: cache, prom: prom}
}

func currentUserID(ctx *gin.Context) (string, bool) {
	id, ok := actorctx.UserIDFrom(ctx.Request.Context())
	if !ok {
		RespondAppError(ctx, apperr.ErrUnauthenticated)
	}
	return id, ok
}

func (h *TasksHandler) ListTasks(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	params := tasks.ListParams{
		Status:  ctx.Query("status"),
		Page:    ctx.Query("page"),
		Limit:   ctx.Query("limit"),
		OrderBy: ctx.Query("orderBy"),
		Order:   ctx.Query("order"),
	}

	key := utils.BuildTaskListCacheKey(userID, params)
	if h.cache != nil {
		if page, ok := h.cache.Get(key); ok {
			h.prom.ObserveCache(true)
			RespondJSONWithETag(ctx, http.StatusOK, page)
			return
		}
		h.prom.ObserveCache(false)
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	page, err := h.svc.List(cctx, userID, params)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	if h.cache != nil {
		h.cache.Set(key, page)
	}

	RespondJSONWithETag(ctx, http.StatusOK, page)
}

func (h *TasksHandler) CreateTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req tasks.CreateInput
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	t, err := h.svc.Create(cctx, userID, req)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	h.invalidate(userID)
	ctx.JSON(http.StatusCreated, t)
}

func (h *TasksHandler) UpdateTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req tasks.UpdateInput
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	t, err := h.svc.Update(cctx, userID, ctx.Param("id"), req)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	h.invalidate(userID)
	ctx.JSON(http.StatusOK, t)
}

func (h *TasksHandler) DeleteTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	res, err := h.svc.Delete(cctx, userID, ctx.Param("id"))
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	h.invalidate(userID)
	ctx.JSON(http.StatusOK, res)
}

func (h *TasksHandler) invalidate(userID string) {
	if h.cache != nil {
		h.cache.DeletePrefix(utils.TaskListCachePrefix(userID))
	}
}
