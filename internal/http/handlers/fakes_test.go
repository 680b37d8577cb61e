package handlers_test

import (
	"context"
	"net/http"

	"github.com/geocoder89/taskhub/internal/actorctx"
	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/tasks"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthService struct {
	registerFn func(ctx context.Context, name, email, password string) (user.Public, error)
	loginFn    func(ctx context.Context, email, password string) (auth.Token, error)
	logoutFn   func() (auth.CookieOptions, error)
	cookieFn   func(expiresInMinutes *int) (auth.CookieOptions, error)
}

func (f *fakeAuthService) Register(ctx context.Context, name, email, password string) (user.Public, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, name, email, password)
	}
	return user.Public{Name: name, Email: email}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (auth.Token, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, email, password)
	}
	return auth.Token{Value: "tok", ExpiresInMinutes: 60}, nil
}

func (f *fakeAuthService) Logout() (auth.CookieOptions, error) {
	if f.logoutFn != nil {
		return f.logoutFn()
	}
	return f.CookieOptions(nil)
}

func (f *fakeAuthService) CookieOptions(expiresInMinutes *int) (auth.CookieOptions, error) {
	if f.cookieFn != nil {
		return f.cookieFn(expiresInMinutes)
	}
	opts := auth.CookieOptions{HTTPOnly: true, Path: "/", SameSite: http.SameSiteStrictMode}
	if expiresInMinutes != nil {
		ms := int64(*expiresInMinutes) * 60000
		opts.MaxAgeMillis = &ms
	}
	return opts, nil
}

type fakeTaskService struct {
	listFn   func(ctx context.Context, userID string, p tasks.ListParams) (task.Page, error)
	createFn func(ctx context.Context, userID string, in tasks.CreateInput) (task.Task, error)
	updateFn func(ctx context.Context, userID, rawID string, in tasks.UpdateInput) (task.Task, error)
	deleteFn func(ctx context.Context, userID, rawID string) (tasks.DeleteResult, error)

	listCalls int
}

func (f *fakeTaskService) List(ctx context.Context, userID string, p tasks.ListParams) (task.Page, error) {
	f.listCalls++
	if f.listFn != nil {
		return f.listFn(ctx, userID, p)
	}
	return task.Page{Tasks: []task.Task{}}, nil
}

func (f *fakeTaskService) Create(ctx context.Context, userID string, in tasks.CreateInput) (task.Task, error) {
	if f.createFn != nil {
		return f.createFn(ctx, userID, in)
	}
	return task.Task{}, nil
}

func (f *fakeTaskService) Update(ctx context.Context, userID, rawID string, in tasks.UpdateInput) (task.Task, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, userID, rawID, in)
	}
	return task.Task{}, nil
}

func (f *fakeTaskService) Delete(ctx context.Context, userID, rawID string) (tasks.DeleteResult, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, userID, rawID)
	}
	return tasks.DeleteResult{Message: "Task deleted successfully"}, nil
}

// small helper function which returns the gin engine to mount one handler per test

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

// asUser stands in for the auth middleware.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := auth.Identity{UserID: userID, Name: "Alice", Email: "alice@example.com"}
		c.Request = c.Request.WithContext(actorctx.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

func setupAuthedRouter(method, path, userID string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, asUser(userID), h)

	return r
}
