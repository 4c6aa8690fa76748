// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"mytasks/internal/backend/restapi"
	"mytasks/internal/devbackend"
	"mytasks/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// It keeps real state in a devbackend.Store and mimics the REST client's
// errors, so callers see *googleapi.Error values with backend status codes.
type FakeService struct {
	Store *devbackend.Store

	mu    sync.Mutex
	calls map[string]int

	// Error injection for testing
	LoginErr            error
	RegisterErr         error
	RefreshErr          error
	LogoutErr           error
	MeErr               error
	ListTasksErr        error
	CreateTaskErr       error
	GetTaskErr          error
	UpdateTaskErr       error
	UpdateTaskStatusErr error
	DeleteTaskErr       error

	// Malformed makes every successful call return a value that fails
	// validation.
	Malformed bool
}

var _ service.Service = (*FakeService)(nil)

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	store := devbackend.NewStore([]byte("test-secret"))
	store.SetHashCost(bcrypt.MinCost)
	return &FakeService{Store: store, calls: make(map[string]int)}
}

// AddUser registers an account and returns its sign-in result.
func (f *FakeService) AddUser(name, email, password string) service.AuthResult {
	res, err := f.Store.Register(service.RegisterInput{Name: name, Email: email, Password: password})
	if err != nil {
		panic("testutil: AddUser: " + err.Error())
	}
	return res
}

// AddTask creates a task owned by userID.
func (f *FakeService) AddTask(userID, title string) service.Task {
	t, err := f.Store.CreateTask(userID, service.CreateTaskInput{Title: title})
	if err != nil {
		panic("testutil: AddTask: " + err.Error())
	}
	return t
}

// Calls returns how many times method was invoked.
func (f *FakeService) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *FakeService) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, in service.LoginInput) (service.AuthResult, error) {
	f.record("Login")
	if f.LoginErr != nil {
		return service.AuthResult{}, f.LoginErr
	}
	res, err := f.Store.Login(in)
	if err != nil {
		return service.AuthResult{}, statusError(err)
	}
	if f.Malformed {
		res.RefreshToken = ""
	}
	return res, nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, in service.RegisterInput) (service.AuthResult, error) {
	f.record("Register")
	if f.RegisterErr != nil {
		return service.AuthResult{}, f.RegisterErr
	}
	res, err := f.Store.Register(in)
	if err != nil {
		return service.AuthResult{}, statusError(err)
	}
	if f.Malformed {
		res.User.Email = "not-an-email"
	}
	return res, nil
}

// Refresh implements service.Service.
func (f *FakeService) Refresh(ctx context.Context, refreshToken string) (service.AuthTokens, error) {
	f.record("Refresh")
	if f.RefreshErr != nil {
		return service.AuthTokens{}, f.RefreshErr
	}
	tokens, err := f.Store.Refresh(refreshToken)
	if err != nil {
		return service.AuthTokens{}, statusError(err)
	}
	if f.Malformed {
		tokens.AccessToken = ""
	}
	return tokens, nil
}

// Logout implements service.Service.
func (f *FakeService) Logout(ctx context.Context, refreshToken string) error {
	f.record("Logout")
	if f.LogoutErr != nil {
		return f.LogoutErr
	}
	f.Store.Logout(refreshToken)
	return nil
}

// Me implements service.Service.
func (f *FakeService) Me(ctx context.Context, accessToken string) (service.User, error) {
	f.record("Me")
	if f.MeErr != nil {
		return service.User{}, f.MeErr
	}
	u, err := f.Store.Authenticate(accessToken)
	if err != nil {
		return service.User{}, statusError(err)
	}
	if f.Malformed {
		u.ID = "42"
	}
	return u, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, accessToken string, filters service.TaskFilters) (service.TaskPage, error) {
	f.record("ListTasks")
	if f.ListTasksErr != nil {
		return service.TaskPage{}, f.ListTasksErr
	}
	u, err := f.Store.Authenticate(accessToken)
	if err != nil {
		return service.TaskPage{}, statusError(err)
	}
	page, err := f.Store.ListTasks(u.ID, filters)
	if err != nil {
		return service.TaskPage{}, statusError(err)
	}
	if f.Malformed {
		page.Data = append(page.Data, service.Task{ID: "bad", Status: service.StatusPending, Priority: service.PriorityLow})
	}
	return page, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, accessToken string, in service.CreateTaskInput) (service.Task, error) {
	f.record("CreateTask")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	return f.taskCall(accessToken, func(userID string) (service.Task, error) {
		return f.Store.CreateTask(userID, in)
	})
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, accessToken, id string) (service.Task, error) {
	f.record("GetTask")
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	return f.taskCall(accessToken, func(userID string) (service.Task, error) {
		return f.Store.GetTask(userID, id)
	})
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, accessToken, id string, in service.UpdateTaskInput) (service.Task, error) {
	f.record("UpdateTask")
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	return f.taskCall(accessToken, func(userID string) (service.Task, error) {
		return f.Store.UpdateTask(userID, id, in)
	})
}

// UpdateTaskStatus implements service.Service.
func (f *FakeService) UpdateTaskStatus(ctx context.Context, accessToken, id string, in service.UpdateTaskStatusInput) (service.Task, error) {
	f.record("UpdateTaskStatus")
	if f.UpdateTaskStatusErr != nil {
		return service.Task{}, f.UpdateTaskStatusErr
	}
	return f.taskCall(accessToken, func(userID string) (service.Task, error) {
		return f.Store.UpdateStatus(userID, id, in)
	})
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, accessToken, id string) error {
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	u, err := f.Store.Authenticate(accessToken)
	if err != nil {
		return statusError(err)
	}
	if err := f.Store.DeleteTask(u.ID, id); err != nil {
		return statusError(err)
	}
	return nil
}

func (f *FakeService) taskCall(accessToken string, fn func(userID string) (service.Task, error)) (service.Task, error) {
	u, err := f.Store.Authenticate(accessToken)
	if err != nil {
		return service.Task{}, statusError(err)
	}
	t, err := fn(u.ID)
	if err != nil {
		return service.Task{}, statusError(err)
	}
	if f.Malformed {
		t.Title = ""
	}
	return t, nil
}

// statusError converts store errors into the errors the REST client returns
// for the matching backend responses.
func statusError(err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return restapi.NewStatusError(http.StatusBadRequest, verr.Error())
	case errors.Is(err, devbackend.ErrInvalidCursor):
		return restapi.NewStatusError(http.StatusBadRequest, err.Error())
	case errors.Is(err, devbackend.ErrInvalidCredentials):
		return restapi.NewStatusError(http.StatusUnauthorized, devbackend.ErrInvalidCredentials.Error())
	case errors.Is(err, devbackend.ErrInvalidToken):
		return restapi.NewStatusError(http.StatusUnauthorized, devbackend.ErrInvalidToken.Error())
	case errors.Is(err, devbackend.ErrNotFound):
		return restapi.NewStatusError(http.StatusNotFound, "task not found")
	case errors.Is(err, devbackend.ErrEmailTaken):
		return restapi.NewStatusError(http.StatusConflict, err.Error())
	default:
		return err
	}
}
