package apiclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mytasks/internal/apiclient"
	"mytasks/internal/service"
	"mytasks/internal/session"
	"mytasks/internal/testutil"
)

func newClient(t *testing.T, svc *testutil.FakeService) *apiclient.Client {
	t.Helper()
	proxy := testutil.NewProxy(t, svc)
	jar, err := apiclient.OpenJar(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	return apiclient.New(proxy.URL, jar, nil)
}

func TestClient_Session(t *testing.T) {
	svc := testutil.NewFakeService()
	c := newClient(t, svc)
	ctx := context.Background()

	assert.False(t, c.LoggedIn())

	user, err := c.Register(ctx, service.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, c.LoggedIn())

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, user, me)

	require.NoError(t, c.Logout(ctx))
	assert.False(t, c.LoggedIn())

	_, err = c.Me(ctx)
	assert.Equal(t, http.StatusUnauthorized, apiclient.StatusOf(err))
}

func TestClient_Tasks(t *testing.T) {
	svc := testutil.NewFakeService()
	c := newClient(t, svc)
	ctx := context.Background()

	_, err := c.Register(ctx, service.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	task, err := c.CreateTask(ctx, service.CreateTaskInput{Title: "Write report"})
	require.NoError(t, err)

	task, err = c.UpdateTaskStatus(ctx, task.ID, service.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, service.StatusDone, task.Status)

	page, err := c.ListTasks(ctx, service.TaskFilters{Search: "report"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	require.NoError(t, c.DeleteTask(ctx, task.ID))
	_, err = c.GetTask(ctx, task.ID)

	var apiErr *apiclient.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Error", apiErr.Code)
	assert.Equal(t, "task not found", apiErr.Error())
}

func TestClient_RefreshesOnce(t *testing.T) {
	svc := testutil.NewFakeService()
	c := newClient(t, svc)
	ctx := context.Background()

	_, err := c.Login(ctx, service.LoginInput{Email: "ada@example.com", Password: "secret1"})
	assert.Equal(t, http.StatusUnauthorized, apiclient.StatusOf(err))

	res := svc.AddUser("Ada", "ada@example.com", "secret1")
	// A stale access cookie next to a valid refresh cookie.
	c.Jar().SetCookies(nil, []*http.Cookie{
		{Name: session.AccessCookie, Value: "stale", MaxAge: 60},
		{Name: session.RefreshCookie, Value: res.RefreshToken, MaxAge: 60},
	})

	_, err = c.ListTasks(ctx, service.TaskFilters{})
	require.NoError(t, err)
	assert.Equal(t, 1, svc.Calls("Refresh"))
	assert.Equal(t, 2, svc.Calls("ListTasks"))

	// A failed refresh returns the original error.
	svc.RefreshErr = errors.New("down")
	c.Jar().SetCookies(nil, []*http.Cookie{{Name: session.AccessCookie, Value: "stale", MaxAge: 60}})
	_, err = c.ListTasks(ctx, service.TaskFilters{})
	assert.Equal(t, http.StatusUnauthorized, apiclient.StatusOf(err))
	assert.Equal(t, 2, svc.Calls("Refresh"))
	assert.False(t, c.LoggedIn())
}

func TestClient_RefusesCrossHostRedirect(t *testing.T) {
	var leaked []*http.Cookie
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		leaked = r.Cookies()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(other.Close)

	hops := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hops++
		if hops == 1 {
			http.Redirect(w, r, "/api/auth/me?again=1", http.StatusFound)
			return
		}
		http.Redirect(w, r, other.URL+"/steal", http.StatusFound)
	}))
	t.Cleanup(server.Close)

	jar, err := apiclient.OpenJar(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	jar.SetCookies(nil, []*http.Cookie{
		{Name: session.AccessCookie, Value: "a", MaxAge: 900},
		{Name: session.RefreshCookie, Value: "r", MaxAge: 3600},
	})
	c := apiclient.New(server.URL, jar, nil)

	_, err = c.Me(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "refusing redirect")
	assert.Equal(t, 2, hops, "same-host redirects are followed")
	assert.Empty(t, leaked)
}
