package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard-api/internal/database"
	"github.com/yukikurage/taskboard-api/internal/handlers"
	"github.com/yukikurage/taskboard-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer runs the real API against an in-memory database.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(newTestRouter(t))
	t.Cleanup(server.Close)
	return server
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	_, err = database.MigrateDatabase(db)
	require.NoError(t, err)

	router := handlers.NewRouter(handlers.Dependencies{
		DB:             db,
		SessionStore:   cookie.NewStore([]byte("session-secret")),
		Tokens:         services.NewTokenService("test-secret", time.Hour),
		FrontendURL:    "http://frontend.test",
		SeedAdminEmail: "admin@mycollab.local",
	})

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return router
}

// signIn registers a fresh account and returns a store signed in as it.
func signIn(t *testing.T, server *httptest.Server, email string) (*Store, *User) {
	t.Helper()
	ctx := context.Background()

	c := NewClient(server.URL, WithHTTPClient(server.Client()))
	auth, err := c.Register(ctx, RegisterRequest{Email: email, Password: "password123"})
	require.NoError(t, err)

	store := NewStore(c)
	require.NoError(t, store.SetPrincipal(ctx, &auth.User, auth.Token))
	return store, &auth.User
}

func listByTitle(t *testing.T, lists []List, title string) List {
	t.Helper()
	for _, list := range lists {
		if list.Title == title {
			return list
		}
	}
	t.Fatalf("list %q not mirrored", title)
	return List{}
}

func TestStoreBoardLifecycle(t *testing.T) {
	server := newTestServer(t)
	store, user := signIn(t, server, "p1@example.com")
	ctx := context.Background()

	assert.Empty(t, store.Boards())

	board, err := store.CreateBoard(ctx, CreateBoardRequest{Title: "Launch"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, board.UserID)

	require.Len(t, store.Boards(), 1)
	lists := store.Lists()
	require.Len(t, lists, 4)
	assert.Equal(t, []string{"Today", "This Week", "Later", "Doing"},
		[]string{lists[0].Title, lists[1].Title, lists[2].Title, lists[3].Title})

	current, ok := store.CurrentBoard()
	require.True(t, ok)
	assert.Equal(t, board.ID, current.ID)

	renamed, err := store.UpdateBoard(ctx, board.ID, "Relaunch")
	require.NoError(t, err)
	assert.Equal(t, "Relaunch", renamed.Title)
	assert.Equal(t, "Relaunch", store.Boards()[0].Title)
	assert.Len(t, store.Boards()[0].Lists, 4, "rename keeps mirrored lists")

	require.NoError(t, store.DeleteBoard(ctx, board.ID))
	assert.Empty(t, store.Boards())
	assert.Empty(t, store.Lists())
	_, ok = store.CurrentBoard()
	assert.False(t, ok)

	remote, err := store.client.ListBoards(ctx)
	require.NoError(t, err)
	assert.Empty(t, remote)
}

func TestStoreTaskLifecycle(t *testing.T) {
	server := newTestServer(t)
	store, user := signIn(t, server, "p1@example.com")
	ctx := context.Background()

	board, err := store.CreateBoard(ctx, CreateBoardRequest{Title: "Launch"})
	require.NoError(t, err)
	today := listByTitle(t, store.Lists(), "Today")
	thisWeek := listByTitle(t, store.Lists(), "This Week")

	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	first, err := store.CreateTask(ctx, CreateTaskRequest{
		Title:    "Write spec",
		ListID:   today.ID,
		Priority: PriorityHigh,
		DueDate:  &due,
		Tags:     []string{"docs"},
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, first.UserID)

	second, err := store.CreateTask(ctx, CreateTaskRequest{Title: "Review", ListID: today.ID})
	require.NoError(t, err)

	assert.Equal(t, []uint64{second.ID, first.ID}, taskIDs(store.TasksByList(today.ID)))
	assert.Len(t, store.TasksByBoard(board.ID), 2)
	assert.Equal(t, []uint64{first.ID}, taskIDs(store.TasksByPriority(PriorityHigh)))
	assert.Equal(t, []uint64{first.ID}, taskIDs(store.TasksByTag("docs")))
	assert.Equal(t, []uint64{first.ID}, taskIDs(store.SearchTasks("SPEC")))

	require.NoError(t, store.MoveTask(ctx, first.ID, thisWeek.ID))
	assert.Equal(t, []uint64{second.ID}, taskIDs(store.TasksByList(today.ID)))
	assert.Equal(t, []uint64{first.ID}, taskIDs(store.TasksByList(thisWeek.ID)))

	remote, err := store.client.GetTask(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, thisWeek.ID, remote.ListID)
	assert.Equal(t, "Write spec", remote.Title)

	toggled, err := store.ToggleTaskCompletion(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	mirrored, ok := findTask(store.Tasks(), first.ID)
	require.True(t, ok)
	assert.True(t, mirrored.Completed)

	cleared, err := store.UpdateTask(ctx, first.ID, UpdateTaskRequest{ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.DueDate)

	require.NoError(t, store.DeleteTask(ctx, second.ID))
	assert.Empty(t, store.TasksByList(today.ID))
	assert.Len(t, store.Tasks(), 1)
}

func TestStoreListLifecycle(t *testing.T) {
	server := newTestServer(t)
	store, _ := signIn(t, server, "p1@example.com")
	ctx := context.Background()

	board, err := store.CreateBoard(ctx, CreateBoardRequest{Title: "Launch"})
	require.NoError(t, err)

	order := 9
	list, err := store.CreateList(ctx, CreateListRequest{Title: "Someday", BoardID: board.ID, Order: &order})
	require.NoError(t, err)
	require.Len(t, store.Lists(), 5)
	assert.Equal(t, "Someday", store.Lists()[4].Title)

	_, err = store.CreateTask(ctx, CreateTaskRequest{Title: "Maybe", ListID: list.ID})
	require.NoError(t, err)

	title := "Eventually"
	updated, err := store.UpdateList(ctx, list.ID, UpdateListRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Eventually", updated.Title)
	assert.Len(t, store.TasksByList(list.ID), 1)

	require.NoError(t, store.DeleteList(ctx, list.ID))
	assert.Len(t, store.Lists(), 4)
	assert.Empty(t, store.Tasks())
}

func TestStoreLocalValidation(t *testing.T) {
	server := newTestServer(t)
	store, user := signIn(t, server, "p1@example.com")
	ctx := context.Background()

	_, err := store.CreateTask(ctx, CreateTaskRequest{Title: "  ", ListID: 1})
	assert.ErrorIs(t, err, ErrTitleRequired)
	assert.ErrorIs(t, store.Err(), ErrTitleRequired)

	_, err = store.CreateTask(ctx, CreateTaskRequest{Title: "x"})
	assert.ErrorIs(t, err, ErrListIDRequired)

	other := user.ID + 100
	_, err = store.CreateTask(ctx, CreateTaskRequest{Title: "x", ListID: 1, UserID: &other})
	assert.ErrorIs(t, err, ErrForeignUser)

	_, err = store.CreateBoard(ctx, CreateBoardRequest{Title: "x", UserID: &other})
	assert.ErrorIs(t, err, ErrForeignUser)

	_, err = store.CreateList(ctx, CreateListRequest{Title: "Someday"})
	assert.ErrorIs(t, err, ErrBoardIDRequired)

	assert.ErrorIs(t, store.MoveTask(ctx, 12345, 1), ErrTaskNotFound)
	assert.ErrorIs(t, store.MoveTask(ctx, 12345, 0), ErrListIDRequired)

	_, err = store.ToggleTaskCompletion(ctx, 12345)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	board, err := store.CreateBoard(ctx, CreateBoardRequest{Title: "Launch"})
	require.NoError(t, err)
	assert.NoError(t, store.Err(), "success clears the last error")
	assert.NotZero(t, board.ID)
}

func TestStoreSurfacesServerErrors(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	owner, _ := signIn(t, server, "p1@example.com")
	_, err := owner.CreateBoard(ctx, CreateBoardRequest{Title: "Launch"})
	require.NoError(t, err)
	today := listByTitle(t, owner.Lists(), "Today")
	task, err := owner.CreateTask(ctx, CreateTaskRequest{Title: "Write spec", ListID: today.ID})
	require.NoError(t, err)

	intruder, _ := signIn(t, server, "p2@example.com")
	assert.Empty(t, intruder.Boards())

	title := "hijacked"
	_, err = intruder.UpdateTask(ctx, task.ID, UpdateTaskRequest{Title: &title})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Task not found", apiErr.Message)
	assert.Equal(t, err, intruder.Err())

	_, err = intruder.CreateTask(ctx, CreateTaskRequest{Title: "sneaky", ListID: today.ID})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	remote, err := owner.client.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write spec", remote.Title)
}

func TestStoreSetPrincipal(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	store, user := signIn(t, server, "p1@example.com")
	token := store.client.Token()
	_, err := store.CreateBoard(ctx, CreateBoardRequest{Title: "Launch"})
	require.NoError(t, err)
	require.Len(t, store.Lists(), 4)

	require.NoError(t, store.SetPrincipal(ctx, nil, ""))
	assert.Nil(t, store.Principal())
	assert.Empty(t, store.Boards())
	assert.Empty(t, store.Lists())
	assert.Empty(t, store.Tasks())
	assert.Empty(t, store.client.Token())
	assert.Empty(t, store.SearchTasks(""))

	_, err = store.CreateTask(ctx, CreateTaskRequest{Title: "x", ListID: 1})
	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.ErrorIs(t, store.Reload(ctx), ErrNotSignedIn)

	require.NoError(t, store.SetPrincipal(ctx, user, token))
	assert.Len(t, store.Boards(), 1)
	assert.Len(t, store.Lists(), 4)
	assert.True(t, store.SetCurrentBoard(store.Boards()[0].ID))
	assert.False(t, store.SetCurrentBoard(999))
}

func TestClientAPIErrors(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()
	c := NewClient(server.URL+"/", WithHTTPClient(server.Client()))

	health, err := c.Health(ctx)
	require.NoError(t, err)
	assert.True(t, health.OK)

	_, err = c.ListBoards(ctx)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Authentication required", apiErr.Message)

	_, err = c.Login(ctx, "nobody@example.com", "password123")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	_, err = c.Register(ctx, RegisterRequest{Email: "p1@example.com", Password: "password123"})
	require.NoError(t, err)
	_, err = c.Register(ctx, RegisterRequest{Email: "P1@example.com", Password: "password123"})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestClientAdminEndpoints(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()
	c := NewClient(server.URL, WithHTTPClient(server.Client()))

	admin, err := c.Register(ctx, RegisterRequest{Email: "first@example.com", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, admin.User.Role)
	member, err := c.Register(ctx, RegisterRequest{Email: "second@example.com", Password: "password123"})
	require.NoError(t, err)

	c.SetToken(admin.Token)
	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, admin.User.ID, me.ID)

	users, page, err := c.ListUsers(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, int64(2), page.Total)

	promoted, err := c.ChangeRole(ctx, member.User.ID, RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, promoted.Role)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Len(t, stats.Growth, 6)

	require.NoError(t, c.DeleteUser(ctx, member.User.ID))
	users, _, err = c.ListUsers(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestStoreCreateTaskInUnmirroredListReloads(t *testing.T) {
	server := newTestServer(t)
	store, _ := signIn(t, server, "p1@example.com")
	ctx := context.Background()

	// created behind the store's back, e.g. from another tab
	board, err := store.client.CreateBoard(ctx, CreateBoardRequest{Title: "Launch"})
	require.NoError(t, err)
	lists, err := store.client.ListLists(ctx, board.ID)
	require.NoError(t, err)
	today := listByTitle(t, lists, "Today")
	assert.Empty(t, store.Lists())

	task, err := store.CreateTask(ctx, CreateTaskRequest{Title: "Write spec", ListID: today.ID})
	require.NoError(t, err)

	assert.Len(t, store.Lists(), 4)
	assert.Equal(t, []uint64{task.ID}, taskIDs(store.TasksByList(today.ID)))
}

func TestStoreReloadFailureAfterSignOutIsDropped(t *testing.T) {
	router := newTestRouter(t)
	ctx := context.Background()

	var store *Store
	var failNextFetch atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/api/boards" && failNextFetch.CompareAndSwap(true, false) {
			// the user signs out while the fetch is in flight
			assert.NoError(t, store.SetPrincipal(context.Background(), nil, ""))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"Internal server error"}`))
			return
		}
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	c := NewClient(server.URL, WithHTTPClient(server.Client()))
	auth, err := c.Register(ctx, RegisterRequest{Email: "p1@example.com", Password: "password123"})
	require.NoError(t, err)

	store = NewStore(c)
	failNextFetch.Store(true)
	err = store.SetPrincipal(ctx, &auth.User, auth.Token)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Nil(t, store.Principal())
	assert.NoError(t, store.Err(), "stale failure must not leak into the signed-out store")
}
