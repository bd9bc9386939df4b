package client

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	ErrNotSignedIn     = errors.New("not signed in")
	ErrTitleRequired   = errors.New("title is required")
	ErrListIDRequired  = errors.New("listId is required")
	ErrBoardIDRequired = errors.New("boardId is required")
	ErrForeignUser     = errors.New("resource does not belong to the current user")
	ErrTaskNotFound    = errors.New("task not found")
)

// Store mirrors the signed-in user's boards, lists and tasks. Each mutation
// validates locally, calls the API, then patches the mirror with the server's
// answer. Store is safe for concurrent use; no lock is held across a request.
type Store struct {
	client *Client

	mu           sync.RWMutex
	principal    *User
	state        State
	currentBoard uint64
	err          error
}

func NewStore(client *Client) *Store {
	return &Store{
		client: client,
		state:  Cleared(),
	}
}

// SetPrincipal switches the signed-in user. A nil user clears the mirror
// immediately; otherwise the mirror is reloaded from the server.
func (s *Store) SetPrincipal(ctx context.Context, user *User, token string) error {
	s.mu.Lock()
	if user == nil {
		s.principal = nil
		s.state = Cleared()
		s.currentBoard = 0
		s.err = nil
		s.client.SetToken("")
		s.mu.Unlock()
		return nil
	}
	principal := *user
	s.principal = &principal
	s.state = Cleared()
	s.currentBoard = 0
	s.err = nil
	s.client.SetToken(token)
	s.mu.Unlock()

	return s.Reload(ctx)
}

// Principal returns the signed-in user, or nil.
func (s *Store) Principal() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return nil
	}
	user := *s.principal
	return &user
}

// Reload replaces the mirror with a fresh board fetch.
func (s *Store) Reload(ctx context.Context) error {
	user, err := s.requirePrincipal()
	if err != nil {
		return err
	}

	boards, err := s.client.ListBoards(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.principal == nil || s.principal.ID != user.ID {
		// signed out or switched user while fetching
		return err
	}
	if err != nil {
		s.err = err
		return err
	}
	s.state = Loaded(boards, user.ID)
	if _, ok := s.state.board(s.currentBoard); !ok {
		s.currentBoard = 0
		if len(s.state.Boards) > 0 {
			s.currentBoard = s.state.Boards[0].ID
		}
	}
	s.err = nil
	return nil
}

// Tasks

func (s *Store) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	user, err := s.requirePrincipal()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, s.fail(ErrTitleRequired)
	}
	if req.ListID == 0 {
		return nil, s.fail(ErrListIDRequired)
	}
	if req.UserID != nil && *req.UserID != user.ID {
		return nil, s.fail(ErrForeignUser)
	}

	task, err := s.client.CreateTask(ctx, req)
	if err != nil {
		return nil, s.fail(err)
	}
	if task.UserID != user.ID {
		return nil, s.fail(ErrForeignUser)
	}

	if !s.mirrorsList(task.ListID) {
		return task, s.Reload(ctx)
	}
	s.apply(user.ID, func(st State) State { return TaskCreated(st, *task) })
	return task, nil
}

func (s *Store) UpdateTask(ctx context.Context, id uint64, req UpdateTaskRequest) (*Task, error) {
	user, err := s.requirePrincipal()
	if err != nil {
		return nil, err
	}
	if err := s.checkTaskOwner(id, user.ID); err != nil {
		return nil, s.fail(err)
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, s.fail(ErrTitleRequired)
	}

	task, err := s.client.UpdateTask(ctx, id, req)
	if err != nil {
		return nil, s.fail(err)
	}
	if task.UserID != user.ID {
		return nil, s.fail(ErrForeignUser)
	}

	s.apply(user.ID, func(st State) State { return TaskUpdated(st, *task) })
	return task, nil
}

func (s *Store) DeleteTask(ctx context.Context, id uint64) error {
	user, err := s.requirePrincipal()
	if err != nil {
		return err
	}
	if err := s.checkTaskOwner(id, user.ID); err != nil {
		return s.fail(err)
	}

	if err := s.client.DeleteTask(ctx, id); err != nil {
		return s.fail(err)
	}

	s.apply(user.ID, func(st State) State { return TaskDeleted(st, id) })
	return nil
}

// MoveTask reassigns a mirrored task to toListID.
func (s *Store) MoveTask(ctx context.Context, id, toListID uint64) error {
	user, err := s.requirePrincipal()
	if err != nil {
		return err
	}
	if toListID == 0 {
		return s.fail(ErrListIDRequired)
	}
	task, ok := s.findTask(id)
	if !ok {
		return s.fail(ErrTaskNotFound)
	}
	if task.UserID != user.ID {
		return s.fail(ErrForeignUser)
	}

	if _, err := s.client.MoveTask(ctx, id, toListID); err != nil {
		return s.fail(err)
	}

	s.apply(user.ID, func(st State) State { return TaskMoved(st, id, toListID) })
	return nil
}

// ToggleTaskCompletion flips the completed flag of a mirrored task.
func (s *Store) ToggleTaskCompletion(ctx context.Context, id uint64) (*Task, error) {
	user, err := s.requirePrincipal()
	if err != nil {
		return nil, err
	}
	task, ok := s.findTask(id)
	if !ok {
		return nil, s.fail(ErrTaskNotFound)
	}
	if task.UserID != user.ID {
		return nil, s.fail(ErrForeignUser)
	}

	completed := !task.Completed
	return s.UpdateTask(ctx, id, UpdateTaskRequest{Completed: &completed})
}

// Lists

func (s *Store) CreateList(ctx context.Context, req CreateListRequest) (*List, error) {
	user, err := s.requirePrincipal()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, s.fail(ErrTitleRequired)
	}
	if req.BoardID == 0 {
		return nil, s.fail(ErrBoardIDRequired)
	}

	list, err := s.client.CreateList(ctx, req)
	if err != nil {
		return nil, s.fail(err)
	}

	s.apply(user.ID, func(st State) State { return ListCreated(st, *list) })
	return list, nil
}

func (s *Store) UpdateList(ctx context.Context, id uint64, req UpdateListRequest) (*List, error) {
	user, err := s.requirePrincipal()
	if err != nil {
		return nil, err
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, s.fail(ErrTitleRequired)
	}

	list, err := s.client.UpdateList(ctx, id, req)
	if err != nil {
		return nil, s.fail(err)
	}

	s.apply(user.ID, func(st State) State { return ListUpdated(st, *list) })
	return list, nil
}

func (s *Store) DeleteList(ctx context.Context, id uint64) error {
	user, err := s.requirePrincipal()
	if err != nil {
		return err
	}

	if err := s.client.DeleteList(ctx, id); err != nil {
		return s.fail(err)
	}

	s.apply(user.ID, func(st State) State { return ListDeleted(st, id) })
	return nil
}

// Boards

// CreateBoard creates a board and reloads the mirror so the server's default
// lists show up.
func (s *Store) CreateBoard(ctx context.Context, req CreateBoardRequest) (*Board, error) {
	user, err := s.requirePrincipal()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, s.fail(ErrTitleRequired)
	}
	if req.UserID != nil && *req.UserID != user.ID {
		return nil, s.fail(ErrForeignUser)
	}

	board, err := s.client.CreateBoard(ctx, req)
	if err != nil {
		return nil, s.fail(err)
	}

	if err := s.Reload(ctx); err != nil {
		return board, err
	}
	return board, nil
}

func (s *Store) UpdateBoard(ctx context.Context, id uint64, title string) (*Board, error) {
	user, err := s.requirePrincipal()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, s.fail(ErrTitleRequired)
	}

	board, err := s.client.UpdateBoard(ctx, id, title)
	if err != nil {
		return nil, s.fail(err)
	}

	s.apply(user.ID, func(st State) State { return BoardUpdated(st, *board) })
	return board, nil
}

func (s *Store) DeleteBoard(ctx context.Context, id uint64) error {
	user, err := s.requirePrincipal()
	if err != nil {
		return err
	}

	if err := s.client.DeleteBoard(ctx, id); err != nil {
		return s.fail(err)
	}

	s.apply(user.ID, func(st State) State { return BoardDeleted(st, id) })

	s.mu.Lock()
	if s.currentBoard == id {
		s.currentBoard = 0
	}
	s.mu.Unlock()
	return nil
}

// SetCurrentBoard selects a mirrored board. Unknown ids are ignored and
// reported as false.
func (s *Store) SetCurrentBoard(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.board(id); !ok {
		return false
	}
	s.currentBoard = id
	return true
}

// CurrentBoard returns the selected board as currently mirrored.
func (s *Store) CurrentBoard() (Board, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentBoard == 0 {
		return Board{}, false
	}
	return s.state.board(s.currentBoard)
}

// Snapshot returns the whole mirror. The returned State must be treated as
// read-only.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Boards() []Board { return s.Snapshot().Boards }
func (s *Store) Lists() []List   { return s.Snapshot().Lists }
func (s *Store) Tasks() []Task   { return s.Snapshot().Tasks }

// Err returns the error of the last failed operation, cleared by the next
// successful one.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Derived views

func (s *Store) TasksByList(listID uint64) []Task {
	st, userID := s.view()
	return st.TasksByList(listID, userID)
}

func (s *Store) TasksByBoard(boardID uint64) []Task {
	st, userID := s.view()
	return st.TasksByBoard(boardID, userID)
}

func (s *Store) SearchTasks(query string) []Task {
	st, userID := s.view()
	return st.SearchTasks(query, userID)
}

func (s *Store) TasksByTag(tag string) []Task {
	st, userID := s.view()
	return st.TasksByTag(tag, userID)
}

func (s *Store) TasksByPriority(priority Priority) []Task {
	st, userID := s.view()
	return st.TasksByPriority(priority, userID)
}

func (s *Store) view() (State, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return Cleared(), 0
	}
	return s.state, s.principal.ID
}

func (s *Store) requirePrincipal() (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.principal == nil {
		s.err = ErrNotSignedIn
		return User{}, ErrNotSignedIn
	}
	return *s.principal, nil
}

func (s *Store) findTask(id uint64) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findTask(s.state.Tasks, id)
}

func (s *Store) mirrorsList(id uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, list := range s.state.Lists {
		if list.ID == id {
			return true
		}
	}
	return false
}

// checkTaskOwner rejects tasks mirrored under another user. Tasks missing from
// the mirror are left for the server to decide.
func (s *Store) checkTaskOwner(id, userID uint64) error {
	if task, ok := s.findTask(id); ok && task.UserID != userID {
		return ErrForeignUser
	}
	return nil
}

// apply patches the mirror unless the principal changed while the request
// was in flight.
func (s *Store) apply(userID uint64, reduce func(State) State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.principal == nil || s.principal.ID != userID {
		return
	}
	s.state = reduce(s.state)
	s.err = nil
}

func (s *Store) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	return err
}
