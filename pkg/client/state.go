package client

import (
	"sort"
	"strings"
)

// State is an immutable snapshot of the mirror. Boards is the source of
// truth; Lists and Tasks are flattened from it by every reducer.
type State struct {
	Boards []Board
	Lists  []List
	Tasks  []Task
}

// The reducers below take a State and a server result and return a new
// State. They never modify their input.

// Loaded builds the mirror from a full board fetch, keeping only what userID owns.
func Loaded(boards []Board, userID uint64) State {
	owned := make([]Board, 0, len(boards))
	for _, board := range boards {
		if board.UserID != userID {
			continue
		}
		lists := make([]List, len(board.Lists))
		for i, list := range board.Lists {
			list.Tasks = sortTasks(filterTasks(list.Tasks, func(t Task) bool { return t.UserID == userID }))
			lists[i] = list
		}
		board.Lists = sortLists(lists)
		owned = append(owned, board)
	}
	return flatten(owned)
}

// Cleared is the empty mirror.
func Cleared() State {
	return flatten(nil)
}

func TaskCreated(s State, task Task) State {
	return withLists(s, func(list List) List {
		if list.ID != task.ListID {
			return list
		}
		list.Tasks = sortTasks(append(cloneTasks(list.Tasks), task))
		return list
	})
}

func TaskUpdated(s State, task Task) State {
	return withLists(s, func(list List) List {
		tasks := filterTasks(list.Tasks, func(t Task) bool { return t.ID != task.ID })
		if list.ID == task.ListID {
			tasks = append(tasks, task)
		}
		list.Tasks = sortTasks(tasks)
		return list
	})
}

func TaskDeleted(s State, taskID uint64) State {
	return withLists(s, func(list List) List {
		list.Tasks = filterTasks(list.Tasks, func(t Task) bool { return t.ID != taskID })
		return list
	})
}

// TaskMoved moves the mirrored task to toListID. Only its list reference changes.
func TaskMoved(s State, taskID, toListID uint64) State {
	task, ok := findTask(s.Tasks, taskID)
	if !ok {
		return s
	}
	task.ListID = toListID
	return TaskUpdated(s, task)
}

func ListCreated(s State, list List) State {
	list.Tasks = sortTasks(cloneTasks(list.Tasks))
	return withBoards(s, func(board Board) Board {
		if board.ID != list.BoardID {
			return board
		}
		board.Lists = sortLists(append(cloneLists(board.Lists), list))
		return board
	})
}

// ListUpdated replaces a list's own fields and keeps its mirrored tasks.
func ListUpdated(s State, updated List) State {
	return withBoards(s, func(board Board) Board {
		lists := make([]List, len(board.Lists))
		for i, list := range board.Lists {
			if list.ID == updated.ID {
				tasks := list.Tasks
				list = updated
				list.Tasks = tasks
			}
			lists[i] = list
		}
		board.Lists = sortLists(lists)
		return board
	})
}

// ListDeleted drops a list and its tasks.
func ListDeleted(s State, listID uint64) State {
	return withBoards(s, func(board Board) Board {
		board.Lists = filterLists(board.Lists, func(l List) bool { return l.ID != listID })
		return board
	})
}

// BoardUpdated replaces a board's own fields and keeps its mirrored lists.
func BoardUpdated(s State, updated Board) State {
	return withBoards(s, func(board Board) Board {
		if board.ID != updated.ID {
			return board
		}
		lists := board.Lists
		board = updated
		board.Lists = lists
		return board
	})
}

// BoardDeleted drops a board with everything under it.
func BoardDeleted(s State, boardID uint64) State {
	boards := make([]Board, 0, len(s.Boards))
	for _, board := range s.Boards {
		if board.ID != boardID {
			boards = append(boards, board)
		}
	}
	return flatten(boards)
}

// Views. Every view re-checks ownership against userID.

func (s State) TasksByList(listID, userID uint64) []Task {
	for _, list := range s.Lists {
		if list.ID == listID {
			return filterTasks(list.Tasks, ownedBy(userID))
		}
	}
	return []Task{}
}

func (s State) TasksByBoard(boardID, userID uint64) []Task {
	result := []Task{}
	for _, board := range s.Boards {
		if board.ID != boardID {
			continue
		}
		for _, list := range board.Lists {
			result = append(result, filterTasks(list.Tasks, ownedBy(userID))...)
		}
	}
	return result
}

// SearchTasks matches query case-insensitively against title and description.
func (s State) SearchTasks(query string, userID uint64) []Task {
	query = strings.ToLower(query)
	return filterTasks(s.Tasks, func(t Task) bool {
		return t.UserID == userID &&
			(strings.Contains(strings.ToLower(t.Title), query) ||
				strings.Contains(strings.ToLower(t.Description), query))
	})
}

func (s State) TasksByTag(tag string, userID uint64) []Task {
	return filterTasks(s.Tasks, func(t Task) bool {
		if t.UserID != userID {
			return false
		}
		for _, candidate := range t.Tags {
			if candidate == tag {
				return true
			}
		}
		return false
	})
}

func (s State) TasksByPriority(priority Priority, userID uint64) []Task {
	return filterTasks(s.Tasks, func(t Task) bool {
		return t.UserID == userID && t.Priority == priority
	})
}

func (s State) board(id uint64) (Board, bool) {
	for _, board := range s.Boards {
		if board.ID == id {
			return board, true
		}
	}
	return Board{}, false
}

func withBoards(s State, fn func(Board) Board) State {
	boards := make([]Board, len(s.Boards))
	for i, board := range s.Boards {
		boards[i] = fn(board)
	}
	return flatten(boards)
}

func withLists(s State, fn func(List) List) State {
	return withBoards(s, func(board Board) Board {
		lists := make([]List, len(board.Lists))
		for i, list := range board.Lists {
			lists[i] = fn(list)
		}
		board.Lists = lists
		return board
	})
}

func flatten(boards []Board) State {
	if boards == nil {
		boards = []Board{}
	}
	lists := []List{}
	tasks := []Task{}
	for _, board := range boards {
		for _, list := range board.Lists {
			lists = append(lists, list)
			tasks = append(tasks, list.Tasks...)
		}
	}
	return State{Boards: boards, Lists: lists, Tasks: sortTasks(tasks)}
}

func findTask(tasks []Task, id uint64) (Task, bool) {
	for _, task := range tasks {
		if task.ID == id {
			return task, true
		}
	}
	return Task{}, false
}

func ownedBy(userID uint64) func(Task) bool {
	return func(t Task) bool { return t.UserID == userID }
}

func filterTasks(tasks []Task, keep func(Task) bool) []Task {
	result := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if keep(task) {
			result = append(result, task)
		}
	}
	return result
}

func filterLists(lists []List, keep func(List) bool) []List {
	result := make([]List, 0, len(lists))
	for _, list := range lists {
		if keep(list) {
			result = append(result, list)
		}
	}
	return result
}

func cloneTasks(tasks []Task) []Task {
	return append(make([]Task, 0, len(tasks)+1), tasks...)
}

func cloneLists(lists []List) []List {
	return append(make([]List, 0, len(lists)+1), lists...)
}

// sortTasks returns a copy ordered newest first.
func sortTasks(tasks []Task) []Task {
	sorted := append(make([]Task, 0, len(tasks)), tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	return sorted
}

func sortLists(lists []List) []List {
	sorted := append(make([]List, 0, len(lists)), lists...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}
