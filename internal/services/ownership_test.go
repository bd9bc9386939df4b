package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard-api/internal/models"
)

func TestOwnerResolvers(t *testing.T) {
	repos := newTestRepos(t)
	owner := repos.createUser(t, "owner@example.com")
	other := repos.createUser(t, "other@example.com")

	board := &models.Board{Title: "B", UserID: owner.ID}
	require.NoError(t, repos.boards.CreateWithLists(board, []models.List{{Title: "L"}}))
	list := board.Lists[0]

	task := &models.Task{Title: "T", ListID: list.ID, UserID: owner.ID, Priority: models.PriorityLow}
	require.NoError(t, repos.tasks.Create(task))

	// A task whose user disagrees with its board owner is treated as missing
	stray := &models.Task{Title: "stray", ListID: list.ID, UserID: other.ID, Priority: models.PriorityLow}
	require.NoError(t, repos.tasks.Create(stray))

	boardOwner := BoardOwner{Boards: repos.boards}
	listOwner := ListOwner{Lists: repos.lists, Boards: repos.boards}
	taskOwner := TaskOwner{Tasks: repos.tasks, Lists: repos.lists, Boards: repos.boards}

	for _, resolver := range []struct {
		r  OwnerResolver
		id uint64
	}{
		{boardOwner, board.ID},
		{listOwner, list.ID},
		{taskOwner, task.ID},
	} {
		got, err := resolver.r.ResolveOwner(resolver.id)
		require.NoError(t, err, resolver.r.Kind())
		assert.Equal(t, owner.ID, got, resolver.r.Kind())

		_, err = resolver.r.ResolveOwner(987654)
		assert.ErrorIs(t, err, ErrResourceNotFound, resolver.r.Kind())
	}

	_, err := taskOwner.ResolveOwner(stray.ID)
	assert.ErrorIs(t, err, ErrResourceNotFound)

	assert.Equal(t, "board", boardOwner.Kind())
	assert.Equal(t, "list", listOwner.Kind())
	assert.Equal(t, "task", taskOwner.Kind())
}
