package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskcontrol/internal/apperr"
	"taskcontrol/internal/models"
)

type boardServiceFixture struct {
	svc      BoardService
	boards   *fakeBoardRepo
	tasks    *fakeTaskRepo
	projects *fakeProjectRepo
}

func newBoardServiceFixture() *boardServiceFixture {
	f := &boardServiceFixture{
		boards:   newFakeBoardRepo(),
		tasks:    newFakeTaskRepo(),
		projects: newFakeProjectRepo(),
	}
	projectSvc := NewProjectService(&fakeTxRunner{}, f.projects, f.boards, newFakeUserRepo())
	f.svc = NewBoardService(f.boards, f.tasks, projectSvc)
	return f
}

func TestBoardDelete_RefusedWhileTasksRemain(t *testing.T) {
	f := newBoardServiceFixture()
	f.projects.add(&models.Project{ID: 1, Key: "ECOM", OwnerID: 1})
	board := &models.Board{ProjectID: 1, Name: "Sprint"}
	require.NoError(t, f.boards.Create(context.Background(), board))
	f.tasks.add(&models.Task{ID: 1, ProjectID: 1, BoardID: board.ID})

	err := f.svc.Delete(context.Background(), board.ID, 1)
	require.Error(t, err)
	appErr := apperr.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 400, appErr.Status)

	// после удаления задачи доска сносится
	require.NoError(t, f.tasks.Delete(context.Background(), 1))
	require.NoError(t, f.svc.Delete(context.Background(), board.ID, 1))
}

func TestBoardDelete_AdminOnly(t *testing.T) {
	f := newBoardServiceFixture()
	f.projects.add(&models.Project{ID: 1, Key: "ECOM", OwnerID: 1})
	f.projects.members[1] = []models.ProjectMember{{ProjectID: 1, UserID: 2, Role: models.RoleMember}}
	board := &models.Board{ProjectID: 1, Name: "Sprint"}
	require.NoError(t, f.boards.Create(context.Background(), board))

	err := f.svc.Delete(context.Background(), board.ID, 2)
	require.Error(t, err)
	appErr := apperr.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 403, appErr.Status)
}

func TestBoardCreate_AdminOnly(t *testing.T) {
	f := newBoardServiceFixture()
	f.projects.add(&models.Project{ID: 1, Key: "ECOM", OwnerID: 1})
	f.projects.members[1] = []models.ProjectMember{{ProjectID: 1, UserID: 2, Role: models.RoleViewer}}

	_, err := f.svc.Create(context.Background(), 1, "Sprint", 2)
	require.Error(t, err)

	board, err := f.svc.Create(context.Background(), 1, "Sprint", 1)
	require.NoError(t, err)
	assert.Equal(t, models.BoardKanban, board.Type)
}

func TestBoardGetByID_HydratesTasks(t *testing.T) {
	f := newBoardServiceFixture()
	board := &models.Board{ProjectID: 1, Name: "Sprint"}
	require.NoError(t, f.boards.Create(context.Background(), board))
	f.tasks.add(&models.Task{ID: 1, BoardID: board.ID})
	f.tasks.add(&models.Task{ID: 2, BoardID: board.ID})

	view, err := f.svc.GetByID(context.Background(), board.ID)
	require.NoError(t, err)
	assert.Len(t, view.Tasks, 2)
}

func TestBoardGetByID_NotFound(t *testing.T) {
	f := newBoardServiceFixture()
	_, err := f.svc.GetByID(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
