package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskcontrol/internal/apperr"
	"taskcontrol/internal/models"
)

type labelServiceFixture struct {
	svc      LabelService
	labels   *fakeLabelRepo
	tasks    *fakeTaskRepo
	projects *fakeProjectRepo
}

func newLabelServiceFixture() *labelServiceFixture {
	f := &labelServiceFixture{
		labels:   newFakeLabelRepo(),
		tasks:    newFakeTaskRepo(),
		projects: newFakeProjectRepo(),
	}
	projectSvc := NewProjectService(&fakeTxRunner{}, f.projects, newFakeBoardRepo(), newFakeUserRepo())
	f.svc = NewLabelService(f.labels, f.tasks, projectSvc)
	return f
}

func TestLabelCreate_DuplicateNameInProject(t *testing.T) {
	f := newLabelServiceFixture()
	f.projects.add(&models.Project{ID: 1, Key: "ECOM", OwnerID: 1})

	_, err := f.svc.Create(context.Background(), 1, "bug", "#ff0000", 1)
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), 1, "bug", "#00ff00", 1)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

func TestLabelCreate_SameNameInDifferentProjects(t *testing.T) {
	f := newLabelServiceFixture()
	f.projects.add(&models.Project{ID: 1, Key: "ECOM", OwnerID: 1})
	f.projects.add(&models.Project{ID: 2, Key: "CRM", OwnerID: 1})

	_, err := f.svc.Create(context.Background(), 1, "bug", "#ff0000", 1)
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), 2, "bug", "#ff0000", 1)
	require.NoError(t, err, "uniqueness is per project")
}

func TestLabelCreate_AdminOnly(t *testing.T) {
	f := newLabelServiceFixture()
	f.projects.add(&models.Project{ID: 1, Key: "ECOM", OwnerID: 1})
	f.projects.members[1] = []models.ProjectMember{{ProjectID: 1, UserID: 2, Role: models.RoleMember}}

	_, err := f.svc.Create(context.Background(), 1, "bug", "#ff0000", 2)
	require.Error(t, err)
	appErr := apperr.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 403, appErr.Status)
}

func TestLabelUpdate_RenameToTakenName(t *testing.T) {
	f := newLabelServiceFixture()
	f.projects.add(&models.Project{ID: 1, Key: "ECOM", OwnerID: 1})

	_, err := f.svc.Create(context.Background(), 1, "bug", "#ff0000", 1)
	require.NoError(t, err)
	second, err := f.svc.Create(context.Background(), 1, "feature", "#00ff00", 1)
	require.NoError(t, err)

	taken := "bug"
	_, err = f.svc.Update(context.Background(), second.ID, &taken, nil, 1)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))

	// смена только цвета проходит
	color := "#0000ff"
	updated, err := f.svc.Update(context.Background(), second.ID, nil, &color, 1)
	require.NoError(t, err)
	assert.Equal(t, "#0000ff", updated.Color)
	assert.Equal(t, "feature", updated.Name)
}

func TestLabelAddToTask(t *testing.T) {
	f := newLabelServiceFixture()
	f.projects.add(&models.Project{ID: 1, Key: "ECOM", OwnerID: 1})
	f.tasks.add(&models.Task{ID: 10, ProjectID: 1})
	label, err := f.svc.Create(context.Background(), 1, "bug", "#ff0000", 1)
	require.NoError(t, err)

	got, err := f.svc.AddToTask(context.Background(), 10, label.ID)
	require.NoError(t, err)
	assert.Equal(t, label.ID, got.ID)
	assert.Equal(t, []int64{label.ID}, f.labels.attached[10])

	require.NoError(t, f.svc.RemoveFromTask(context.Background(), 10, label.ID))
	assert.Empty(t, f.labels.attached[10])
}

func TestLabelAddToTask_UnknownTaskOrLabel(t *testing.T) {
	f := newLabelServiceFixture()
	f.projects.add(&models.Project{ID: 1, Key: "ECOM", OwnerID: 1})
	f.tasks.add(&models.Task{ID: 10, ProjectID: 1})

	_, err := f.svc.AddToTask(context.Background(), 404, 1)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	_, err = f.svc.AddToTask(context.Background(), 10, 404)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
