package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskcontrol/internal/apperr"
	"taskcontrol/internal/models"
)

type projectServiceFixture struct {
	svc      ProjectService
	txr      *fakeTxRunner
	projects *fakeProjectRepo
	boards   *fakeBoardRepo
	users    *fakeUserRepo
}

func newProjectServiceFixture() *projectServiceFixture {
	f := &projectServiceFixture{
		txr:      &fakeTxRunner{},
		projects: newFakeProjectRepo(),
		boards:   newFakeBoardRepo(),
		users:    newFakeUserRepo(),
	}
	f.svc = NewProjectService(f.txr, f.projects, f.boards, f.users)
	return f
}

func TestProjectCreate_SeedsOwnerAndDefaultBoard(t *testing.T) {
	f := newProjectServiceFixture()

	view, err := f.svc.Create(context.Background(), CreateProjectInput{Name: "Shop", Key: "ECOM"}, 1)
	require.NoError(t, err)
	assert.Equal(t, "ECOM", view.Key)
	assert.Equal(t, models.VisibilityPrivate, view.Visibility, "private by default")

	require.Len(t, f.projects.memberAdds, 1)
	assert.Equal(t, int64(1), f.projects.memberAdds[0].UserID)
	assert.Equal(t, models.RoleAdmin, f.projects.memberAdds[0].Role)

	boards, err := f.boards.ListByProject(context.Background(), view.ID)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, "Main Board", boards[0].Name)
	assert.Equal(t, models.BoardKanban, boards[0].Type)
}

func TestProjectCreate_KeyValidation(t *testing.T) {
	f := newProjectServiceFixture()

	for _, key := range []string{"E", "ecom", "1ABC", "ABCDEFGHIJK", "AB-C", ""} {
		_, err := f.svc.Create(context.Background(), CreateProjectInput{Name: "x", Key: key}, 1)
		require.Error(t, err, "key %q must be rejected", key)
		appErr := apperr.From(err)
		require.NotNil(t, appErr)
		assert.Equal(t, 400, appErr.Status)
	}

	for _, key := range []string{"AB", "ECOM", "A1", "ABCDEFGHIJ"} {
		_, err := f.svc.Create(context.Background(), CreateProjectInput{Name: "x", Key: key}, 1)
		require.NoError(t, err, "key %q must be accepted", key)
	}
}

func TestProjectCreate_DuplicateKey(t *testing.T) {
	f := newProjectServiceFixture()
	f.projects.add(&models.Project{Key: "ECOM", OwnerID: 2})

	_, err := f.svc.Create(context.Background(), CreateProjectInput{Name: "x", Key: "ECOM"}, 1)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

func TestProjectGetByID_PrivateNeedsMembership(t *testing.T) {
	f := newProjectServiceFixture()
	p := f.projects.add(&models.Project{Key: "ECOM", OwnerID: 1, Visibility: models.VisibilityPrivate})

	_, err := f.svc.GetByID(context.Background(), p.ID, 99)
	require.Error(t, err)
	appErr := apperr.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 403, appErr.Status)

	// владелец проходит всегда
	_, err = f.svc.GetByID(context.Background(), p.ID, 1)
	require.NoError(t, err)
}

func TestProjectGetByID_PublicIsOpen(t *testing.T) {
	f := newProjectServiceFixture()
	p := f.projects.add(&models.Project{Key: "ECOM", OwnerID: 1, Visibility: models.VisibilityPublic})

	_, err := f.svc.GetByID(context.Background(), p.ID, 99)
	require.NoError(t, err)
}

func TestProjectDelete_OwnerOnly(t *testing.T) {
	f := newProjectServiceFixture()
	p := f.projects.add(&models.Project{Key: "ECOM", OwnerID: 1})
	f.projects.members[p.ID] = []models.ProjectMember{{ProjectID: p.ID, UserID: 2, Role: models.RoleAdmin}}

	// даже ADMIN-участник удалить не может
	err := f.svc.Delete(context.Background(), p.ID, 2)
	require.Error(t, err)
	appErr := apperr.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 403, appErr.Status)

	require.NoError(t, f.svc.Delete(context.Background(), p.ID, 1))
}

func TestProjectAddMember_Defaults(t *testing.T) {
	f := newProjectServiceFixture()
	p := f.projects.add(&models.Project{Key: "ECOM", OwnerID: 1})
	f.users.add(&models.User{ID: 5, Username: "dev"})

	member, err := f.svc.AddMember(context.Background(), p.ID, 5, "", 1)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, member.Role, "MEMBER is the default role")
	require.NotNil(t, member.User)
	assert.Equal(t, "dev", member.User.Username)
}

func TestProjectAddMember_Duplicate(t *testing.T) {
	f := newProjectServiceFixture()
	p := f.projects.add(&models.Project{Key: "ECOM", OwnerID: 1})
	f.users.add(&models.User{ID: 5, Username: "dev"})

	_, err := f.svc.AddMember(context.Background(), p.ID, 5, models.RoleViewer, 1)
	require.NoError(t, err)
	_, err = f.svc.AddMember(context.Background(), p.ID, 5, models.RoleViewer, 1)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

func TestProjectAddMember_UnknownUser(t *testing.T) {
	f := newProjectServiceFixture()
	p := f.projects.add(&models.Project{Key: "ECOM", OwnerID: 1})

	_, err := f.svc.AddMember(context.Background(), p.ID, 404, models.RoleMember, 1)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestProjectRemoveMember_OwnerIsProtected(t *testing.T) {
	f := newProjectServiceFixture()
	p := f.projects.add(&models.Project{Key: "ECOM", OwnerID: 1})

	err := f.svc.RemoveMember(context.Background(), p.ID, 1, 1)
	require.Error(t, err)
	appErr := apperr.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 400, appErr.Status)
}

func TestCheckMemberRole_OwnerBypassesMembership(t *testing.T) {
	f := newProjectServiceFixture()
	p := f.projects.add(&models.Project{Key: "ECOM", OwnerID: 1})

	// у владельца нет строки участника, но проверка проходит
	require.NoError(t, f.svc.CheckMemberRole(context.Background(), p.ID, 1, models.RoleAdmin))
}

func TestCheckMemberRole_RoleMatrix(t *testing.T) {
	f := newProjectServiceFixture()
	p := f.projects.add(&models.Project{Key: "ECOM", OwnerID: 1})
	f.projects.members[p.ID] = []models.ProjectMember{
		{ProjectID: p.ID, UserID: 2, Role: models.RoleMember},
	}

	require.NoError(t, f.svc.CheckMemberRole(context.Background(), p.ID, 2, models.RoleMember))

	err := f.svc.CheckMemberRole(context.Background(), p.ID, 2, models.RoleAdmin)
	require.Error(t, err)
	appErr := apperr.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 403, appErr.Status)

	// не участник
	err = f.svc.CheckMemberRole(context.Background(), p.ID, 99, models.RoleViewer)
	require.Error(t, err)
}

func TestCheckMemberRole_RankOrdering(t *testing.T) {
	f := newProjectServiceFixture()
	p := f.projects.add(&models.Project{Key: "ECOM", OwnerID: 1})
	f.projects.members[p.ID] = []models.ProjectMember{
		{ProjectID: p.ID, UserID: 2, Role: models.RoleAdmin},
		{ProjectID: p.ID, UserID: 3, Role: models.RoleViewer},
	}

	// роль выше минимальной проходит
	require.NoError(t, f.svc.CheckMemberRole(context.Background(), p.ID, 2, models.RoleMember))
	require.NoError(t, f.svc.CheckMemberRole(context.Background(), p.ID, 3, models.RoleViewer))

	err := f.svc.CheckMemberRole(context.Background(), p.ID, 3, models.RoleMember)
	require.Error(t, err)
	appErr := apperr.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 403, appErr.Status)
}

func TestCheckMemberRole_UnknownProject(t *testing.T) {
	f := newProjectServiceFixture()
	err := f.svc.CheckMemberRole(context.Background(), 404, 1, models.RoleAdmin)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
