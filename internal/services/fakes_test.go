package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"taskcontrol/internal/models"
	"taskcontrol/internal/repositories"
)

// Фейки репозиториев для юнит-тестов сервисов. Транзакция эмулируется
// fakeTxRunner: fn получает nil *sql.Tx, фейковые Tx-методы его игнорируют.

type fakeTxRunner struct {
	calls int
	fail  error // если задан, InTx не вызывает fn и возвращает его
}

func (f *fakeTxRunner) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	f.calls++
	if f.fail != nil {
		return f.fail
	}
	return fn(nil)
}

// --- projects ---

type fakeProjectRepo struct {
	projects map[int64]*models.Project
	byKey    map[string]*models.Project
	members  map[int64][]models.ProjectMember // projectID -> members
	counter  map[int64]int64

	memberAdds []models.ProjectMember

	incrementErr error
	nextID       int64
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects: map[int64]*models.Project{},
		byKey:    map[string]*models.Project{},
		members:  map[int64][]models.ProjectMember{},
		counter:  map[int64]int64{},
		nextID:   1,
	}
}

func (f *fakeProjectRepo) add(p *models.Project) *models.Project {
	if p.ID == 0 {
		p.ID = f.nextID
		f.nextID++
	}
	f.projects[p.ID] = p
	f.byKey[p.Key] = p
	f.counter[p.ID] = p.TaskCounter
	return p
}

func (f *fakeProjectRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *models.Project) error {
	f.add(p)
	return nil
}

func (f *fakeProjectRepo) AddMemberTx(ctx context.Context, tx *sql.Tx, m *models.ProjectMember) error {
	f.members[m.ProjectID] = append(f.members[m.ProjectID], *m)
	f.memberAdds = append(f.memberAdds, *m)
	return nil
}

func (f *fakeProjectRepo) IncrementTaskCounterTx(ctx context.Context, tx *sql.Tx, projectID int64) (int64, error) {
	if f.incrementErr != nil {
		return 0, f.incrementErr
	}
	f.counter[projectID]++
	return f.counter[projectID], nil
}

func (f *fakeProjectRepo) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	return f.projects[id], nil
}

func (f *fakeProjectRepo) FindByKey(ctx context.Context, key string) (*models.Project, error) {
	return f.byKey[key], nil
}

func (f *fakeProjectRepo) ListForUser(ctx context.Context, userID int64) ([]models.ProjectView, error) {
	return nil, nil
}

func (f *fakeProjectRepo) GetView(ctx context.Context, id int64) (*models.ProjectView, error) {
	p := f.projects[id]
	if p == nil {
		return nil, nil
	}
	return &models.ProjectView{Project: *p, Members: f.members[id]}, nil
}

func (f *fakeProjectRepo) Update(ctx context.Context, p *models.Project) error {
	f.projects[p.ID] = p
	f.byKey[p.Key] = p
	return nil
}

func (f *fakeProjectRepo) Delete(ctx context.Context, id int64) error {
	if p := f.projects[id]; p != nil {
		delete(f.byKey, p.Key)
	}
	delete(f.projects, id)
	return nil
}

func (f *fakeProjectRepo) AddMember(ctx context.Context, m *models.ProjectMember) error {
	return f.AddMemberTx(ctx, nil, m)
}

func (f *fakeProjectRepo) GetMember(ctx context.Context, projectID, userID int64) (*models.ProjectMember, error) {
	for _, m := range f.members[projectID] {
		if m.UserID == userID {
			mm := m
			return &mm, nil
		}
	}
	return nil, nil
}

func (f *fakeProjectRepo) ListMembers(ctx context.Context, projectID int64) ([]models.ProjectMember, error) {
	return f.members[projectID], nil
}

func (f *fakeProjectRepo) RemoveMember(ctx context.Context, projectID, userID int64) error {
	kept := f.members[projectID][:0]
	for _, m := range f.members[projectID] {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	f.members[projectID] = kept
	return nil
}

// --- boards ---

type fakeBoardRepo struct {
	boards map[int64]*models.Board
	nextID int64
}

func newFakeBoardRepo() *fakeBoardRepo {
	return &fakeBoardRepo{boards: map[int64]*models.Board{}, nextID: 1}
}

func (f *fakeBoardRepo) Create(ctx context.Context, b *models.Board) error {
	return f.CreateTx(ctx, nil, b)
}

func (f *fakeBoardRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *models.Board) error {
	b.ID = f.nextID
	f.nextID++
	b.CreatedAt = time.Now()
	f.boards[b.ID] = b
	return nil
}

func (f *fakeBoardRepo) FindByID(ctx context.Context, id int64) (*models.Board, error) {
	return f.boards[id], nil
}

func (f *fakeBoardRepo) ListByProject(ctx context.Context, projectID int64) ([]models.Board, error) {
	var out []models.Board
	for _, b := range f.boards {
		if b.ProjectID == projectID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBoardRepo) Rename(ctx context.Context, id int64, name string) error {
	if b := f.boards[id]; b != nil {
		b.Name = name
	}
	return nil
}

func (f *fakeBoardRepo) Delete(ctx context.Context, id int64) error {
	delete(f.boards, id)
	return nil
}

// --- tasks ---

type fakeTaskRepo struct {
	tasks     map[int64]*models.Task
	positions map[string]int // "boardID/status" -> следующая позиция
	updates   []repositories.TaskUpdate
	insertErr error
	nextID    int64
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{
		tasks:     map[int64]*models.Task{},
		positions: map[string]int{},
		nextID:    1,
	}
}

func posKey(boardID int64, status models.TaskStatus) string {
	return fmt.Sprintf("%d/%s", boardID, status)
}

func (f *fakeTaskRepo) add(t *models.Task) *models.Task {
	if t.ID == 0 {
		t.ID = f.nextID
		f.nextID++
	}
	f.tasks[t.ID] = t
	return t
}

func (f *fakeTaskRepo) InsertTx(ctx context.Context, tx *sql.Tx, t *models.Task) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.add(t)
	f.positions[posKey(t.BoardID, t.Status)] = t.Position + 1
	return nil
}

func (f *fakeTaskRepo) NextPositionTx(ctx context.Context, tx *sql.Tx, boardID int64, status models.TaskStatus) (int, error) {
	return f.positions[posKey(boardID, status)], nil
}

func (f *fakeTaskRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id int64, upd repositories.TaskUpdate) error {
	f.updates = append(f.updates, upd)
	t := f.tasks[id]
	if t == nil {
		return nil
	}
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	if upd.Priority != nil {
		t.Priority = *upd.Priority
	}
	if upd.AssigneeID != nil {
		t.AssigneeID = upd.AssigneeID
	}
	if upd.ClearAssignee {
		t.AssigneeID = nil
	}
	if upd.Position != nil {
		t.Position = *upd.Position
	}
	return nil
}

func (f *fakeTaskRepo) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	return f.tasks[id], nil
}

func (f *fakeTaskRepo) GetView(ctx context.Context, id int64) (*models.TaskView, error) {
	t := f.tasks[id]
	if t == nil {
		return nil, nil
	}
	return &models.TaskView{Task: *t}, nil
}

func (f *fakeTaskRepo) ListByProject(ctx context.Context, projectID int64, filter models.TaskFilter) ([]models.TaskView, error) {
	var out []models.TaskView
	for _, t := range f.tasks {
		if t.ProjectID == projectID {
			out = append(out, models.TaskView{Task: *t})
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) ListByBoard(ctx context.Context, boardID int64) ([]models.TaskView, error) {
	var out []models.TaskView
	for _, t := range f.tasks {
		if t.BoardID == boardID {
			out = append(out, models.TaskView{Task: *t})
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) CountByBoard(ctx context.Context, boardID int64) (int, error) {
	n := 0
	for _, t := range f.tasks {
		if t.BoardID == boardID {
			n++
		}
	}
	return n, nil
}

func (f *fakeTaskRepo) CountByProject(ctx context.Context, projectID int64) (int, error) {
	n := 0
	for _, t := range f.tasks {
		if t.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id int64) error {
	delete(f.tasks, id)
	return nil
}

// --- labels ---

type fakeLabelRepo struct {
	labels   map[int64]*models.Label
	attached map[int64][]int64 // taskID -> labelIDs
	nextID   int64
}

func newFakeLabelRepo() *fakeLabelRepo {
	return &fakeLabelRepo{labels: map[int64]*models.Label{}, attached: map[int64][]int64{}, nextID: 1}
}

func (f *fakeLabelRepo) Create(ctx context.Context, l *models.Label) error {
	l.ID = f.nextID
	f.nextID++
	f.labels[l.ID] = l
	return nil
}

func (f *fakeLabelRepo) FindByID(ctx context.Context, id int64) (*models.Label, error) {
	return f.labels[id], nil
}

func (f *fakeLabelRepo) FindByName(ctx context.Context, projectID int64, name string) (*models.Label, error) {
	for _, l := range f.labels {
		if l.ProjectID == projectID && l.Name == name {
			return l, nil
		}
	}
	return nil, nil
}

func (f *fakeLabelRepo) ListByProject(ctx context.Context, projectID int64) ([]models.Label, error) {
	var out []models.Label
	for _, l := range f.labels {
		if l.ProjectID == projectID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeLabelRepo) Update(ctx context.Context, l *models.Label) error {
	f.labels[l.ID] = l
	return nil
}

func (f *fakeLabelRepo) Delete(ctx context.Context, id int64) error {
	delete(f.labels, id)
	return nil
}

func (f *fakeLabelRepo) AttachTx(ctx context.Context, tx *sql.Tx, taskID int64, labelIDs []int64) error {
	f.attached[taskID] = append(f.attached[taskID], labelIDs...)
	return nil
}

func (f *fakeLabelRepo) Attach(ctx context.Context, taskID, labelID int64) error {
	return f.AttachTx(ctx, nil, taskID, []int64{labelID})
}

func (f *fakeLabelRepo) Detach(ctx context.Context, taskID, labelID int64) error {
	kept := f.attached[taskID][:0]
	for _, id := range f.attached[taskID] {
		if id != labelID {
			kept = append(kept, id)
		}
	}
	f.attached[taskID] = kept
	return nil
}

// --- comments ---

type fakeCommentRepo struct {
	comments map[int64]*models.Comment
	nextID   int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[int64]*models.Comment{}, nextID: 1}
}

func (f *fakeCommentRepo) InsertTx(ctx context.Context, tx *sql.Tx, c *models.Comment) error {
	c.ID = f.nextID
	f.nextID++
	c.CreatedAt = time.Now()
	f.comments[c.ID] = c
	return nil
}

func (f *fakeCommentRepo) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	return f.comments[id], nil
}

func (f *fakeCommentRepo) GetView(ctx context.Context, id int64) (*models.CommentView, error) {
	c := f.comments[id]
	if c == nil {
		return nil, nil
	}
	return &models.CommentView{Comment: *c}, nil
}

func (f *fakeCommentRepo) ListByTask(ctx context.Context, taskID int64) ([]models.CommentView, error) {
	var out []models.CommentView
	for _, c := range f.comments {
		if c.TaskID == taskID {
			out = append(out, models.CommentView{Comment: *c})
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) UpdateContent(ctx context.Context, id int64, content string) error {
	if c := f.comments[id]; c != nil {
		c.Content = content
		c.Edited = true
	}
	return nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, id int64) error {
	delete(f.comments, id)
	return nil
}

// --- activities ---

type fakeActivityRepo struct {
	appended  []*models.Activity
	appendErr error
	nextID    int64
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{nextID: 1}
}

func (f *fakeActivityRepo) AppendTx(ctx context.Context, tx *sql.Tx, a *models.Activity) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	a.ID = f.nextID
	f.nextID++
	a.CreatedAt = time.Now()
	f.appended = append(f.appended, a)
	return nil
}

func (f *fakeActivityRepo) ListRecentByTask(ctx context.Context, taskID int64, limit int) ([]models.Activity, error) {
	var out []models.Activity
	for i := len(f.appended) - 1; i >= 0 && len(out) < limit; i-- {
		if f.appended[i].TaskID == taskID {
			out = append(out, *f.appended[i])
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) byAction(action models.ActivityAction) []*models.Activity {
	var out []*models.Activity
	for _, a := range f.appended {
		if a.Action == action {
			out = append(out, a)
		}
	}
	return out
}

// --- users ---

type fakeUserRepo struct {
	users      map[int64]*models.User
	byEmail    map[string]*models.User
	byUsername map[string]*models.User
	byRefresh  map[string]*models.User
	nextID     int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:      map[int64]*models.User{},
		byEmail:    map[string]*models.User{},
		byUsername: map[string]*models.User{},
		byRefresh:  map[string]*models.User{},
		nextID:     1,
	}
}

func (f *fakeUserRepo) add(u *models.User) *models.User {
	if u.ID == 0 {
		u.ID = f.nextID
		f.nextID++
	}
	f.users[u.ID] = u
	f.byEmail[u.Email] = u
	f.byUsername[u.Username] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	u.IsActive = true
	u.CreatedAt = time.Now()
	f.add(u)
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.byUsername[username], nil
}

func (f *fakeUserRepo) Search(ctx context.Context, query string, limit int) ([]models.UserSummary, error) {
	return nil, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, id int64, fullName string, avatar *string) error {
	if u := f.users[id]; u != nil {
		u.FullName = fullName
		u.Avatar = avatar
	}
	return nil
}

func (f *fakeUserRepo) UpdateRefresh(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	u := f.users[userID]
	if u == nil {
		return nil
	}
	if u.RefreshToken != nil {
		delete(f.byRefresh, *u.RefreshToken)
	}
	u.RefreshToken = &token
	u.RefreshExpiresAt = &expiresAt
	f.byRefresh[token] = u
	return nil
}

func (f *fakeUserRepo) FindByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	return f.byRefresh[token], nil
}

func (f *fakeUserRepo) ClearRefresh(ctx context.Context, userID int64) error {
	u := f.users[userID]
	if u == nil {
		return nil
	}
	if u.RefreshToken != nil {
		delete(f.byRefresh, *u.RefreshToken)
	}
	u.RefreshToken = nil
	u.RefreshExpiresAt = nil
	return nil
}

func (f *fakeUserRepo) GetNotifySettings(ctx context.Context, userID int64) (int64, bool, bool, string, error) {
	u := f.users[userID]
	if u == nil {
		return 0, false, false, "", nil
	}
	return u.TelegramChatID, u.NotifyTelegram, u.NotifyEmail, u.Email, nil
}
