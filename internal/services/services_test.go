package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/project-task-api/internal/auth"
	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/query"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/gorm"
)

type fakeGenerator struct {
	tasks []GeneratedTask
	err   error
	input string
}

func (f *fakeGenerator) GenerateTasksFromText(_ context.Context, text string) ([]GeneratedTask, error) {
	f.input = text
	return f.tasks, f.err
}

type ServicesTestSuite struct {
	suite.Suite
	ctx      context.Context
	db       *gorm.DB
	tokens   *auth.TokenManager
	auth     *AuthService
	projects *ProjectService
	tasks    *TaskService
}

func (s *ServicesTestSuite) SetupTest() {
	db, err := database.OpenSQLite(":memory:")
	s.Require().NoError(err)
	s.Require().NoError(database.Migrate(db, zerolog.Nop()))

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	s.ctx = context.Background()
	s.db = db
	s.tokens = auth.NewTokenManager("test-secret", 5*time.Minute, time.Hour)
	s.auth = NewAuthService(userRepo, projectRepo, s.tokens)
	s.projects = NewProjectService(projectRepo)
	s.tasks = NewTaskService(taskRepo, nil)
}

func (s *ServicesTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *ServicesTestSuite) register(name string) (*models.User, auth.TokenPair) {
	user, tokens, err := s.auth.Register(s.ctx, RegisterInput{
		Username:        name,
		Email:           name + "@x.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	s.Require().NoError(err)
	return user, tokens
}

func (s *ServicesTestSuite) scopeOf(tokens auth.TokenPair) auth.Scope {
	scope, err := s.auth.ResolveScope(s.ctx, tokens.Access)
	s.Require().NoError(err)
	return scope
}

func (s *ServicesTestSuite) createProject(scope auth.Scope, name string) *models.Project {
	project, err := s.projects.CreateProject(s.ctx, scope.UserID, CreateProjectInput{Name: name, Description: "d"})
	s.Require().NoError(err)
	return project
}

func (s *ServicesTestSuite) createTask(scope auth.Scope, projectID uint64, title string) *models.Task {
	task, err := s.tasks.CreateTask(s.ctx, scope, CreateTaskInput{
		ProjectID:     projectID,
		Title:         title,
		Description:   "d",
		DueDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PriorityLevel: "high",
		Status:        "to_do",
	})
	s.Require().NoError(err)
	return task
}

func (s *ServicesTestSuite) TestRegister() {
	user, tokens := s.register("alice")
	s.NotZero(user.ID)
	s.NotEqual("password123", user.PasswordHash)

	claims, err := s.tokens.Parse(tokens.Access, auth.AccessToken)
	s.Require().NoError(err)
	s.Equal(user.ID, claims.UserID)
}

func (s *ServicesTestSuite) TestRegister_ValidationOrder() {
	s.register("alice")

	tests := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{
			name:  "short password wins over mismatch and duplicates",
			input: RegisterInput{Username: "alice", Email: "alice@x.com", Password: "short", ConfirmPassword: "other"},
			want:  ErrPasswordTooShort,
		},
		{
			name:  "mismatch wins over duplicates",
			input: RegisterInput{Username: "alice", Email: "alice@x.com", Password: "password123", ConfirmPassword: "password124"},
			want:  ErrPasswordMismatch,
		},
		{
			name:  "email checked before username",
			input: RegisterInput{Username: "alice", Email: "alice@x.com", Password: "password123", ConfirmPassword: "password123"},
			want:  ErrEmailTaken,
		},
		{
			name:  "username",
			input: RegisterInput{Username: "alice", Email: "new@x.com", Password: "password123", ConfirmPassword: "password123"},
			want:  ErrUsernameTaken,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, _, err := s.auth.Register(s.ctx, tt.input)
			s.ErrorIs(err, tt.want)
		})
	}
}

func (s *ServicesTestSuite) TestLogin() {
	user, _ := s.register("alice")

	for _, identifier := range []string{"alice@x.com", "alice"} {
		got, tokens, err := s.auth.Login(s.ctx, LoginInput{UsernameOrEmail: identifier, Password: "password123"})
		s.Require().NoError(err, identifier)
		s.Equal(user.ID, got.ID)
		s.NotEmpty(tokens.Refresh)
	}

	_, _, err := s.auth.Login(s.ctx, LoginInput{UsernameOrEmail: "carol", Password: "password123"})
	s.ErrorIs(err, ErrUserNotFound)

	_, _, err = s.auth.Login(s.ctx, LoginInput{UsernameOrEmail: "alice", Password: "wrong-password"})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServicesTestSuite) TestRefresh() {
	_, tokens := s.register("alice")

	fresh, err := s.auth.Refresh(s.ctx, tokens.Refresh)
	s.Require().NoError(err)
	s.NotEmpty(fresh.Access)

	_, err = s.auth.Refresh(s.ctx, tokens.Access)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServicesTestSuite) TestResolveScope() {
	_, aliceTokens := s.register("alice")
	_, bobTokens := s.register("bob")

	alice := s.scopeOf(aliceTokens)
	p1 := s.createProject(alice, "p1")
	s.createProject(s.scopeOf(bobTokens), "bob's")
	p2 := s.createProject(alice, "p2")

	alice = s.scopeOf(aliceTokens)
	s.Equal([]uint64{p1.ID, p2.ID}, alice.ProjectIDs)

	_, err := s.auth.ResolveScope(s.ctx, aliceTokens.Refresh)
	s.ErrorIs(err, ErrInvalidToken)

	_, err = s.auth.ResolveScope(s.ctx, "garbage")
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServicesTestSuite) TestProjectOwnership() {
	_, aliceTokens := s.register("alice")
	_, bobTokens := s.register("bob")
	alice := s.scopeOf(aliceTokens)
	bob := s.scopeOf(bobTokens)

	project := s.createProject(alice, "secret")
	name := "hijacked"

	_, err := s.projects.PatchProject(s.ctx, bob, project.ID, PatchProjectInput{Name: &name})
	s.ErrorIs(err, ErrProjectNotFound)

	_, err = s.projects.ReplaceProject(s.ctx, bob, project.ID, ReplaceProjectInput{Name: name})
	s.ErrorIs(err, ErrProjectNotFound)

	s.ErrorIs(s.projects.DeleteProject(s.ctx, bob, project.ID), ErrProjectNotFound)
	s.ErrorIs(s.projects.DeleteProject(s.ctx, alice, 9999), ErrProjectNotFound)

	var stored models.Project
	s.Require().NoError(s.db.First(&stored, project.ID).Error)
	s.Equal("secret", stored.Name)
}

func (s *ServicesTestSuite) TestPatchProjectIsIdempotent() {
	_, tokens := s.register("alice")
	alice := s.scopeOf(tokens)
	project := s.createProject(alice, "p")

	name := "renamed"
	inactive := false
	patch := PatchProjectInput{Name: &name, IsActive: &inactive}

	first, err := s.projects.PatchProject(s.ctx, alice, project.ID, patch)
	s.Require().NoError(err)
	second, err := s.projects.PatchProject(s.ctx, alice, project.ID, patch)
	s.Require().NoError(err)

	s.Equal(first.Name, second.Name)
	s.Equal(first.Description, second.Description)
	s.Equal(first.IsActive, second.IsActive)
	s.Equal("d", second.Description)
	s.False(second.IsActive)
}

func (s *ServicesTestSuite) TestReplaceProjectKeepsIsActive() {
	_, tokens := s.register("alice")
	alice := s.scopeOf(tokens)
	project := s.createProject(alice, "p")

	inactive := false
	_, err := s.projects.PatchProject(s.ctx, alice, project.ID, PatchProjectInput{IsActive: &inactive})
	s.Require().NoError(err)

	replaced, err := s.projects.ReplaceProject(s.ctx, alice, project.ID, ReplaceProjectInput{Name: "new", Description: "new d"})
	s.Require().NoError(err)
	s.Equal("new", replaced.Name)
	s.False(replaced.IsActive)
}

func (s *ServicesTestSuite) TestListProjects() {
	_, tokens := s.register("alice")
	alice := s.scopeOf(tokens)
	for i := 1; i <= 25; i++ {
		s.createProject(alice, fmt.Sprintf("p%d", i))
	}

	page, err := s.projects.ListProjects(s.ctx, alice, query.Params{}, utils.NewPaginationParams(3))
	s.Require().NoError(err)
	s.Len(page.Items, 5)
	s.False(page.HasNext())
	s.True(page.HasPrevious())
	s.EqualValues(25, page.TotalCount)

	_, err = s.projects.ListProjects(s.ctx, alice, query.Params{SortBy: "newest"}, utils.NewPaginationParams(1))
	s.ErrorIs(err, query.ErrInvalidSortOption)
}

func (s *ServicesTestSuite) TestCreateTask() {
	_, aliceTokens := s.register("alice")
	_, bobTokens := s.register("bob")
	stale := s.scopeOf(aliceTokens)
	project := s.createProject(stale, "P1")

	_, err := s.tasks.CreateTask(s.ctx, stale, CreateTaskInput{ProjectID: project.ID, Title: "T0", Status: "TO_DO"})
	s.ErrorIs(err, ErrProjectNotFound, "scope resolved before the project existed")

	alice := s.scopeOf(aliceTokens)
	task := s.createTask(alice, project.ID, "T1")
	s.Equal(models.TaskStatusTodo, task.Status)
	s.True(task.IsActive)
	s.Equal("alice", task.Project.User.Username)

	input := CreateTaskInput{ProjectID: project.ID, Title: "T2", Status: "done"}
	_, err = s.tasks.CreateTask(s.ctx, alice, input)
	s.ErrorIs(err, ErrInvalidStatus)

	input.Status = ""
	defaulted, err := s.tasks.CreateTask(s.ctx, alice, input)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusTodo, defaulted.Status)

	_, err = s.tasks.CreateTask(s.ctx, s.scopeOf(bobTokens), input)
	s.ErrorIs(err, ErrProjectNotFound)

	input.ProjectID = 9999
	_, err = s.tasks.CreateTask(s.ctx, alice, input)
	s.ErrorIs(err, ErrProjectNotFound)
}

func (s *ServicesTestSuite) TestTaskMutations() {
	_, aliceTokens := s.register("alice")
	_, bobTokens := s.register("bob")
	alice := s.scopeOf(aliceTokens)
	bob := s.scopeOf(bobTokens)
	project := s.createProject(alice, "P1")
	alice = s.scopeOf(aliceTokens)
	task := s.createTask(alice, project.ID, "T1")

	status := "in_progress"
	patch := PatchTaskInput{Status: &status}

	first, err := s.tasks.PatchTask(s.ctx, alice, task.ID, patch)
	s.Require().NoError(err)
	second, err := s.tasks.PatchTask(s.ctx, alice, task.ID, patch)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusInProgress, first.Status)
	s.Equal(first.Status, second.Status)
	s.Equal(first.Title, second.Title)
	s.Equal(first.DueDate, second.DueDate)

	bad := "later"
	_, err = s.tasks.PatchTask(s.ctx, alice, task.ID, PatchTaskInput{Status: &bad})
	s.ErrorIs(err, ErrInvalidStatus)

	_, err = s.tasks.PatchTask(s.ctx, bob, task.ID, patch)
	s.ErrorIs(err, ErrTaskNotFound)

	replaced, err := s.tasks.ReplaceTask(s.ctx, alice, task.ID, ReplaceTaskInput{
		Title:         "T1 v2",
		Description:   "d2",
		DueDate:       time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		PriorityLevel: "low",
		Status:        "completed",
	})
	s.Require().NoError(err)
	s.Equal(models.TaskStatusCompleted, replaced.Status)
	s.Equal(project.ID, replaced.ProjectID)

	s.ErrorIs(s.tasks.DeleteTask(s.ctx, bob, task.ID), ErrTaskNotFound)
	s.Require().NoError(s.tasks.DeleteTask(s.ctx, alice, task.ID))
	s.ErrorIs(s.tasks.DeleteTask(s.ctx, alice, task.ID), ErrTaskNotFound)
}

func (s *ServicesTestSuite) TestListTasksUsesScope() {
	_, aliceTokens := s.register("alice")
	_, bobTokens := s.register("bob")
	alice := s.scopeOf(aliceTokens)
	bob := s.scopeOf(bobTokens)

	mine := s.createProject(alice, "mine")
	theirs := s.createProject(bob, "theirs")
	alice = s.scopeOf(aliceTokens)
	s.createTask(alice, mine.ID, "a")
	s.createTask(s.scopeOf(bobTokens), theirs.ID, "b")

	page, err := s.tasks.ListTasks(s.ctx, alice, query.Params{}, utils.NewPaginationParams(1))
	s.Require().NoError(err)
	s.Require().Len(page.Items, 1)
	s.Equal("a", page.Items[0].Title)

	empty, err := s.tasks.ListTasks(s.ctx, auth.Scope{UserID: alice.UserID}, query.Params{}, utils.NewPaginationParams(1))
	s.Require().NoError(err)
	s.Empty(empty.Items)
	s.Zero(empty.TotalCount)

	_, err = s.tasks.ListTasks(s.ctx, alice, query.Params{DueDateFrom: "2024-01-01"}, utils.NewPaginationParams(1))
	s.ErrorIs(err, query.ErrMissingRangeBound)
}

func (s *ServicesTestSuite) TestGenerateTasks() {
	_, tokens := s.register("alice")
	project := s.createProject(s.scopeOf(tokens), "P1")
	alice := s.scopeOf(tokens)

	_, err := s.tasks.GenerateTasks(s.ctx, alice, GenerateTasksInput{ProjectID: project.ID, Text: "x"})
	s.ErrorIs(err, ErrAIServiceNotConfigured)

	past, future, garbage := "2024-01-01", "2030-05-01", "soon"
	generator := &fakeGenerator{tasks: []GeneratedTask{
		{Title: "  Write report  ", DueDate: &future, PriorityLevel: "high"},
		{Title: "   "},
		{Title: "Call bob", DueDate: &past},
		{Title: "Plan", DueDate: &garbage},
	}}
	s.tasks.generator = generator
	s.tasks.now = func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }

	suggestions, err := s.tasks.GenerateTasks(s.ctx, alice, GenerateTasksInput{ProjectID: project.ID, Text: "todo list"})
	s.Require().NoError(err)
	s.Require().Len(suggestions, 3)
	s.Equal("Write report", suggestions[0].Title)
	s.Equal(&future, suggestions[0].DueDate)
	s.Nil(suggestions[1].DueDate)
	s.Nil(suggestions[2].DueDate)
	s.Equal("todo list", generator.input)

	_, err = s.tasks.GenerateTasks(s.ctx, alice, GenerateTasksInput{ProjectID: 9999, Text: "x"})
	s.ErrorIs(err, ErrProjectNotFound)

	generator.tasks = nil
	_, err = s.tasks.GenerateTasks(s.ctx, alice, GenerateTasksInput{ProjectID: project.ID, Text: "x"})
	s.ErrorIs(err, ErrAINoTasksGenerated)

	generator.err = errors.New("rate limited")
	_, err = s.tasks.GenerateTasks(s.ctx, alice, GenerateTasksInput{ProjectID: project.ID, Text: "x"})
	s.ErrorContains(err, "rate limited")
}

func TestServicesTestSuite(t *testing.T) {
	suite.Run(t, new(ServicesTestSuite))
}
