package database

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/query"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/gorm"
)

type ScopesTestSuite struct {
	suite.Suite
	db    *gorm.DB
	alice *models.User
	bob   *models.User
}

func (s *ScopesTestSuite) SetupTest() {
	db, err := OpenSQLite(":memory:")
	s.Require().NoError(err)
	s.Require().NoError(Migrate(db, zerolog.Nop()))
	s.db = db

	s.alice = s.createUser("alice")
	s.bob = s.createUser("bob")
}

func (s *ScopesTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *ScopesTestSuite) createUser(name string) *models.User {
	user := &models.User{Username: name, Email: name + "@x.com", PasswordHash: "hashed"}
	s.Require().NoError(s.db.Create(user).Error)
	return user
}

func (s *ScopesTestSuite) createProject(owner *models.User, name, description string, createdAt time.Time) *models.Project {
	project := &models.Project{
		UserID:      owner.ID,
		Name:        name,
		Description: description,
		IsActive:    true,
		CreatedAt:   createdAt,
	}
	s.Require().NoError(s.db.Create(project).Error)
	return project
}

func (s *ScopesTestSuite) createTask(project *models.Project, title string, due, createdAt time.Time) *models.Task {
	task := &models.Task{
		ProjectID:     project.ID,
		Title:         title,
		Description:   "description of " + title,
		DueDate:       due,
		PriorityLevel: "high",
		Status:        models.TaskStatusTodo,
		IsActive:      true,
		CreatedAt:     createdAt,
	}
	s.Require().NoError(s.db.Create(task).Error)
	return task
}

func at(date string, hour int) time.Time {
	d, err := query.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return d.Add(time.Duration(hour) * time.Hour)
}

func (s *ScopesTestSuite) plan(kind query.Kind, params query.Params) query.Plan {
	plan, err := query.Build(kind, params)
	s.Require().NoError(err)
	return plan
}

func (s *ScopesTestSuite) projectNames(plan query.Plan, scope []uint64) []string {
	var projects []models.Project
	s.Require().NoError(s.db.Model(&models.Project{}).
		Scopes(FilterScope(plan, scope), OrderScope(plan)).
		Find(&projects).Error)

	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.Name
	}
	return names
}

func (s *ScopesTestSuite) taskTitles(plan query.Plan, scope []uint64) []string {
	var tasks []models.Task
	s.Require().NoError(s.db.Model(&models.Task{}).
		Scopes(FilterScope(plan, scope), OrderScope(plan)).
		Find(&tasks).Error)

	titles := make([]string, len(tasks))
	for i, t := range tasks {
		titles[i] = t.Title
	}
	return titles
}

func (s *ScopesTestSuite) TestProjectScopeIsOwnerOnly() {
	s.createProject(s.alice, "A1", "d", at("2024-01-01", 9))
	s.createProject(s.bob, "B1", "d", at("2024-01-01", 9))
	s.createProject(s.alice, "A2", "d", at("2024-01-02", 9))

	plan := s.plan(query.KindProject, query.Params{SortBy: "asc"})
	s.Equal([]string{"A1", "A2"}, s.projectNames(plan, []uint64{s.alice.ID}))
	s.Equal([]string{"B1"}, s.projectNames(plan, []uint64{s.bob.ID}))
}

func (s *ScopesTestSuite) TestSortOrder() {
	for _, name := range []string{"first", "second", "third"} {
		s.createProject(s.alice, name, "d", at("2024-01-01", 9))
	}

	asc := s.plan(query.KindProject, query.Params{SortBy: "asc"})
	s.Equal([]string{"first", "second", "third"}, s.projectNames(asc, []uint64{s.alice.ID}))

	desc := s.plan(query.KindProject, query.Params{SortBy: "desc"})
	s.Equal([]string{"third", "second", "first"}, s.projectNames(desc, []uint64{s.alice.ID}))
}

func (s *ScopesTestSuite) TestCreatedDateRangeIsInclusive() {
	s.createProject(s.alice, "before", "d", at("2023-12-31", 23))
	s.createProject(s.alice, "start", "d", at("2024-01-01", 0))
	s.createProject(s.alice, "end", "d", at("2024-01-31", 23))
	s.createProject(s.alice, "after", "d", at("2024-02-01", 0))

	plan := s.plan(query.KindProject, query.Params{
		SortBy:          "asc",
		CreatedDateFrom: "2024-01-01",
		CreatedDateTo:   "2024-01-31",
	})
	s.Equal([]string{"start", "end"}, s.projectNames(plan, []uint64{s.alice.ID}))
}

func (s *ScopesTestSuite) TestProjectSearch() {
	s.createProject(s.alice, "Quarterly Report", "finance", at("2024-01-01", 9))
	s.createProject(s.alice, "Website", "new REPORTING page", at("2024-01-01", 9))
	s.createProject(s.alice, "Garden", "plants", at("2024-01-01", 9))
	s.createProject(s.bob, "Report for bob", "d", at("2024-01-01", 9))

	plan := s.plan(query.KindProject, query.Params{SortBy: "asc", Search: strPtr("report")})
	s.Equal([]string{"Quarterly Report", "Website"}, s.projectNames(plan, []uint64{s.alice.ID}))

	blank := s.plan(query.KindProject, query.Params{SortBy: "asc", Search: strPtr("")})
	s.Len(s.projectNames(blank, []uint64{s.alice.ID}), 3)
}

func (s *ScopesTestSuite) TestSearchEscapesWildcards() {
	s.createProject(s.alice, "100% done", "d", at("2024-01-01", 9))
	s.createProject(s.alice, "1000 items", "d", at("2024-01-01", 9))
	s.createProject(s.alice, "snake_case", "d", at("2024-01-01", 9))
	s.createProject(s.alice, "snakeXcase", "d", at("2024-01-01", 9))

	percent := s.plan(query.KindProject, query.Params{Search: strPtr("100%")})
	s.Equal([]string{"100% done"}, s.projectNames(percent, []uint64{s.alice.ID}))

	underscore := s.plan(query.KindProject, query.Params{Search: strPtr("e_c")})
	s.Equal([]string{"snake_case"}, s.projectNames(underscore, []uint64{s.alice.ID}))
}

func (s *ScopesTestSuite) TestSearchNonASCIITerm() {
	s.createProject(s.alice, "Élan Report", "d", at("2024-01-01", 9))
	s.createProject(s.alice, "Straße", "d", at("2024-01-01", 9))

	exact := s.plan(query.KindProject, query.Params{Search: strPtr("Élan")})
	s.Equal([]string{"Élan Report"}, s.projectNames(exact, []uint64{s.alice.ID}))

	mixed := s.plan(query.KindProject, query.Params{Search: strPtr("ÉLAN rep")})
	s.Equal([]string{"Élan Report"}, s.projectNames(mixed, []uint64{s.alice.ID}))

	s.Equal([]string{"Straße"}, s.projectNames(s.plan(query.KindProject, query.Params{Search: strPtr("straße")}), []uint64{s.alice.ID}))
}

func (s *ScopesTestSuite) TestTaskDueDateRange() {
	project := s.createProject(s.alice, "P", "d", at("2024-01-01", 9))
	s.createTask(project, "early", at("2023-12-31", 0), at("2024-01-10", 9))
	s.createTask(project, "first day", at("2024-01-01", 0), at("2024-01-10", 9))
	s.createTask(project, "last day", at("2024-01-31", 0), at("2024-01-10", 9))
	s.createTask(project, "late", at("2024-02-01", 0), at("2024-01-10", 9))

	plan := s.plan(query.KindTask, query.Params{
		SortBy:      "asc",
		DueDateFrom: "2024-01-01",
		DueDateTo:   "2024-01-31",
	})
	s.Equal([]string{"first day", "last day"}, s.taskTitles(plan, []uint64{project.ID}))
}

func (s *ScopesTestSuite) TestTaskCreatedRangeBeatsDueRange() {
	project := s.createProject(s.alice, "P", "d", at("2024-01-01", 9))
	s.createTask(project, "created in jan, due in march", at("2024-03-15", 0), at("2024-01-10", 9))
	s.createTask(project, "created in feb, due in jan", at("2024-01-15", 0), at("2024-02-10", 9))

	plan := s.plan(query.KindTask, query.Params{
		CreatedDateFrom: "2024-01-01",
		CreatedDateTo:   "2024-01-31",
		DueDateFrom:     "2024-01-01",
		DueDateTo:       "2024-01-31",
	})
	s.Equal([]string{"created in jan, due in march"}, s.taskTitles(plan, []uint64{project.ID}))
}

func (s *ScopesTestSuite) TestTaskScopeAndSearch() {
	mine := s.createProject(s.alice, "mine", "d", at("2024-01-01", 9))
	theirs := s.createProject(s.bob, "theirs", "d", at("2024-01-01", 9))
	s.createTask(mine, "Write Docs", at("2024-01-05", 0), at("2024-01-01", 9))
	s.createTask(mine, "Ship", at("2024-01-05", 0), at("2024-01-01", 9))
	s.createTask(theirs, "Write tests", at("2024-01-05", 0), at("2024-01-01", 9))

	plan := s.plan(query.KindTask, query.Params{Search: strPtr("WRITE")})
	s.Equal([]string{"Write Docs"}, s.taskTitles(plan, []uint64{mine.ID}))

	descPlan := s.plan(query.KindTask, query.Params{SortBy: "desc", Search: strPtr("description of")})
	s.Equal([]string{"Ship", "Write Docs"}, s.taskTitles(descPlan, []uint64{mine.ID}))
}

func (s *ScopesTestSuite) TestPaginate() {
	for i := 0; i < 25; i++ {
		s.createProject(s.alice, "p", "d", at("2024-01-01", 9))
	}

	var page []models.Project
	s.Require().NoError(s.db.Order("id").Scopes(Paginate(utils.NewPaginationParams(3))).Find(&page).Error)
	s.Len(page, 5)
	s.EqualValues(21, page[0].ID)
}

func (s *ScopesTestSuite) TestAddIndexesIsIdempotent() {
	s.NoError(AddIndexes(s.db, zerolog.Nop()))
	for _, idx := range listIndexes {
		s.True(s.db.Migrator().HasIndex(idx.table, idx.name), idx.name)
	}
}

func strPtr(v string) *string {
	return &v
}

func TestScopesTestSuite(t *testing.T) {
	suite.Run(t, new(ScopesTestSuite))
}
