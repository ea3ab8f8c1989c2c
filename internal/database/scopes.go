package database

import (
	"strings"

	"github.com/yukikurage/project-task-api/internal/query"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/gorm"
)

// resource maps a query.Kind onto its table.
type resource struct {
	table         string
	scopeColumn   string
	searchColumns []string
	dueColumn     string
}

var resources = map[query.Kind]resource{
	query.KindProject: {
		table:         "projects",
		scopeColumn:   "user_id",
		searchColumns: []string{"name", "description"},
	},
	query.KindTask: {
		table:         "tasks",
		scopeColumn:   "project_id",
		searchColumns: []string{"title", "description"},
		dueColumn:     "due_date",
	},
}

func (r resource) column(name string) string {
	return r.table + "." + name
}

// likeEscape is portable across MySQL, PostgreSQL and SQLite; backslash is not.
const likeEscape = "!"

var likeReplacer = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// FilterScope restricts a query to scopeIDs and applies the plan's filter mode.
func FilterScope(plan query.Plan, scopeIDs []uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		res, ok := resources[plan.Kind]
		if !ok {
			db.AddError(query.ErrUnknownResourceKind)
			return db
		}

		db = db.Where(res.column(res.scopeColumn)+" IN ?", scopeIDs)

		switch mode := plan.Mode.(type) {
		case query.CreatedDateRange:
			col := res.column("created_at")
			db = db.Where(col+" >= ? AND "+col+" < ?", mode.Start(), mode.End())
		case query.DueDateRange:
			if res.dueColumn == "" {
				db.AddError(query.ErrUnknownResourceKind)
				return db
			}
			col := res.column(res.dueColumn)
			db = db.Where(col+" >= ? AND "+col+" < ?", mode.Start(), mode.End())
		case query.Search:
			if mode.MatchesAll() {
				return db
			}
			// LOWER on both sides; SQLite only folds ASCII.
			pattern := "%" + likeReplacer.Replace(mode.Term) + "%"
			conds := make([]string, len(res.searchColumns))
			args := make([]interface{}, len(res.searchColumns))
			for i, name := range res.searchColumns {
				conds[i] = "LOWER(" + res.column(name) + ") LIKE LOWER(?) ESCAPE '" + likeEscape + "'"
				args[i] = pattern
			}
			db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
		}

		return db
	}
}

// OrderScope applies the plan's primary-key ordering; natural order adds nothing.
func OrderScope(plan query.Plan) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		res, ok := resources[plan.Kind]
		if !ok {
			db.AddError(query.ErrUnknownResourceKind)
			return db
		}

		switch plan.Sort {
		case query.SortAscending:
			return db.Order(res.column("id") + " ASC")
		case query.SortDescending:
			return db.Order(res.column("id") + " DESC")
		default:
			return db
		}
	}
}
