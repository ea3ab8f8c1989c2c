package query

import (
	"strings"
	"time"

	"github.com/yukikurage/project-task-api/internal/constants"
)

// Kind selects the resource a Plan is built for.
type Kind int

const (
	KindProject Kind = iota + 1
	KindTask
)

func (k Kind) String() string {
	switch k {
	case KindProject:
		return "project"
	case KindTask:
		return "task"
	default:
		return "unknown"
	}
}

// SortOrder orders results by primary key.
type SortOrder int

const (
	SortNatural SortOrder = iota
	SortAscending
	SortDescending
)

// DateRange is an inclusive range of calendar days (UTC).
type DateRange struct {
	From time.Time
	To   time.Time
}

// Start is the first instant inside the range.
func (r DateRange) Start() time.Time {
	return r.From
}

// End is the first instant after the range, so that the whole To day matches.
func (r DateRange) End() time.Time {
	return r.To.AddDate(0, 0, 1)
}

// FilterMode is one of CreatedDateRange, DueDateRange, Search or NoFilter.
type FilterMode interface {
	filterMode()
}

type CreatedDateRange struct {
	DateRange
}

type DueDateRange struct {
	DateRange
}

// Search is a case-insensitive substring match. An empty Term matches every record.
type Search struct {
	Term string
}

type NoFilter struct{}

func (CreatedDateRange) filterMode() {}
func (DueDateRange) filterMode()     {}
func (Search) filterMode()           {}
func (NoFilter) filterMode()         {}

// MatchesAll reports whether the search places no restriction on results.
func (s Search) MatchesAll() bool {
	return s.Term == ""
}

// Plan is the validated outcome of a list request.
type Plan struct {
	Kind Kind
	Mode FilterMode
	Sort SortOrder
}

type rangePair struct {
	field     string
	fromParam string
	toParam   string
	from      string
	to        string
}

// Build validates p for kind and selects the single filter mode that applies.
func Build(kind Kind, p Params) (Plan, error) {
	if kind != KindProject && kind != KindTask {
		return Plan{}, ErrUnknownResourceKind
	}

	order, err := parseSort(p.SortBy)
	if err != nil {
		return Plan{}, err
	}

	pairs := []rangePair{
		{field: "created_date", fromParam: ParamCreatedDateFrom, toParam: ParamCreatedDateTo, from: p.CreatedDateFrom, to: p.CreatedDateTo},
	}
	if kind == KindTask {
		pairs = append(pairs, rangePair{field: "due_date", fromParam: ParamDueDateFrom, toParam: ParamDueDateTo, from: p.DueDateFrom, to: p.DueDateTo})
	}

	for _, pair := range pairs {
		if err := pair.checkBounds(); err != nil {
			return Plan{}, err
		}
	}

	ranges := make([]*DateRange, len(pairs))
	for i, pair := range pairs {
		r, err := pair.parse()
		if err != nil {
			return Plan{}, err
		}
		ranges[i] = r
	}

	plan := Plan{Kind: kind, Sort: order, Mode: NoFilter{}}
	switch {
	case ranges[0] != nil:
		plan.Mode = CreatedDateRange{DateRange: *ranges[0]}
	case kind == KindTask && ranges[1] != nil:
		plan.Mode = DueDateRange{DateRange: *ranges[1]}
	case p.Search != nil:
		term := *p.Search
		if strings.TrimSpace(term) == "" {
			term = ""
		}
		plan.Mode = Search{Term: term}
	}

	return plan, nil
}

func parseSort(sortBy string) (SortOrder, error) {
	switch sortBy {
	case "":
		return SortNatural, nil
	case "asc":
		return SortAscending, nil
	case "desc":
		return SortDescending, nil
	default:
		return SortNatural, ErrInvalidSortOption
	}
}

func (r rangePair) checkBounds() error {
	switch {
	case r.from != "" && r.to == "":
		return &MissingBoundError{Field: r.field, Missing: BoundEnd}
	case r.from == "" && r.to != "":
		return &MissingBoundError{Field: r.field, Missing: BoundStart}
	}
	return nil
}

// parse returns nil when the pair is absent; checkBounds has already ruled out half-open pairs.
func (r rangePair) parse() (*DateRange, error) {
	if r.from == "" || r.to == "" {
		return nil, nil
	}
	from, err := ParseDate(r.from)
	if err != nil {
		return nil, &DateFormatError{Param: r.fromParam, Value: r.from}
	}
	to, err := ParseDate(r.to)
	if err != nil {
		return nil, &DateFormatError{Param: r.toParam, Value: r.to}
	}
	return &DateRange{From: from, To: to}, nil
}

// ParseDate parses a YYYY-MM-DD calendar date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(constants.DateLayout, s, time.UTC)
}
