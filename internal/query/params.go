package query

import (
	"net/url"
	"strings"
)

// Query string keys understood by the list endpoints.
const (
	ParamSortBy          = "sort_by"
	ParamSearch          = "search"
	ParamCreatedDateFrom = "created_date_from"
	ParamCreatedDateTo   = "created_date_to"
	ParamDueDateFrom     = "due_date_from"
	ParamDueDateTo       = "due_date_to"
)

// Params holds the raw list parameters. An empty string means the parameter
// was not supplied; Search is a pointer because a blank search term is still
// a search.
type Params struct {
	SortBy          string
	Search          *string
	CreatedDateFrom string
	CreatedDateTo   string
	DueDateFrom     string
	DueDateTo       string
}

// FromValues extracts Params from a request query string. Date bounds are
// trimmed; sort_by must match exactly.
func FromValues(values url.Values) Params {
	p := Params{
		SortBy:          values.Get(ParamSortBy),
		CreatedDateFrom: strings.TrimSpace(values.Get(ParamCreatedDateFrom)),
		CreatedDateTo:   strings.TrimSpace(values.Get(ParamCreatedDateTo)),
		DueDateFrom:     strings.TrimSpace(values.Get(ParamDueDateFrom)),
		DueDateTo:       strings.TrimSpace(values.Get(ParamDueDateTo)),
	}
	if values.Has(ParamSearch) {
		term := values.Get(ParamSearch)
		p.Search = &term
	}
	return p
}
