package dto

import (
	"time"

	"github.com/yukikurage/project-task-api/internal/constants"
)

// Date renders a timestamp as a calendar date (YYYY-MM-DD) in UTC.
type Date time.Time

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(d).UTC().Format(constants.DateLayout) + `"`), nil
}

// Envelope is the common head of every success response.
type Envelope struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func OK(message string) Envelope {
	return Envelope{Code: constants.CodeOK, Message: message}
}

func Created() Envelope {
	return Envelope{Code: constants.CodeCreated}
}

// ListResults is the inner envelope of a list response.
type ListResults[T any] struct {
	Envelope
	Data []T `json:"data"`
}

// PaginatedResponse is the outer envelope of a list response.
type PaginatedResponse[T any] struct {
	Count    int64          `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  ListResults[T] `json:"results"`
}

// NewPaginatedResponse converts one page of models with convert.
func NewPaginatedResponse[M, T any](items []M, total int64, next, previous *string, convert func(M) T) PaginatedResponse[T] {
	data := make([]T, len(items))
	for i, item := range items {
		data[i] = convert(item)
	}

	return PaginatedResponse[T]{
		Count:    total,
		Next:     next,
		Previous: previous,
		Results: ListResults[T]{
			Envelope: OK("data fetched successfully"),
			Data:     data,
		},
	}
}
