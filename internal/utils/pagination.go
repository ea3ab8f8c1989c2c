package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/constants"
)

// maxPage keeps offsets representable; anything above it is simply out of range.
const maxPage = math.MaxInt32 / constants.PageSize

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// Page is one slice of an ordered result set plus the metadata needed for navigation.
type Page[T any] struct {
	Items      []T
	Number     int
	Size       int
	TotalCount int64
}

// PageLinks holds absolute URLs of the neighbouring pages, nil when there is none.
type PageLinks struct {
	Next     *string
	Previous *string
}

// ParsePage reads a page number, falling back to the first page when raw is absent or not numeric.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return constants.DefaultPage
	}
	return page
}

// NewPaginationParams builds the window for a page of the fixed page size.
func NewPaginationParams(page int) PaginationParams {
	params := PaginationParams{
		Page:  page,
		Limit: constants.PageSize,
	}
	if params.InRange() {
		params.Offset = (page - 1) * constants.PageSize
	}
	return params
}

// GetPaginationParams extracts the page number from the request
func GetPaginationParams(c *gin.Context) PaginationParams {
	return NewPaginationParams(ParsePage(c.Query(constants.PageParam)))
}

// InRange reports whether the page number can address any record at all.
// Pages below 1 are never an error, they just come back empty.
func (p PaginationParams) InRange() bool {
	return p.Page >= 1 && p.Page <= maxPage
}

// NewPage wraps one page of items fetched for params.
func NewPage[T any](items []T, params PaginationParams, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Number:     params.Page,
		Size:       params.Limit,
		TotalCount: total,
	}
}

func (p Page[T]) HasNext() bool {
	return p.Number >= 1 && int64(p.Number)*int64(p.Size) < p.TotalCount
}

func (p Page[T]) HasPrevious() bool {
	return p.Number > 1
}

// GetPageLinks builds next/previous URLs from the current request, rewriting only the page parameter.
func GetPageLinks[T any](c *gin.Context, page Page[T]) PageLinks {
	var links PageLinks
	if page.HasNext() {
		next := pageURL(c, page.Number+1)
		links.Next = &next
	}
	if page.HasPrevious() {
		previous := pageURL(c, page.Number-1)
		links.Previous = &previous
	}
	return links
}

func pageURL(c *gin.Context, page int) string {
	u := *c.Request.URL

	u.Scheme = "http"
	if c.Request.TLS != nil {
		u.Scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		u.Scheme = proto
	}
	u.Host = c.Request.Host

	q := u.Query()
	if page <= constants.DefaultPage {
		q.Del(constants.PageParam)
	} else {
		q.Set(constants.PageParam, strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()

	return u.String()
}
