package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/paging"
)

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// respondError maps a service error to a status code. Unexpected errors are
// attached to the context for the request logger and hidden from the client.
func respondError(c *gin.Context, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	body := gin.H{"error": derr.Description, "code": derr.Code}
	if len(derr.Fields) > 0 {
		body["errors"] = derr.Fields
	}
	c.AbortWithStatusJSON(statusOf(derr), body)
}

func statusOf(err *domain.Error) int {
	switch err.Kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindUnauthorized:
		if errors.Is(err, domain.ErrAccessDenied) {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, http.StatusBadRequest, "Malformed request body")
		return false
	}
	return true
}

// pathID parses the named path parameter as an identifier of kind K.
func pathID[K any](c *gin.Context, name string) (domain.ID[K], bool) {
	id, err := domain.ParseID[K](c.Param(name))
	if err != nil {
		respondError(c, domain.ValidationFields(map[string][]string{name: {"must be a valid id"}}))
		return id, false
	}
	return id, true
}

// pageQuery reads p (page number), ls (page size), s (sort), o (order) and q (search).
func pageQuery(c *gin.Context) (paging.Query, bool) {
	q := paging.Query{
		Sort:   c.Query("s"),
		Order:  c.Query("o"),
		Search: c.Query("q"),
	}
	fields := map[string][]string{}
	if raw, ok := c.GetQuery("p"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fields["p"] = []string{"must be an integer"}
		}
		q.PageNumber = &n
	}
	if raw, ok := c.GetQuery("ls"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fields["ls"] = []string{"must be an integer"}
		}
		q.PageSize = &n
	}
	if len(fields) > 0 {
		respondError(c, domain.ValidationFields(fields))
		return q, false
	}
	return q, true
}

// PageResponse is the JSON shape of a paged listing.
type PageResponse[T any] struct {
	Items      []T `json:"items"`
	PageNumber int `json:"pageNumber"`
	PageCount  int `json:"pageCount"`
}

func pageResponse[T any](p paging.Page[T]) PageResponse[T] {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return PageResponse[T]{Items: items, PageNumber: p.PageNumber, PageCount: p.PageCount}
}
