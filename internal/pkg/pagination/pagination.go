package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mood-space/core/internal/pkg/response"
	"gorm.io/gorm"
)

const (
	DefaultPage = 1
	DefaultSize = 20
	MaxSize     = 100
)

// Query holds parsed pagination parameters.
type Query struct {
	Page int
	Size int
}

// Normalize clamps page and size into their allowed ranges.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Size < 1 {
		q.Size = DefaultSize
	}
	if q.Size > MaxSize {
		q.Size = MaxSize
	}
	return q
}

func (q Query) Offset() int { return (q.Page - 1) * q.Size }

// FromContext reads ?page= and ?size= from the request.
func FromContext(c *gin.Context) Query {
	return Query{
		Page: parseIntOr(c.Query("page"), DefaultPage),
		Size: parseIntOr(c.Query("size"), DefaultSize),
	}.Normalize()
}

// Meta computes the response metadata for a page out of total rows.
func Meta(q Query, total int64) response.Pagination {
	q = q.Normalize()
	totalPage := int((total + int64(q.Size) - 1) / int64(q.Size))
	return response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   totalPage,
		Size:        q.Size,
		HasNextPage: q.Page < totalPage,
	}
}

// Paginate applies limit/offset to a GORM query and returns the pagination metadata.
func Paginate[T any](db *gorm.DB, q Query, dest *[]T) (response.Pagination, error) {
	q = q.Normalize()
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return response.Pagination{}, err
	}
	if err := db.Offset(q.Offset()).Limit(q.Size).Find(dest).Error; err != nil {
		return response.Pagination{}, err
	}
	return Meta(q, total), nil
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
