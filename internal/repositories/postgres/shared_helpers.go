package postgres

import (
	"strings"

	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"gorm.io/gorm"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// applySort appends an ORDER BY clause, whitelisting sortable columns
// to keep user input out of the SQL.
func applySort(query *gorm.DB, sortBy, sortOrder, fallback string, allowed map[string]bool) *gorm.DB {
	column := fallback
	if allowed[sortBy] {
		column = sortBy
	}

	order := "desc"
	if strings.EqualFold(sortOrder, "asc") {
		order = "asc"
	}

	return query.Order(column + " " + order)
}

// applyPagination caps page size to keep list endpoints bounded.
func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}

// applyDateRange bounds a query on the given date column.
func applyDateRange(query *gorm.DB, column string, rng repositories.DateRange) *gorm.DB {
	if rng.From != nil {
		query = query.Where(column+" >= ?", *rng.From)
	}
	if rng.To != nil {
		query = query.Where(column+" <= ?", *rng.To)
	}
	return query
}
