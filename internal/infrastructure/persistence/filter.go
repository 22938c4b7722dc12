package persistence

import (
	"fmt"
	"strings"

	"github.com/retailops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// filterOptions declares which columns a repository exposes to the
// generic filter. Column names reach raw SQL so they are allow-listed,
// never taken from the request.
type filterOptions struct {
	searchFields  []string
	filterColumns map[string]bool
	sortColumns   map[string]bool
	defaultSort   string
}

// applyFilter applies search, column filters, ordering and pagination
// from a shared.Filter to a query.
func applyFilter(query *gorm.DB, filter shared.Filter, opts filterOptions) *gorm.DB {
	query = applyFilterWithoutPagination(query, filter, opts)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}

// applyFilterWithoutPagination applies search, column filters and ordering
// only. Used by count queries.
func applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter, opts filterOptions) *gorm.DB {
	if filter.Search != "" && len(opts.searchFields) > 0 {
		pattern := "%" + filter.Search + "%"
		conditions := make([]string, 0, len(opts.searchFields))
		args := make([]interface{}, 0, len(opts.searchFields))
		for _, field := range opts.searchFields {
			conditions = append(conditions, field+" ILIKE ?")
			args = append(args, pattern)
		}
		query = query.Where(strings.Join(conditions, " OR "), args...)
	}

	for key, value := range filter.Filters {
		if !opts.filterColumns[key] {
			continue
		}
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	orderBy := ValidateSortField(filter.OrderBy, opts.sortColumns, opts.defaultSort)
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))
}
