package query

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ApplyFilters adds an equality condition for every non-empty filter whose key is allowed.
func ApplyFilters(query *gorm.DB, filters map[string]string, allowedFields map[string]string) *gorm.DB {
	for field, value := range filters {
		if dbField, allowed := allowedFields[field]; allowed && value != "" {
			query = query.Where(fmt.Sprintf("%s = ?", dbField), value)
		}
	}
	return query
}

// ApplySearch adds a case-insensitive substring match OR-ed across searchFields.
func ApplySearch(query *gorm.DB, search string, searchFields []string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(searchFields) == 0 {
		return query
	}

	pattern := "%" + EscapeLike(strings.ToLower(search)) + "%"
	conditions := make([]string, len(searchFields))
	args := make([]interface{}, len(searchFields))

	for i, field := range searchFields {
		conditions[i] = fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, field)
		args[i] = pattern
	}

	whereClause := "(" + strings.Join(conditions, " OR ") + ")"
	return query.Where(whereClause, args...)
}

// ApplyOffsetPagination applies limit/offset pagination.
func ApplyOffsetPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if offset < 0 {
		offset = 0
	}
	return query.Offset(offset).Limit(limit)
}

// EscapeLike escapes LIKE wildcards so user input matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
