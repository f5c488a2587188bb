// Package repository provides PostgreSQL and MySQL persistence for access logs.
package repository

import (
	"fmt"
	"strings"

	auditDomain "github.com/allisson/cardauth/internal/audit/domain"
)

// whereClause renders filter as a SQL WHERE clause. placeholder returns the bind marker
// for the n-th argument (1-based).
func whereClause(
	filter auditDomain.ListFilter,
	authorizationID any,
	placeholder func(n int) string,
) (string, []any) {
	var conds []string
	var args []any

	add := func(expr string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(expr, placeholder(len(args))))
	}

	if filter.AuthorizationID != nil {
		add("authorization_id = %s", authorizationID)
	}
	if filter.Action != "" {
		add("action = %s", string(filter.Action))
	}
	if filter.CreatedAtFrom != nil {
		add("created_at >= %s", *filter.CreatedAtFrom)
	}
	if filter.CreatedAtTo != nil {
		add("created_at <= %s", *filter.CreatedAtTo)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func postgresPlaceholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func mysqlPlaceholder(int) string {
	return "?"
}
