package repository

import (
	"database/sql"
	"strings"

	"github.com/iliyamo/learning-platform/internal/access"
	"github.com/iliyamo/learning-platform/internal/model"
)

// ListQuery carries the filters, ordering and page window of a list
// request.  Each repository applies the fields that make sense for its
// table and ignores the rest.
type ListQuery struct {
	Scope    access.Scope        // owner/user restriction; zero means all rows
	CourseID uint64              // 0 means any course
	Method   model.PaymentMethod // "" means any method
	OrderBy  string              // column name, "-" prefix for descending
	Limit    int                 // 0 means no limit
	Offset   int
}

// orderClause returns a safe ORDER BY clause.  Only columns present in
// allowed are accepted; anything else falls back to def.
func orderClause(orderBy string, allowed map[string]bool, def string) string {
	col := strings.TrimPrefix(orderBy, "-")
	if col == "" || !allowed[col] {
		return " ORDER BY " + def
	}
	dir := "ASC"
	if strings.HasPrefix(orderBy, "-") {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir + ", id " + dir
}

// limitClause appends LIMIT/OFFSET placeholders when a limit is set.
func limitClause(q ListQuery, args []any) (string, []any) {
	if q.Limit <= 0 {
		return "", args
	}
	return " LIMIT ? OFFSET ?", append(args, q.Limit, q.Offset)
}

// placeholders returns "?,?,?" for n values.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func idArgs(ids []uint64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullUint(p *uint64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func uintPtr(ni sql.NullInt64) *uint64 {
	if !ni.Valid {
		return nil
	}
	v := uint64(ni.Int64)
	return &v
}
