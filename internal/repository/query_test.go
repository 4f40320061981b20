package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestOrderClause(t *testing.T) {
	allowed := map[string]bool{"payment_date": true}

	assert.Equal(t, " ORDER BY payment_date ASC, id ASC", orderClause("payment_date", allowed, "id"))
	assert.Equal(t, " ORDER BY payment_date DESC, id DESC", orderClause("-payment_date", allowed, "id"))
	assert.Equal(t, " ORDER BY id", orderClause("", allowed, "id"))
	// anything outside the allow-list falls back to the default
	assert.Equal(t, " ORDER BY id", orderClause("price; DROP TABLE payments", allowed, "id"))
}

func TestLimitClause(t *testing.T) {
	clause, args := limitClause(ListQuery{}, []any{1})
	assert.Empty(t, clause)
	assert.Equal(t, []any{1}, args)

	clause, args = limitClause(ListQuery{Limit: 10, Offset: 20}, []any{1})
	assert.Equal(t, " LIMIT ? OFFSET ?", clause)
	assert.Equal(t, []any{1, 10, 20}, args)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?,?,?", placeholders(3))
}

func TestMapErr(t *testing.T) {
	assert.Nil(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(sql.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, mapErr(fmt.Errorf("scan: %w", sql.ErrNoRows)), ErrNotFound)
	assert.ErrorIs(t, mapErr(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}), ErrDuplicate)
	assert.ErrorIs(t, mapErr(&mysql.MySQLError{Number: 1452, Message: "foreign key"}), ErrForeignKey)

	other := errors.New("boom")
	assert.Equal(t, other, mapErr(other))
}

func TestNullableHelpers(t *testing.T) {
	s := "x"
	assert.Equal(t, sql.NullString{String: "x", Valid: true}, nullString(&s))
	assert.False(t, nullString(nil).Valid)
	assert.Nil(t, strPtr(sql.NullString{}))

	id := uint64(9)
	assert.Equal(t, sql.NullInt64{Int64: 9, Valid: true}, nullUint(&id))
	assert.Equal(t, uint64(9), *uintPtr(sql.NullInt64{Int64: 9, Valid: true}))
	assert.Nil(t, uintPtr(sql.NullInt64{}))
}
