package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/mattn/go-sqlite3"
	"github.com/pocketbase/dbx"
)

// timestampLayout is fixed width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

type txKey struct{}

// builder returns the transaction carried by ctx, or db when ctx is outside a unit of work.
func builder(ctx context.Context, db *dbx.DB) dbx.Builder {
	if tx, ok := ctx.Value(txKey{}).(*dbx.Tx); ok {
		return tx
	}
	return db
}

func inTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*dbx.Tx)
	return ok
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}

func parseDate(s string) time.Time {
	t, err := models.ParseDate(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// isUniqueViolation reports whether err is a SQLite UNIQUE or PRIMARY KEY failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}

// orderBy builds a safe ORDER BY clause from a user supplied column.
func orderBy(sortBy, sortOrder string, allowed map[string]bool, fallback string) string {
	if sortBy == "" || !allowed[sortBy] {
		return fallback
	}
	direction := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		direction = "DESC"
	}
	return fmt.Sprintf("%s %s", sortBy, direction)
}

func affected(res sql.Result, sentinel error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sentinel
	}
	return nil
}
