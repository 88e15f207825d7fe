package store

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// IsUniqueViolation reports whether err was caused by a unique-constraint
// violation, for any of the wired drivers. The store constraint is the final
// authority on uniqueness; callers translate a positive answer into the same
// conflict error their advisory pre-check would have produced, so a losing
// racer surfaces as a conflict rather than an internal error.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		// 1062: ER_DUP_ENTRY
		return me.Number == 1062
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		// 23505: unique_violation
		return pe.Code == "23505"
	}
	return false
}

// IsForeignKeyViolation reports whether err was caused by a foreign-key
// constraint violation.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		// 1452: ER_NO_REFERENCED_ROW_2
		return me.Number == 1452
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		// 23503: foreign_key_violation
		return pe.Code == "23503"
	}
	return false
}
