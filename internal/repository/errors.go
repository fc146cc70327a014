// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// booking and ticket services to distinguish between different failure
// scenarios without inspecting driver errors themselves.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup matches no row.  Services
// translate it into a NotFound or Forbidden outcome depending on which
// record was missing.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update violates a unique
// key, such as a second booking for the same user or a second ticket for
// the same enrollment.
var ErrDuplicate = errors.New("duplicate")

// MySQL server error numbers.
const (
	mysqlDuplicateEntry   = 1062 // ER_DUP_ENTRY
	mysqlLockWaitTimeout  = 1205 // ER_LOCK_WAIT_TIMEOUT
	mysqlDeadlockDetected = 1213 // ER_LOCK_DEADLOCK
)

// isDuplicate reports whether err is a MySQL duplicate-key error.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// isRetryable reports whether err aborted the transaction because of lock
// contention, in which case the whole transaction may be run again.
func isRetryable(err error) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	return me.Number == mysqlDeadlockDetected || me.Number == mysqlLockWaitTimeout
}
