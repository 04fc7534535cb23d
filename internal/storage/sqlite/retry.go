package sqlite

import (
	"errors"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	busyRetries   = 5
	busyBaseDelay = 20 * time.Millisecond
)

// retryOnBusy runs fn again with linear backoff while SQLite reports the
// database as busy or locked. Any other error is returned immediately.
func retryOnBusy(fn func() error) error {
	var err error
	for attempt := 0; attempt <= busyRetries; attempt++ {
		if err = fn(); err == nil || !isBusy(err) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * busyBaseDelay)
	}
	return err
}

func isBusy(err error) bool {
	var serr *msqlite.Error
	if errors.As(err, &serr) {
		switch serr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
