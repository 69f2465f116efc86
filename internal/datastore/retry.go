package datastore

import (
	"database/sql"
	"database/sql/driver"
	"strings"

	"gorm.io/gorm"

	"github.com/lavosystem/lavo-go/internal/errors"
)

// isDroppedConnErr reports whether err looks like a dropped database
// connection that a single reconnect attempt can fix. Query errors,
// constraint violations and the like are not retried.
func isDroppedConnErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range []string{
		"database is closed",
		"connection refused",
		"connection reset by peer",
		"broken pipe",
		"server has gone away",
		"invalid connection",
	} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

// withRetry runs fn, retrying exactly once when the failure is a
// dropped-connection class error. All datastore operations go through this
// wrapper so the retry policy lives in one place.
func (ds *DataStore) withRetry(operation string, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}

	if isDroppedConnErr(err) {
		if retryErr := fn(); retryErr == nil {
			return nil
		} else {
			err = retryErr
		}
	}

	category := errors.CategoryDatabase
	if errors.Is(err, gorm.ErrRecordNotFound) {
		category = errors.CategoryNotFound
	}

	return errors.New(err).
		Component("datastore").
		Category(category).
		Context("operation", operation).
		Build()
}
