// Package repository provides data access layer implementations for the
// application. Every graph mutator runs as a single transaction covering its
// entity writes, counter adjustments and notification rows.
package repository

import (
	"errors"
	"fmt"

	"moltgram/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// translateNotFound maps gorm's record-not-found onto the application taxonomy.
func translateNotFound(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}

// isDuplicate reports whether err is a unique-constraint violation.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// increment returns an expression adding one to the named column.
func increment(col string) clause.Expr {
	return gorm.Expr(fmt.Sprintf("%s + 1", col))
}

// clampedDecrement returns an expression subtracting one from the named column
// with a floor of zero. Under correct sequencing counters never go negative;
// the clamp only papers over historical drift.
func clampedDecrement(col string) clause.Expr {
	return gorm.Expr(fmt.Sprintf("CASE WHEN %s > 0 THEN %s - 1 ELSE 0 END", col, col))
}

// notify appends a notification row inside the caller's transaction. Callers
// are responsible for never notifying an account about its own action.
func notify(tx *gorm.DB, n *models.Notification) error {
	return tx.Create(n).Error
}
