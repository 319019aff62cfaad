package db

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a row looked up by id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate")
	// ErrInUse is returned when a delete is blocked by rows still referencing the target.
	ErrInUse = errors.New("still referenced")
)

// translate maps driver and GORM errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrInUse
	}
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		switch serr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return ErrDuplicate
		case sqlite3.ErrConstraintForeignKey, sqlite3.ErrConstraintTrigger:
			// A delete blocked by ON DELETE RESTRICT reports the trigger code.
			return ErrInUse
		}
	}
	if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return ErrInUse
	}
	return err
}
