package lists

import (
	"errors"

	"github.com/dmitrymomot/superlists/pkg/validator"
)

const (
	EmptyItemMessage     = "You can't have an empty list item"
	DuplicateItemMessage = "You've already got this in your list"
)

var (
	ErrListNotFound  = errors.New("lists.list_not_found")
	ErrEmptyItem     = errors.New("lists.empty_item")
	ErrDuplicateItem = errors.New("lists.duplicate_item")
)

// emptyItemError matches both ErrEmptyItem and validator.ValidationErrors.
func emptyItemError() error {
	return errors.Join(ErrEmptyItem, validator.Fail("text", EmptyItemMessage))
}

func duplicateItemError() error {
	return errors.Join(ErrDuplicateItem, validator.Fail("text", DuplicateItemMessage))
}
