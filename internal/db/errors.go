package db

import "errors"

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrNoteNotFound = errors.New("note not found")
	ErrItemNotFound = errors.New("task item not found")
	ErrEmptyTitle   = errors.New("title cannot be empty")
)
