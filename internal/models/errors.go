package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("value must be a string")
	ErrDuplicateKey     = errors.New("string already exists")
	ErrNotFound         = errors.New("string not found")
	ErrInvalidFilter    = errors.New("invalid filter")
	ErrEmptyQuery       = errors.New("invalid or missing query")
	ErrUnparseableQuery = errors.New("unable to parse natural language query")
)

// InvalidFilterError reports a criterion whose value could not be parsed.
type InvalidFilterError struct {
	Key   string
	Value string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid %s parameter: %q", e.Key, e.Value)
}

// Is lets errors.Is match ErrInvalidFilter.
func (e *InvalidFilterError) Is(target error) bool {
	return target == ErrInvalidFilter
}
