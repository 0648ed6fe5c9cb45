package repositories

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for the store error taxonomy. Controllers translate
// these into HTTP statuses rather than letting raw driver errors reach
// the caller.
var (
	// ErrNotFound means no record matched the identifier.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate means a uniqueness constraint rejected the write.
	ErrDuplicate = errors.New("duplicate key")
)

// ValidationError is a write-time document validation failure: the store
// refused to persist a document violating required-field rules.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, e.Fields[name])
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, " "))
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
