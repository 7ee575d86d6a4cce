package record

import (
	"errors"
	"fmt"
)

// ErrNonTranslatableField indicates an attempt to translate a field outside
// the record's translatable field set.
var ErrNonTranslatableField = errors.New("record: field is not translatable")

// NonTranslatableFieldError carries the offending field name and unwraps to
// ErrNonTranslatableField.
type NonTranslatableFieldError struct {
	Field string
}

func (e *NonTranslatableFieldError) Error() string {
	if e == nil || e.Field == "" {
		return ErrNonTranslatableField.Error()
	}
	return fmt.Sprintf("%s: %s", ErrNonTranslatableField.Error(), e.Field)
}

func (e *NonTranslatableFieldError) Unwrap() error {
	return ErrNonTranslatableField
}
