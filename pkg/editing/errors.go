package editing

import (
	"errors"
	"fmt"
)

// ErrNoPersister is reported when a field with changes is committed on an
// engine that was built without a persistence callback.
var ErrNoPersister = errors.New("no persister configured")

// PersistError wraps a failure returned by the persistence callback
type PersistError struct {
	Field FieldID
	Delta Values
	Err   error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to save %s: %v", e.Field, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
