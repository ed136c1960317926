package recordlog

import (
	"errors"
	"fmt"
)

// ErrInvalidRecord is wrapped by Append when a record fails validation.
var ErrInvalidRecord = errors.New("invalid record")

// StorageReadError reports durable content under Key that could not be read
// or decoded.
type StorageReadError struct {
	Key string
	Err error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("failed to read record log %s: %v", e.Key, e.Err)
}

func (e *StorageReadError) Unwrap() error {
	return e.Err
}

// StorageWriteError reports a failure to persist the collection under Key.
type StorageWriteError struct {
	Key string
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("failed to write record log %s: %v", e.Key, e.Err)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}
