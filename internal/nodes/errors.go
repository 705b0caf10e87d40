package nodes

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrInvalidKind        = errors.New("nodes: invalid kind")
	ErrNodeNotFound       = errors.New("nodes: node not found")
	ErrMissingParent      = errors.New("nodes: parent id is required for this kind")
	ErrNotOrdered         = errors.New("nodes: kind does not carry an ordering")
	ErrNotTranslatable    = errors.New("nodes: kind has no content table")
	ErrEmptyUpdatePayload = errors.New("nodes: update payload is empty")
)

// NotFoundError is returned when a node resource cannot be located.
type NotFoundError struct {
	Kind Kind
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("nodes: %s %s not found", e.Kind, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNodeNotFound }

// IsNotFound reports whether err represents a missing node or binding.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNodeNotFound)
}

// requireAffected maps a zero-row write to a NotFoundError for the target row.
func requireAffected(res sql.Result, kind Kind, key string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &NotFoundError{Kind: kind, Key: key}
	}
	return nil
}
