package catalog

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// ErrProfileNotFound matches any *ProfileNotFoundError via errors.Is.
var ErrProfileNotFound = eris.New("catalog: profile not found")

// ProfileNotFoundError is returned when no investor profile has the ID.
type ProfileNotFoundError struct {
	ID string
}

func (e *ProfileNotFoundError) Error() string {
	return fmt.Sprintf("catalog: profile %q not found", e.ID)
}

func (e *ProfileNotFoundError) Is(target error) bool {
	return target == ErrProfileNotFound
}

// UnavailableError reports a storage or search backend failure.
type UnavailableError struct {
	Backend string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("catalog: %s unavailable: %v", e.Backend, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
