package resolve

import (
	"errors"
	"fmt"

	"github.com/ppiankov/persona/internal/locale"
)

var (
	// ErrNotFound means the encyclopedia has no page with that title
	ErrNotFound = errors.New("page not found")

	// ErrAmbiguous means the title leads to a disambiguation page
	ErrAmbiguous = errors.New("disambiguation page")

	// ErrNotAPerson means the linked item is not an instance of human
	ErrNotAPerson = errors.New("not a person")
)

// Stages reported by FetchError
const (
	StagePage   = "page"
	StageEntity = "entity"
	StagePanic  = "panic"
)

// FetchError wraps any transport or parse failure of a primary lookup
type FetchError struct {
	Stage string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch failed: %v", e.Stage, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Message maps a resolver error to its user-facing text in loc
func Message(loc locale.Locale, err error) string {
	var fetchErr *FetchError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return loc.Messages.NotFound
	case errors.Is(err, ErrAmbiguous):
		return loc.Messages.Ambiguous
	case errors.Is(err, ErrNotAPerson):
		return loc.Messages.NotAPerson
	case errors.As(err, &fetchErr):
		return fmt.Sprintf(loc.Messages.FetchFailed, fetchErr.Err)
	default:
		return loc.Messages.Unknown
	}
}
