package repository

import (
	"errors"

	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
)

// AppError converts a repository error into an application error, using
// notFound as the message when the record does not exist.
func AppError(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return apperrors.NotFound(notFound, err)
	case errors.Is(err, ErrDuplicate):
		return apperrors.Conflict("Record already exists", err)
	default:
		return apperrors.Internal(err)
	}
}
