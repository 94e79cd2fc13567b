package errors

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/akkash/bizsearch-new-sub002/internal/catalog"
	"github.com/akkash/bizsearch-new-sub002/internal/normalize"
	"github.com/akkash/bizsearch-new-sub002/internal/projection"
)

// FromEngineError classifies an engine, catalog or transport error into a
// StandardError. A nil error yields nil.
func FromEngineError(err error) *StandardError {
	if err == nil {
		return nil
	}

	var (
		stdErr      *StandardError
		validation  *normalize.ValidationError
		industry    *projection.UnknownIndustryError
		location    *projection.UnknownLocationError
		notFound    *catalog.ProfileNotFoundError
		unavailable *catalog.UnavailableError
	)

	switch {
	case stderrors.As(err, &stdErr):
		return stdErr
	case stderrors.As(err, &validation):
		return NewValidationError(validation.Field, validation.Error())
	case stderrors.As(err, &industry):
		return NewUnknownIndustryError(industry.Key)
	case stderrors.As(err, &location):
		return NewUnknownLocationError(location.Tier)
	case stderrors.As(err, &notFound):
		return NewProfileNotFoundError(notFound.ID)
	case stderrors.As(err, &unavailable):
		return NewCatalogUnavailableError(unavailable.Backend, unavailable.Err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return NewTimeoutError("engine", err)
	default:
		return NewInternalError(err)
	}
}

// HTTPStatus maps an error code to the status the HTTP API responds with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidation, ErrCodeParse:
		return http.StatusBadRequest
	case ErrCodeProfileNotFound:
		return http.StatusNotFound
	case ErrCodeUnknownIndustry, ErrCodeUnknownLocation:
		return http.StatusUnprocessableEntity
	case ErrCodeCatalogUnavailable, ErrCodeExternalService:
		return http.StatusServiceUnavailable
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
