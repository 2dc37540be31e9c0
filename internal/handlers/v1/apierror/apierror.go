// Package apierror maps ledger errors onto HTTP problem responses.
package apierror

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

// From converts err into a huma status error. Unknown errors become a 500
// carrying msg; the original error stays in the problem details.
func From(err error, msg string) error {
	var (
		validation *ledger.ValidationError
		mismatch   *ledger.AmountMismatchError
		notFound   *ledger.NotFoundError
		already    *ledger.AlreadySplitError
		overlap    *ledger.OverlapConflictError
		protected  *ledger.LastVersionProtectedError
		statusErr  huma.StatusError
	)
	switch {
	case errors.As(err, &statusErr):
		return err
	case errors.As(err, &validation):
		return huma.NewError(http.StatusBadRequest, validation.Error(), &huma.ErrorDetail{
			Location: "body." + validation.Field,
			Message:  validation.Message,
		})
	case errors.As(err, &mismatch):
		return huma.NewError(http.StatusUnprocessableEntity, mismatch.Error())
	case errors.As(err, &notFound):
		return huma.NewError(http.StatusNotFound, notFound.Error())
	case errors.As(err, &already):
		return huma.NewError(http.StatusConflict, already.Error())
	case errors.As(err, &overlap):
		return huma.NewError(http.StatusConflict, overlap.Error(), &huma.ErrorDetail{
			Location: "conflictingVersionID",
			Value:    overlap.ConflictingVersionID.String(),
		})
	case errors.As(err, &protected):
		return huma.NewError(http.StatusConflict, protected.Error())
	default:
		return huma.NewError(http.StatusInternalServerError, msg, err)
	}
}
