// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aurorax

import "errors"

// Error taxonomy. Operations return errors wrapped around these sentinels
// with fmt.Errorf("%w: ..."); callers classify with errors.Is.
var (
	// ErrBadParameters reports invalid search criteria. It is raised
	// before any network traffic.
	ErrBadParameters = errors.New("bad parameters")

	// ErrNotFound reports a request handle or resource the API does not
	// know.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized reports a missing or rejected API key.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnexpectedContentType reports a response body that could not be
	// parsed as JSON.
	ErrUnexpectedContentType = errors.New("unexpected content type")

	// ErrMalformedData reports result records that do not match the
	// documented record layout.
	ErrMalformedData = errors.New("malformed data")

	// ErrRequestFailed is the generic remote-failure class for non-2xx
	// statuses with no more specific mapping.
	ErrRequestFailed = errors.New("request failed")

	// ErrNotExecuted reports a handle-addressed operation on a search
	// that has not been submitted yet.
	ErrNotExecuted = errors.New("search not executed")

	// ErrMissingRequestID reports an accepted submission whose location
	// header carried no usable request handle.
	ErrMissingRequestID = errors.New("missing request ID")

	// ErrSearchFailed reports that the search engine raised its error
	// condition while servicing a request.
	ErrSearchFailed = errors.New("search failed")
)

// ErrorKind names the taxonomy class of err, for user-facing messages
// such as the CLI's "<kind> occurred: <message>" line.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrBadParameters):
		return "BadParametersError"
	case errors.Is(err, ErrNotFound):
		return "NotFoundError"
	case errors.Is(err, ErrUnauthorized):
		return "UnauthorizedError"
	case errors.Is(err, ErrUnexpectedContentType):
		return "UnexpectedContentTypeError"
	case errors.Is(err, ErrMalformedData):
		return "MalformedDataError"
	case errors.Is(err, ErrNotExecuted):
		return "NotExecutedError"
	case errors.Is(err, ErrMissingRequestID):
		return "MissingRequestIDError"
	case errors.Is(err, ErrSearchFailed):
		return "SearchFailedError"
	default:
		return "APIError"
	}
}
