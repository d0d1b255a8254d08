package fetcher

import (
	"errors"
	"fmt"
)

// Kind classifies a failed lookup.
type Kind int

const (
	KindOther Kind = iota
	KindBlankQuery
	KindNoData
	KindInvalidResponse
	KindIncomplete
	KindNotFound
	KindBadRequest
	KindAuthFailed
	KindRateLimited
	KindStatus
	KindMalformed
	KindNetwork
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindBlankQuery:
		return "blank_query"
	case KindNoData:
		return "no_data"
	case KindInvalidResponse:
		return "invalid_response"
	case KindIncomplete:
		return "incomplete"
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindAuthFailed:
		return "auth_failed"
	case KindRateLimited:
		return "rate_limited"
	case KindStatus:
		return "status"
	case KindMalformed:
		return "malformed"
	case KindNetwork:
		return "network"
	case KindUnavailable:
		return "unavailable"
	default:
		return "other"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Error is a failed lookup. Message returns the text shown to the user;
// Error returns the diagnostic form including the cause.
type Error struct {
	Kind       Kind
	Place      string
	StatusCode int
	Err        error
}

// Message returns the short user-facing description.
func (e *Error) Message() string {
	switch e.Kind {
	case KindBlankQuery:
		return "Please enter a city"
	case KindNoData:
		return "City not found - no air quality data available"
	case KindInvalidResponse:
		return "City not found - invalid response from server"
	case KindIncomplete:
		return "City not found - incomplete air quality data"
	case KindNotFound:
		return "City not found - please check the city name"
	case KindBadRequest:
		return "Invalid city name - please enter a valid city"
	case KindAuthFailed:
		return "API authentication failed"
	case KindRateLimited:
		return "Too many requests - please try again later"
	case KindStatus:
		return fmt.Sprintf("City not found - Error code: %d", e.StatusCode)
	case KindMalformed:
		return "City not found - invalid data received"
	case KindNetwork:
		return "Network error - please check your connection"
	case KindUnavailable:
		return "Service temporarily unavailable - please try again later"
	default:
		detail := "unknown"
		if e.Err != nil {
			detail = e.Err.Error()
		}
		return "City not found - Exception: " + detail
	}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("fetcher: %s: %s", e.Kind, e.Place)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, place string, cause error) *Error {
	return &Error{Kind: kind, Place: place, Err: cause}
}

// KindOf returns the lookup failure kind of err, or KindOther when err is
// not a *Error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindOther
}

// MessageOf returns the user-facing message for err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Message()
	}
	return (&Error{Kind: KindOther, Err: err}).Message()
}
