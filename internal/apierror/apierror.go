// Package apierror classifies request failures into an HTTP status and a
// human-readable message.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the class of a failure.
type Kind string

// Failure kinds, used as metric labels.
const (
	InvalidCoordinate Kind = "invalid_coordinate" // A coordinate is missing, unparsable or out of range.
	InvalidUnit       Kind = "invalid_unit"       // The unit is neither km nor miles.
	RouteNotFound     Kind = "route_not_found"    // No route matches the request.
	RateLimited       Kind = "rate_limited"       // The client exceeded its request budget.
	InternalFailure   Kind = "internal_failure"   // Anything unexpected.
)

// Messages returned to clients.
const (
	MsgInvalidCoordinate = "Invalid latitude or longitude values. Please provide numbers between " +
		"-90 and 90 for latitude, and -180 and 180 for longitude."
	MsgInvalidUnit     = `Invalid unit. Accepted values are "km" or "miles".`
	MsgInternalFailure = "Internal Server Error"
)

// Failure is an error that carries the HTTP status it should be answered with.
type Failure struct {
	Kind    Kind
	Status  int
	Message string
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("%d %s", f.Status, f.Message)
}

// New creates a failure of the given kind.
func New(kind Kind, status int, message string) *Failure {
	return &Failure{Kind: kind, Status: status, Message: message}
}

// NewInvalidCoordinate reports a bad latitude or longitude with status 400.
func NewInvalidCoordinate() *Failure {
	return New(InvalidCoordinate, http.StatusBadRequest, MsgInvalidCoordinate)
}

// NewInvalidUnit reports an unsupported unit with status 400.
func NewInvalidUnit() *Failure {
	return New(InvalidUnit, http.StatusBadRequest, MsgInvalidUnit)
}

// NewRouteNotFound reports that no route matches method and path.
func NewRouteNotFound(method, path string) *Failure {
	return New(RouteNotFound, http.StatusNotFound, fmt.Sprintf("Cannot %s %s. Route not found.", method, path))
}

// NewRateLimited uses the limiter's configured message verbatim.
func NewRateLimited(message string) *Failure {
	return New(RateLimited, http.StatusTooManyRequests, message)
}

// NewInternal hides the cause of an unexpected failure behind status 500.
func NewInternal() *Failure {
	return New(InternalFailure, http.StatusInternalServerError, MsgInternalFailure)
}

// Classify maps any error to a failure. Failures, wrapped or not, are returned
// as is; everything else is an internal failure.
func Classify(err error) *Failure {
	var failure *Failure
	if !errors.As(err, &failure) {
		return NewInternal()
	}
	if failure.Status != 0 && failure.Message != "" {
		return failure
	}

	normalized := *failure
	if normalized.Status == 0 {
		normalized.Status = http.StatusInternalServerError
	}
	if normalized.Message == "" {
		normalized.Message = MsgInternalFailure
	}
	return &normalized
}
