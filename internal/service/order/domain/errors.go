package domain

import "errors"

// Error taxonomy shared by the orchestrator and its transport layer. Every
// error leaving the application layer wraps exactly one of these sentinels.
var (
	// ErrNotFound: referenced order, item or inventory record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden: the caller is not the order's owner.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict: insufficient inventory at reservation time, or an operation
	// against an order whose status does not permit it.
	ErrConflict = errors.New("conflict")
	// ErrUpstreamUnavailable: a gateway dependency is unreachable or erroring.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrInvalid: malformed request (empty line list, non-positive quantity).
	ErrInvalid = errors.New("invalid request")
)
