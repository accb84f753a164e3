package models

import "errors"

var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrDriverNotFound is returned when a driver id does not exist in the
	// directory, or when no live location entry exists for it.
	ErrDriverNotFound = errors.New("driver not found")

	// ErrInvalidCoordinates is returned when a latitude or longitude is
	// outside the WGS84 range. Rejected at the boundary; such values never
	// reach the location registry.
	ErrInvalidCoordinates = errors.New("coordinates out of range")

	// ErrInvalidStatusTransition is returned when an order status change is
	// not allowed from the order's current status.
	ErrInvalidStatusTransition = errors.New("order status transition not allowed")
)

// ErrorResponse is the JSON envelope for error replies.
type ErrorResponse struct {
	Message string `json:"message"`
}
