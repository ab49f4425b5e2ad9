package mock

import "errors"

var (
	// ErrResponseMissing is returned when an HTTP expectation produced no
	// response. It marks a malformed expectation rather than a test failure.
	ErrResponseMissing = errors.New("HTTP service mock response is missing")

	// ErrInvalidReceiver is returned by Construct when the receiver cannot
	// hold the constructed properties.
	ErrInvalidReceiver = errors.New("invalid construct receiver")
)
