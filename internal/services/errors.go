// Package services defines the business logic for sessions, chat turns, and
// incident reports. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked
// by callers.
//
// These errors are intended for internal use by the service layer; the
// handler layer is the sole place that translates them into HTTP status
// codes.
package services

import "errors"

var (
	// ErrSessionNotFound indicates that the referenced session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrReportNotFound indicates that the session owns no report.
	ErrReportNotFound = errors.New("report not found")

	// ErrEmptyMessage is returned when a chat submission is empty or
	// whitespace-only.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrMessageTooLong is returned when a chat submission exceeds the
	// maximum permitted length.
	ErrMessageTooLong = errors.New("message too long")

	// ErrInvalidReportField is returned when a submitted report field is
	// outside its closed value set.
	ErrInvalidReportField = errors.New("invalid report field value")

	// ErrUpstreamUnavailable indicates the LLM provider was unreachable,
	// rate limited, or timed out. Already-persisted user input is retained.
	ErrUpstreamUnavailable = errors.New("upstream llm unavailable")

	// ErrUpstreamMalformed indicates the provider responded without any
	// usable text.
	ErrUpstreamMalformed = errors.New("upstream llm returned no usable text")
)
