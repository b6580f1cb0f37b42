package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// tour does not exist on disk.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("tour not found")

// ErrInvalidSlug is returned when a tour name or identifier does not reduce
// to a usable slug, fails validation, or is reserved by the frontend.
// Handlers should map this to HTTP 400.
var ErrInvalidSlug = errors.New("invalid slug")

// ErrUnsupportedFormat is returned when an uploaded scene image has an
// extension outside the JPG/PNG/WEBP allowlist.
// Handlers should map this to HTTP 400.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrInvalidPayload is returned when a request body is not valid JSON or
// is missing a required field.
// Handlers should map this to HTTP 400.
var ErrInvalidPayload = errors.New("invalid payload")

// ErrMissingAttachment is returned when a scene upload carries no usable
// file part.
// Handlers should map this to HTTP 400.
var ErrMissingAttachment = errors.New("missing attachment")
