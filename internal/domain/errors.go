package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist — or exists but the viewer may not see it. The two
// cases are deliberately indistinguishable so that private notes do not leak
// their existence. Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. empty title, unknown visibility value).
// Handlers map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnauthenticated is returned when an operation requires a signed-in user
// and the viewer is anonymous. Handlers map this to HTTP 401.
var ErrUnauthenticated = errors.New("authentication required")

// ErrSlugExhausted is returned by slug generation when no free slug could be
// found within the probe limit. Surfaced to the caller as a write failure.
var ErrSlugExhausted = errors.New("slug space exhausted")
