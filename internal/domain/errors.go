package domain

import "errors"

// The enrichment pipeline has a flat error taxonomy: each of these is a
// terminal failure of the current request. Handlers surface the message as
// the HTTP 400 response body; nothing is retried.
var (
	// ErrInvalidTime is returned when the submitted timestamp cannot be
	// parsed as ISO-8601.
	ErrInvalidTime = errors.New("invalid time")

	// ErrMissingLocation is returned when latitude or longitude is absent,
	// zero, or NaN.
	ErrMissingLocation = errors.New("missing location")

	// ErrMissingAreaData is returned when reverse geocoding yields fewer
	// than two results, or no country, or neither a city nor an
	// administrative area.
	ErrMissingAreaData = errors.New("missing area data")

	// ErrMissingImage is returned when a photo was attached but the upload
	// service did not hand back a usable URL.
	ErrMissingImage = errors.New("missing image")

	// ErrInsertFailed is returned when the store does not confirm the write.
	ErrInsertFailed = errors.New("insert failed")
)
