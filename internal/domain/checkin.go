// Package domain contains the core data types for the Waypost check-in API.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Checkin is the sole persisted entity: one record of being at a place at a
// time, enriched with a resolved timezone and reverse-geocoded place names.
// Records are immutable after creation; there are no update or delete paths.
type Checkin struct {
	ID uuid.UUID

	// Lat and Lon are always set on a persisted record; zero is rejected
	// before anything reaches the store.
	Lat float64
	Lon float64

	// Altitude is nil unless the submitted altitude was strictly positive.
	Altitude *float64

	// Time is the absolute instant parsed from the submitted ISO-8601 string.
	Time time.Time

	// TimeLocal holds the raw submitted timestamp string, set only when
	// timezone resolution yielded nothing. Exactly one of Timezone/TimeLocal
	// carries information.
	TimeLocal string

	// Timezone is the resolved IANA timezone id, empty when unresolved.
	Timezone string

	// Country is the formatted address of the coarsest geocoding result.
	// Always set on a persisted record.
	Country string

	// City and Area are mutually exclusive; City wins when both could be
	// derived. Area is the state/province-level fallback.
	City string
	Area string

	// ImageURL is the hosted photo URL, set only when a photo was attached
	// and the upload succeeded.
	ImageURL string

	// TextEntry is the free-text note, set only when non-empty and not the
	// client sentinel "no".
	TextEntry string

	CreatedAt time.Time
}
