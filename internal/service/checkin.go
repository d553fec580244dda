// Package service implements the business logic of the Waypost API. The one
// interesting piece is the check-in enrichment pipeline: validate raw input,
// resolve a timezone and a place for the coordinate, optionally upload the
// photo, and only then hand a complete document to the store. Any step's
// failure aborts the whole operation — a partial record never reaches the
// database.
package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jmfraser/waypost/internal/domain"
	"github.com/jmfraser/waypost/internal/geo"
	"github.com/jmfraser/waypost/internal/repo"
)

// Geocoding result tags, as emitted by the upstream service.
const (
	typeCountry  = "country"
	typeLocality = "locality"
	typeAdmin1   = "administrative_area_level_1"
)

// noteSentinel is the client placeholder meaning "no note"; it is dropped
// rather than stored.
const noteSentinel = "no"

// TimezoneResolver resolves an IANA timezone id for a coordinate at a given
// instant. An empty id with a nil error means the point has no timezone.
type TimezoneResolver interface {
	Resolve(ctx context.Context, lat, lon float64, unixSeconds int64) (string, error)
}

// Geocoder performs a reverse-geocoding lookup and returns the upstream
// result ordering untouched (finest first, coarsest last).
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) ([]geo.Result, error)
}

// PhotoUploader stores image bytes with a hosted image service and returns
// the public URL.
type PhotoUploader interface {
	Upload(ctx context.Context, data []byte, fileName string) (string, error)
}

// CreateCheckin is the raw, unvalidated input to the enrichment pipeline,
// exactly as parsed from the request.
type CreateCheckin struct {
	Lat      float64
	Lon      float64
	Altitude float64
	Text     string
	Time     string // ISO-8601 / RFC 3339
	Photo    []byte // nil when no photo was attached
}

// CheckinService implements the check-in enrichment pipeline and listing.
type CheckinService struct {
	checkins  repo.CheckinRepo
	timezones TimezoneResolver
	geocoder  Geocoder
	photos    PhotoUploader
}

// NewCheckinService constructs a CheckinService backed by the provided store
// and adapters.
func NewCheckinService(checkins repo.CheckinRepo, timezones TimezoneResolver, geocoder Geocoder, photos PhotoUploader) *CheckinService {
	return &CheckinService{
		checkins:  checkins,
		timezones: timezones,
		geocoder:  geocoder,
		photos:    photos,
	}
}

// Create runs the full pipeline and returns the persisted record.
// Step order matters and is part of the contract: time parsing, altitude,
// location check, timezone, place, photo, note, insert. The first failing
// step wins; nothing is written unless every step succeeded.
func (s *CheckinService) Create(ctx context.Context, in CreateCheckin) (domain.Checkin, error) {
	t, err := time.Parse(time.RFC3339, in.Time)
	if err != nil {
		return domain.Checkin{}, fmt.Errorf("service.CheckinService.Create: %w", domain.ErrInvalidTime)
	}

	c := domain.Checkin{
		Lat:  in.Lat,
		Lon:  in.Lon,
		Time: t,
	}

	// Altitude is stored only when strictly positive; zero and below mean
	// the field is absent, not zero.
	if in.Altitude > 0 {
		a := in.Altitude
		c.Altitude = &a
	}

	if !validCoordinate(in.Lat) || !validCoordinate(in.Lon) {
		return domain.Checkin{}, fmt.Errorf("service.CheckinService.Create: %w", domain.ErrMissingLocation)
	}

	// Timezone resolution is best-effort: when it fails or comes back empty,
	// the raw submitted timestamp is kept as a local-time fallback and the
	// request carries on.
	tz, err := s.timezones.Resolve(ctx, c.Lat, c.Lon, t.Unix())
	if err != nil || tz == "" {
		c.TimeLocal = in.Time
	} else {
		c.Timezone = tz
	}

	country, city, area, err := s.resolvePlace(ctx, c.Lat, c.Lon)
	if err != nil {
		return domain.Checkin{}, fmt.Errorf("service.CheckinService.Create: %w", err)
	}
	c.Country = country
	c.City = city
	c.Area = area

	if in.Photo != nil {
		url, err := s.photos.Upload(ctx, in.Photo, photoFileName(t))
		if err != nil || url == "" {
			return domain.Checkin{}, fmt.Errorf("service.CheckinService.Create: %w", domain.ErrMissingImage)
		}
		c.ImageURL = url
	}

	if in.Text != "" && in.Text != noteSentinel {
		c.TextEntry = in.Text
	}

	id, err := s.checkins.Insert(ctx, c)
	if err != nil || id == (uuid.UUID{}) {
		return domain.Checkin{}, fmt.Errorf("service.CheckinService.Create: %w", domain.ErrInsertFailed)
	}
	c.ID = id

	return c, nil
}

// List returns all stored check-ins, most recent first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *CheckinService) List(ctx context.Context) ([]domain.Checkin, error) {
	checkins, err := s.checkins.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CheckinService.List: %w", err)
	}
	if checkins == nil {
		return []domain.Checkin{}, nil
	}
	return checkins, nil
}

// resolvePlace applies the place classification policy to the reverse-geocode
// result list. The upstream ordering runs finest to coarsest, so the last
// entry is treated as country-level and the second-to-last as locality or
// administrative-area level. City and area are mutually exclusive; city wins.
func (s *CheckinService) resolvePlace(ctx context.Context, lat, lon float64) (country, city, area string, err error) {
	results, err := s.geocoder.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return "", "", "", err
	}
	if len(results) < 2 {
		return "", "", "", domain.ErrMissingAreaData
	}

	last := results[len(results)-1]
	prev := results[len(results)-2]

	if last.HasType(typeCountry) {
		country = last.FormattedAddress
	}
	if prev.HasType(typeLocality) && len(prev.AddressComponents) > 0 {
		city = prev.AddressComponents[0].LongName
	}
	if city == "" && prev.HasType(typeAdmin1) && len(prev.AddressComponents) > 0 {
		area = prev.AddressComponents[0].LongName
	}

	if country == "" || (city == "" && area == "") {
		return "", "", "", domain.ErrMissingAreaData
	}
	return country, city, area, nil
}

// validCoordinate rejects the values the pipeline treats as "no location":
// zero (the parse fallback for an absent field) and NaN.
func validCoordinate(v float64) bool {
	return v != 0 && !math.IsNaN(v)
}

// photoFileName derives the hosted file name from the check-in instant.
func photoFileName(t time.Time) string {
	return "pic-" + t.UTC().Format("2006-01-02T15-04-05Z") + ".jpg"
}
