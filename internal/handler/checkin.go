package handler

import (
	"encoding/json"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jmfraser/waypost/internal/domain"
	"github.com/jmfraser/waypost/internal/service"
)

// maxUploadMemory bounds how much of a multipart body is held in memory
// while parsing; larger file parts spill to temp files.
const maxUploadMemory = 10 << 20 // 10 MiB

// CreateCheckin handles POST /checkin.
// The body is a multipart or urlencoded form with fields lat, lon, altitude,
// text, and time, plus at most one file part for a photo. On success the body
// is the literal "ok"; any validation or upstream failure answers 400 with
// the bare error message as plain text.
func (s *Server) CreateCheckin(w http.ResponseWriter, r *http.Request) {
	in, err := parseCreateForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := s.checkins.Create(r.Context(), in); err != nil {
		http.Error(w, unwrapMessage(err), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}

// ListCheckins handles GET /checkin.
// It returns every stored check-in, most recent first, wrapped in the
// {"success":true,"data":[...]} envelope the original API promised.
func (s *Server) ListCheckins(w http.ResponseWriter, r *http.Request) {
	checkins, err := s.checkins.List(r.Context())
	if err != nil {
		// Listing has no client-caused failure mode; anything here is ours.
		http.Error(w, unwrapMessage(err), http.StatusInternalServerError)
		return
	}

	data := make([]checkinResponse, len(checkins))
	for i, c := range checkins {
		data[i] = checkinToResponse(c)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(listResponse{Success: true, Data: data})
}

// --- request parsing --------------------------------------------------------

// parseCreateForm extracts the pipeline input from a multipart or urlencoded
// form. Parsing is deliberately forgiving: absent or malformed numbers become
// NaN and the pipeline's own validation decides the outcome, so the error
// taxonomy stays in one place.
func parseCreateForm(r *http.Request) (service.CreateCheckin, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		if err != http.ErrNotMultipart {
			return service.CreateCheckin{}, err
		}
		if err := r.ParseForm(); err != nil {
			return service.CreateCheckin{}, err
		}
	}

	in := service.CreateCheckin{
		Lat:      parseCoordinate(r.FormValue("lat")),
		Lon:      parseCoordinate(r.FormValue("lon")),
		Altitude: parseCoordinate(r.FormValue("altitude")),
		Text:     r.FormValue("text"),
		Time:     r.FormValue("time"),
	}

	photo, err := singlePhoto(r.MultipartForm)
	if err != nil {
		return service.CreateCheckin{}, err
	}
	in.Photo = photo

	return in, nil
}

// parseCoordinate parses a form float, tolerating a comma decimal separator.
// Absent or malformed values become NaN, which the pipeline rejects where the
// field is required and ignores where it is optional (altitude).
func parseCoordinate(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// singlePhoto reads the attached file when the form carries exactly one file
// part, under any field name. Zero files means no photo; more than one is
// treated the same as none, matching the original endpoint's behavior.
func singlePhoto(form *multipart.Form) ([]byte, error) {
	if form == nil {
		return nil, nil
	}

	var headers []*multipart.FileHeader
	for _, hs := range form.File {
		headers = append(headers, hs...)
	}
	if len(headers) != 1 {
		return nil, nil
	}

	f, err := headers[0].Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// --- response mapping -------------------------------------------------------

// listResponse is the GET /checkin envelope.
type listResponse struct {
	Success bool              `json:"success"`
	Data    []checkinResponse `json:"data"`
}

// locationResponse nests the coordinate pair the way the stored document
// shapes it.
type locationResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// checkinResponse is the wire shape of one stored check-in. Optional fields
// are omitted entirely rather than sent as zero values.
type checkinResponse struct {
	ID        uuid.UUID        `json:"id"`
	Location  locationResponse `json:"location"`
	Altitude  *float64         `json:"altitude,omitempty"`
	Time      time.Time        `json:"time"`
	TimeLocal string           `json:"time_local,omitempty"`
	Timezone  string           `json:"timezone,omitempty"`
	Country   string           `json:"country"`
	City      string           `json:"city,omitempty"`
	Area      string           `json:"area,omitempty"`
	Image     string           `json:"image,omitempty"`
	TextEntry string           `json:"text_entry,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// checkinToResponse converts a domain.Checkin into its wire shape.
func checkinToResponse(c domain.Checkin) checkinResponse {
	return checkinResponse{
		ID:        c.ID,
		Location:  locationResponse{Lat: c.Lat, Lon: c.Lon},
		Altitude:  c.Altitude,
		Time:      c.Time,
		TimeLocal: c.TimeLocal,
		Timezone:  c.Timezone,
		Country:   c.Country,
		City:      c.City,
		Area:      c.Area,
		Image:     c.ImageURL,
		TextEntry: c.TextEntry,
		CreatedAt: c.CreatedAt,
	}
}
