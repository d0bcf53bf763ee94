package metadata

import (
	"errors"
	"fmt"

	"github.com/cinetrack/cinetrack/internal/metadata/tmdb"
)

// SearchPageSize is the fixed number of results per search page.
const SearchPageSize = 20

// MaxCastMembers is the number of billed cast members kept on a detail view.
const MaxCastMembers = 10

// MediaType identifies the kind of title being looked up.
type MediaType string

const (
	MediaTypeMovie MediaType = tmdb.MediaMovie
	MediaTypeTV    MediaType = tmdb.MediaTV
)

// MediaTypeFromPath maps a details route segment: "movie" is a movie, anything else is TV.
func MediaTypeFromPath(s string) MediaType {
	if s == string(MediaTypeMovie) {
		return MediaTypeMovie
	}
	return MediaTypeTV
}

// MediaTypeFromFilter maps a search filter: "tv" is TV, anything else is a movie.
func MediaTypeFromFilter(s string) MediaType {
	if s == string(MediaTypeTV) {
		return MediaTypeTV
	}
	return MediaTypeMovie
}

// MediaRef identifies a lookup target.
type MediaRef struct {
	MediaType MediaType `json:"mediaType"`
	ID        string    `json:"id"`
}

func (r MediaRef) String() string {
	return fmt.Sprintf("%s/%s", r.MediaType, r.ID)
}

// StageStatus is the result of a secondary lookup stage.
type StageStatus int

const (
	// StageOK means the lookup succeeded and produced a value.
	StageOK StageStatus = iota
	// StageNotFound means the lookup succeeded but had nothing to offer.
	StageNotFound
	// StageFailed means the lookup errored and the field was left absent.
	StageFailed
)

func (s StageStatus) String() string {
	switch s {
	case StageOK:
		return "ok"
	case StageNotFound:
		return "not_found"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name in JSON.
func (s StageStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome summarizes a successful aggregation.
type Outcome string

const (
	OutcomeComplete Outcome = "complete"
	OutcomeDegraded Outcome = "degraded"
)

// AggregatedMedia combines the primary details with the optional trailer and cast.
type AggregatedMedia struct {
	Ref     MediaRef     `json:"ref"`
	Details tmdb.Payload `json:"details"`
	// TrailerURL is empty when no trailer is available.
	TrailerURL string `json:"trailerUrl,omitempty"`
	// Cast is nil when the credits lookup failed.
	Cast []tmdb.Payload `json:"cast"`

	TrailerStatus StageStatus `json:"trailerStatus"`
	CastStatus    StageStatus `json:"castStatus"`
}

// HasTrailer reports whether a trailer URL was derived.
func (m *AggregatedMedia) HasTrailer() bool {
	return m.TrailerStatus == StageOK
}

// HasCast reports whether the credits lookup succeeded.
func (m *AggregatedMedia) HasCast() bool {
	return m.CastStatus == StageOK
}

// Outcome returns OutcomeDegraded when any secondary lookup failed.
func (m *AggregatedMedia) Outcome() Outcome {
	if m.TrailerStatus == StageFailed || m.CastStatus == StageFailed {
		return OutcomeDegraded
	}
	return OutcomeComplete
}

// SearchResultPage is one page of search results.
type SearchResultPage struct {
	Query        string         `json:"query"`
	MediaType    MediaType      `json:"mediaType"`
	Items        []tmdb.Payload `json:"items"`
	TotalResults int            `json:"totalResults"`
	TotalPages   int            `json:"totalPages"`
	PageSize     int            `json:"pageSize"`
	CurrentPage  int            `json:"currentPage"`
}

// TotalPages returns ceil(totalResults / SearchPageSize).
func TotalPages(totalResults int) int {
	if totalResults <= 0 {
		return 0
	}
	return (totalResults + SearchPageSize - 1) / SearchPageSize
}

var (
	// ErrDetailsFetch matches any *DetailsFetchError via errors.Is.
	ErrDetailsFetch = errors.New("details fetch failed")
	ErrNotFound     = errors.New("metadata not found")
)

// DetailsFetchError reports a failed primary lookup.
type DetailsFetchError struct {
	Ref MediaRef
	Err error
}

func (e *DetailsFetchError) Error() string {
	return fmt.Sprintf("fetch details for %s: %v", e.Ref, e.Err)
}

func (e *DetailsFetchError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrDetailsFetch, and ErrNotFound when TMDB returned 404.
func (e *DetailsFetchError) Is(target error) bool {
	switch target {
	case ErrDetailsFetch:
		return true
	case ErrNotFound:
		return errors.Is(e.Err, tmdb.ErrNotFound)
	}
	return false
}
