package metadata

import (
	"context"

	"github.com/cinetrack/cinetrack/internal/metadata/tmdb"
)

// TMDBClient defines the TMDB operations the aggregator depends on.
type TMDBClient interface {
	Name() string
	IsConfigured() bool
	Test(ctx context.Context) error
	Trending(ctx context.Context, mediaType string) ([]tmdb.Payload, error)
	Search(ctx context.Context, mediaType, query string, page int) (*tmdb.SearchResponse, error)
	Details(ctx context.Context, mediaType, id string) (tmdb.Payload, error)
	Videos(ctx context.Context, mediaType, id string) ([]tmdb.Video, error)
	Credits(ctx context.Context, mediaType, id string) ([]tmdb.Payload, error)
}
