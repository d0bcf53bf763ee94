package metadata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinetrack/cinetrack/internal/config"
	"github.com/cinetrack/cinetrack/internal/metadata/tmdb"
)

// TrailerVideoType is the video type that qualifies as a trailer.
const TrailerVideoType = "Trailer"

// Options tune the aggregator beyond the TMDB client.
type Options struct {
	TrailerBaseURL string
	TrendingTTL    time.Duration
	CacheMaxItems  int
}

// OptionsFromConfig builds Options from application config.
func OptionsFromConfig(tmdbCfg config.TMDBConfig, cacheCfg config.CacheConfig) Options {
	return Options{
		TrailerBaseURL: tmdbCfg.TrailerBaseURL,
		TrendingTTL:    cacheCfg.TrendingTTL,
		CacheMaxItems:  cacheCfg.MaxItems,
	}
}

// Service aggregates TMDB lookups into the shapes the pages render.
type Service struct {
	tmdb           TMDBClient
	cache          *Cache[[]tmdb.Payload]
	trailerBaseURL string
	trendingTTL    time.Duration
	logger         zerolog.Logger
}

// NewService creates a new metadata service backed by a real TMDB client.
func NewService(tmdbCfg config.TMDBConfig, opts Options, logger zerolog.Logger) *Service {
	return NewServiceWithClient(tmdb.NewClient(tmdbCfg, logger), opts, logger)
}

// NewServiceWithClient creates a metadata service with a custom client (for testing).
func NewServiceWithClient(client TMDBClient, opts Options, logger zerolog.Logger) *Service {
	if opts.TrailerBaseURL == "" {
		opts.TrailerBaseURL = config.DefaultTrailerBaseURL
	}
	return &Service{
		tmdb:           client,
		cache:          NewCache[[]tmdb.Payload](opts.TrendingTTL, opts.CacheMaxItems),
		trailerBaseURL: opts.TrailerBaseURL,
		trendingTTL:    opts.TrendingTTL,
		logger:         logger.With().Str("component", "metadata").Logger(),
	}
}

// Client returns the underlying TMDB client.
func (s *Service) Client() TMDBClient {
	return s.tmdb
}

// ClearCache drops every cached trending list.
func (s *Service) ClearCache() {
	s.cache.Clear()
	s.logger.Info().Msg("Metadata cache cleared")
}

// Close releases the cache's background janitor.
func (s *Service) Close() {
	s.cache.Close()
}

// FetchTrending returns this week's trending titles. A zero TrendingTTL disables caching.
func (s *Service) FetchTrending(ctx context.Context, mediaType MediaType) ([]tmdb.Payload, error) {
	cacheKey := trendingCacheKey(mediaType)
	if s.trendingTTL > 0 {
		if results, ok := s.cache.Get(cacheKey); ok {
			s.logger.Debug().Str("mediaType", string(mediaType)).Msg("Trending cache hit")
			return results, nil
		}
	}

	return s.loadTrending(ctx, mediaType)
}

// RefreshTrending reloads both trending lists, bypassing the cache.
func (s *Service) RefreshTrending(ctx context.Context) error {
	var lastErr error
	for _, mt := range []MediaType{MediaTypeMovie, MediaTypeTV} {
		if _, err := s.loadTrending(ctx, mt); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (s *Service) loadTrending(ctx context.Context, mediaType MediaType) ([]tmdb.Payload, error) {
	results, err := s.tmdb.Trending(ctx, string(mediaType))
	if err != nil {
		s.logger.Error().Err(err).Str("mediaType", string(mediaType)).Msg("Trending lookup failed")
		return nil, fmt.Errorf("fetch trending %s: %w", mediaType, err)
	}
	if results == nil {
		results = []tmdb.Payload{}
	}

	if s.trendingTTL > 0 {
		s.cache.Set(trendingCacheKey(mediaType), results)
	}
	return results, nil
}

func trendingCacheKey(mediaType MediaType) string {
	return "trending:" + string(mediaType)
}

// FetchDetails runs the detail pipeline: primary details, then videos and credits.
// Only a primary failure is returned as an error; secondary failures leave their
// field absent and are recorded in the stage status.
func (s *Service) FetchDetails(ctx context.Context, ref MediaRef) (*AggregatedMedia, error) {
	details, err := s.tmdb.Details(ctx, string(ref.MediaType), ref.ID)
	if err != nil {
		s.logger.Error().Err(err).Stringer("ref", ref).Msg("Primary details lookup failed")
		return nil, &DetailsFetchError{Ref: ref, Err: err}
	}

	result := &AggregatedMedia{
		Ref:     ref,
		Details: details,
	}

	result.TrailerURL, result.TrailerStatus = s.trailerStage(ctx, ref)
	result.Cast, result.CastStatus = s.castStage(ctx, ref)

	s.logger.Info().
		Stringer("ref", ref).
		Str("title", details.Title()).
		Stringer("trailer", result.TrailerStatus).
		Stringer("cast", result.CastStatus).
		Str("outcome", string(result.Outcome())).
		Msg("Got aggregated details")

	return result, nil
}

func (s *Service) trailerStage(ctx context.Context, ref MediaRef) (string, StageStatus) {
	videos, err := s.tmdb.Videos(ctx, string(ref.MediaType), ref.ID)
	if err != nil {
		s.logger.Warn().Err(err).Stringer("ref", ref).Msg("Failed to get videos, continuing without trailer")
		return "", StageFailed
	}

	key, ok := FirstTrailerKey(videos)
	if !ok {
		return "", StageNotFound
	}
	return s.trailerURL(key), StageOK
}

func (s *Service) castStage(ctx context.Context, ref MediaRef) ([]tmdb.Payload, StageStatus) {
	cast, err := s.tmdb.Credits(ctx, string(ref.MediaType), ref.ID)
	if err != nil {
		s.logger.Warn().Err(err).Stringer("ref", ref).Msg("Failed to get credits, continuing without cast")
		return nil, StageFailed
	}
	return TopCast(cast), StageOK
}

func (s *Service) trailerURL(key string) string {
	if strings.Contains(s.trailerBaseURL, "%s") {
		return fmt.Sprintf(s.trailerBaseURL, key)
	}
	return s.trailerBaseURL + key
}

// FirstTrailerKey returns the key of the first video typed "Trailer".
func FirstTrailerKey(videos []tmdb.Video) (string, bool) {
	for _, v := range videos {
		if v.Type == TrailerVideoType {
			return v.Key, true
		}
	}
	return "", false
}

// TopCast returns the first MaxCastMembers entries in billing order.
// The result is never nil so an empty cast is distinguishable from a failed lookup.
func TopCast(cast []tmdb.Payload) []tmdb.Payload {
	n := min(len(cast), MaxCastMembers)
	out := make([]tmdb.Payload, n)
	copy(out, cast[:n])
	return out
}

// Search runs a single paged search. The page is not validated against TotalPages.
func (s *Service) Search(ctx context.Context, query string, mediaType MediaType, page int) (*SearchResultPage, error) {
	resp, err := s.tmdb.Search(ctx, string(mediaType), query, page)
	if err != nil {
		s.logger.Error().Err(err).
			Str("query", query).
			Str("mediaType", string(mediaType)).
			Int("page", page).
			Msg("Search failed")
		return nil, fmt.Errorf("search %s: %w", mediaType, err)
	}

	items := resp.Results
	if items == nil {
		items = []tmdb.Payload{}
	}

	return &SearchResultPage{
		Query:        query,
		MediaType:    mediaType,
		Items:        items,
		TotalResults: resp.TotalResults,
		TotalPages:   TotalPages(resp.TotalResults),
		PageSize:     SearchPageSize,
		CurrentPage:  page,
	}, nil
}
