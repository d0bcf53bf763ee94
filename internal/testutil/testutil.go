// Package testutil provides testing utilities for integration tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cinetrack/cinetrack/internal/config"
)

// TestAPIKey is the key the fake server expects.
const TestAPIKey = "test-key"

type fixture struct {
	status int
	body   string
}

// TMDBServer is a fake TMDB API serving canned JSON by path.
// Unknown paths return 404 like the real API.
type TMDBServer struct {
	*httptest.Server

	mu       sync.Mutex
	fixtures map[string]fixture
	hits     map[string]int
}

// NewTMDBServer starts a fake TMDB API preloaded with a small catalog:
// trending lists, searches, The Matrix (movie 603) and Breaking Bad (tv 1396).
// The server is closed when the test ends.
func NewTMDBServer(t *testing.T) *TMDBServer {
	t.Helper()

	s := &TMDBServer{
		fixtures: make(map[string]fixture),
		hits:     make(map[string]int),
	}
	for path, body := range defaultFixtures {
		s.fixtures[path] = fixture{status: http.StatusOK, body: body}
	}

	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *TMDBServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	f, ok := s.fixtures[r.URL.Path]
	s.mu.Unlock()

	if r.URL.Query().Get("api_key") != TestAPIKey {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key"}`))
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	w.Write([]byte(f.body))
}

// Handle replaces the response for path.
func (s *TMDBServer) Handle(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixtures[path] = fixture{status: status, body: body}
}

// Fail makes path answer with a 500.
func (s *TMDBServer) Fail(path string) {
	s.Handle(path, http.StatusInternalServerError, `{"status_code":11,"status_message":"Internal error"}`)
}

// Hits returns how many times path was requested.
func (s *TMDBServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// Config returns a TMDB config pointing at the fake server.
func (s *TMDBServer) Config() config.TMDBConfig {
	return config.TMDBConfig{
		APIKey:         TestAPIKey,
		BaseURL:        s.URL,
		ImageBaseURL:   config.DefaultImageBaseURL,
		TrailerBaseURL: config.DefaultTrailerBaseURL,
		Timeout:        5,
	}
}

// NewLogger returns a debug logger that writes through t.Log.
func NewLogger(t *testing.T) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}

var defaultFixtures = map[string]string{
	"/configuration": `{"images":{"base_url":"http://image.tmdb.org/t/p/"}}`,

	"/trending/movie/week": `{"page":1,"results":[
		{"id":603,"title":"The Matrix","poster_path":"/matrix.jpg","release_date":"1999-03-30","media_type":"movie"},
		{"id":27205,"title":"Inception","poster_path":"/inception.jpg","release_date":"2010-07-15","media_type":"movie"}]}`,
	"/trending/tv/week": `{"page":1,"results":[
		{"id":1396,"name":"Breaking Bad","poster_path":"/bb.jpg","first_air_date":"2008-01-20","media_type":"tv"}]}`,

	"/search/movie": `{"page":1,"total_pages":3,"total_results":45,"results":[
		{"id":603,"title":"The Matrix","release_date":"1999-03-30"},
		{"id":604,"title":"The Matrix Reloaded","release_date":"2003-05-15"}]}`,
	"/search/tv": `{"page":1,"total_pages":0,"total_results":0,"results":[]}`,

	"/movie/603": `{"id":603,"title":"The Matrix","overview":"A hacker learns the truth.","release_date":"1999-03-30","vote_average":8.2,"poster_path":"/matrix.jpg"}`,
	"/movie/603/videos": `{"id":603,"results":[
		{"key":"teaser1","site":"YouTube","type":"Teaser"},
		{"key":"vKQi3bBA1y8","site":"YouTube","type":"Trailer"}]}`,
	"/movie/603/credits": `{"id":603,"cast":[
		{"name":"Keanu Reeves","character":"Neo","profile_path":"/keanu.jpg"},
		{"name":"Carrie-Anne Moss","character":"Trinity"}]}`,

	"/tv/1396":         `{"id":1396,"name":"Breaking Bad","overview":"A chemist turns to crime.","first_air_date":"2008-01-20"}`,
	"/tv/1396/videos":  `{"id":1396,"results":[]}`,
	"/tv/1396/credits": `{"id":1396,"cast":[{"name":"Bryan Cranston","character":"Walter White"}]}`,
}
