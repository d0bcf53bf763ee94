package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cinetrack/cinetrack/internal/config"
)

func newTestClient(server *httptest.Server) *Client {
	cfg := config.TMDBConfig{
		APIKey:       "test-api-key",
		BaseURL:      server.URL,
		ImageBaseURL: "https://image.tmdb.org/t/p",
		Timeout:      5,
	}
	return NewClient(cfg, zerolog.Nop())
}

func TestClient_Name(t *testing.T) {
	client := NewClient(config.TMDBConfig{}, zerolog.Nop())
	if client.Name() != "tmdb" {
		t.Errorf("Name() = %q, want %q", client.Name(), "tmdb")
	}
}

func TestClient_IsConfigured(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		want   bool
	}{
		{"with key", "abc123", true},
		{"without key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(config.TMDBConfig{APIKey: tt.apiKey}, zerolog.Nop())
			if got := client.IsConfigured(); got != tt.want {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_NoAPIKey(t *testing.T) {
	client := NewClient(config.TMDBConfig{BaseURL: "http://127.0.0.1:1"}, zerolog.Nop())
	_, err := client.Details(context.Background(), MediaMovie, "603")
	if !errors.Is(err, ErrAPIKeyMissing) {
		t.Errorf("Details() error = %v, want %v", err, ErrAPIKeyMissing)
	}
}

func TestClient_Trending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trending/tv/week" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-api-key" {
			t.Errorf("api_key = %q", got)
		}
		w.Write([]byte(`{"page":1,"results":[{"id":1396,"name":"Breaking Bad"},{"id":94605,"name":"Arcane"}]}`))
	}))
	defer server.Close()

	results, err := newTestClient(server).Trending(context.Background(), MediaTV)
	if err != nil {
		t.Fatalf("Trending() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Trending() returned %d results, want 2", len(results))
	}
	if results[1].Title() != "Arcane" {
		t.Errorf("results[1].Title() = %q, want %q", results[1].Title(), "Arcane")
	}
}

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("query") != "The Matrix" {
			t.Errorf("unexpected query: %s", q.Get("query"))
		}
		if q.Get("page") != "7" {
			t.Errorf("unexpected page: %s", q.Get("page"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"page":          7,
			"total_results": 45,
			"total_pages":   3,
			"results":       []map[string]any{{"id": 603, "title": "The Matrix"}},
		})
	}))
	defer server.Close()

	resp, err := newTestClient(server).Search(context.Background(), MediaMovie, "The Matrix", 7)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.TotalResults != 45 {
		t.Errorf("TotalResults = %d, want 45", resp.TotalResults)
	}
	if len(resp.Results) != 1 || resp.Results[0].Title() != "The Matrix" {
		t.Errorf("unexpected results: %+v", resp.Results)
	}
}

func TestClient_Search_MissingTotal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	resp, err := newTestClient(server).Search(context.Background(), MediaTV, "nothing", 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.TotalResults != 0 {
		t.Errorf("TotalResults = %d, want 0", resp.TotalResults)
	}
}

func TestClient_Details(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":603,"title":"The Matrix","vote_average":8.2,"genres":[{"id":28,"name":"Action"}]}`))
	}))
	defer server.Close()

	details, err := newTestClient(server).Details(context.Background(), MediaMovie, "603")
	if err != nil {
		t.Fatalf("Details() error = %v", err)
	}
	if details.Title() != "The Matrix" {
		t.Errorf("Title() = %q, want %q", details.Title(), "The Matrix")
	}
	if details["vote_average"] != 8.2 {
		t.Errorf("vote_average = %v, want 8.2", details["vote_average"])
	}
	if _, ok := details["genres"].([]any); !ok {
		t.Errorf("genres not passed through: %T", details["genres"])
	}
}

func TestClient_Details_EscapesID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawPath != "/tv/a%2Fb" && r.URL.EscapedPath() != "/tv/a%2Fb" {
			t.Errorf("id not escaped: %s", r.URL.EscapedPath())
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	if _, err := newTestClient(server).Details(context.Background(), MediaTV, "a/b"); err != nil {
		t.Fatalf("Details() error = %v", err)
	}
}

func TestClient_Videos(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/1396/videos" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(VideosResponse{
			ID: 1396,
			Results: []Video{
				{Key: "teaser1", Type: "Teaser", Site: "YouTube"},
				{Key: "abc123", Type: "Trailer", Site: "YouTube"},
			},
		})
	}))
	defer server.Close()

	videos, err := newTestClient(server).Videos(context.Background(), MediaTV, "1396")
	if err != nil {
		t.Fatalf("Videos() error = %v", err)
	}
	if len(videos) != 2 || videos[1].Key != "abc123" {
		t.Errorf("unexpected videos: %+v", videos)
	}
}

func TestClient_Credits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603/credits" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":603,"cast":[{"name":"Keanu Reeves","order":0},{"name":"Carrie-Anne Moss","order":1}]}`))
	}))
	defer server.Close()

	cast, err := newTestClient(server).Credits(context.Background(), MediaMovie, "603")
	if err != nil {
		t.Fatalf("Credits() error = %v", err)
	}
	if len(cast) != 2 || cast[0].String("name") != "Keanu Reeves" {
		t.Errorf("unexpected cast: %+v", cast)
	}
}

func TestClient_GetImageURL(t *testing.T) {
	client := NewClient(config.TMDBConfig{ImageBaseURL: "https://image.tmdb.org/t/p/"}, zerolog.Nop())

	if got := client.GetImageURL("/poster.jpg", "w500"); got != "https://image.tmdb.org/t/p/w500/poster.jpg" {
		t.Errorf("GetImageURL() = %q", got)
	}
	if got := client.GetImageURL("", "w500"); got != "" {
		t.Errorf("GetImageURL(empty) = %q, want empty", got)
	}
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"not found", http.StatusNotFound, ErrNotFound},
		{"unauthorized", http.StatusUnauthorized, ErrAPIError},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusInternalServerError, ErrAPIError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(ErrorResponse{StatusCode: 34, StatusMessage: "nope"})
			}))
			defer server.Close()

			_, err := newTestClient(server).Details(context.Background(), MediaMovie, "1")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(server)
	server.Close()

	_, err := client.Trending(context.Background(), MediaMovie)
	if !errors.Is(err, ErrTransport) {
		t.Errorf("error = %v, want %v", err, ErrTransport)
	}
}

func TestPayload_Title(t *testing.T) {
	if got := (Payload{"name": "Dark"}).Title(); got != "Dark" {
		t.Errorf("Title() = %q, want %q", got, "Dark")
	}
	if got := (Payload(nil)).Title(); got != "" {
		t.Errorf("nil Title() = %q, want empty", got)
	}
}
