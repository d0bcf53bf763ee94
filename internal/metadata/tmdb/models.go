package tmdb

// Payload is an opaque TMDB object passed through to callers untouched.
type Payload map[string]any

// String returns the string value at key, or "" when absent or not a string.
func (p Payload) String(key string) string {
	if p == nil {
		return ""
	}
	s, _ := p[key].(string)
	return s
}

// Title returns "title" for movies and falls back to "name" for TV.
func (p Payload) Title() string {
	if t := p.String("title"); t != "" {
		return t
	}
	return p.String("name")
}

// TrendingResponse is the response from /trending/{movie|tv}/week.
type TrendingResponse struct {
	Page    int       `json:"page"`
	Results []Payload `json:"results"`
}

// SearchResponse is the response from /search/{movie|tv}.
// TotalResults decodes to zero when the field is absent.
type SearchResponse struct {
	Page         int       `json:"page"`
	Results      []Payload `json:"results"`
	TotalPages   int       `json:"total_pages"`
	TotalResults int       `json:"total_results"`
}

// VideosResponse is the response from /{movie|tv}/{id}/videos.
type VideosResponse struct {
	ID      int     `json:"id"`
	Results []Video `json:"results"`
}

// Video represents a video (trailer, teaser, etc.) from TMDB.
type Video struct {
	Key      string `json:"key"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Official bool   `json:"official"`
}

// CreditsResponse is the response from /{movie|tv}/{id}/credits.
type CreditsResponse struct {
	ID   int       `json:"id"`
	Cast []Payload `json:"cast"`
	Crew []Payload `json:"crew"`
}

// ErrorResponse is an error from the TMDB API.
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
