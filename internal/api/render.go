package api

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cinetrack/cinetrack/internal/metadata/tmdb"
)

// Renderer renders the embedded html/template pages for echo.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses every *.html file in fsys. imageBaseURL prefixes poster paths.
func NewRenderer(fsys fs.FS, imageBaseURL string) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(templateFuncs(imageBaseURL)).ParseFS(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Render implements echo.Renderer. name is the template file name without extension.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name+".html", data)
}

// cardData is the argument of the "card" partial.
type cardData struct {
	MediaType string
	Item      tmdb.Payload
}

func templateFuncs(imageBaseURL string) template.FuncMap {
	return template.FuncMap{
		"posterURL": func(p tmdb.Payload, size string) string {
			return tmdb.ImageURL(imageBaseURL, p.String("poster_path"), size)
		},
		"profileURL": func(p tmdb.Payload, size string) string {
			return tmdb.ImageURL(imageBaseURL, p.String("profile_path"), size)
		},
		"mediaID": mediaID,
		"year":    releaseYear,
		"rating":  rating,
		"cardOf": func(mediaType string, p tmdb.Payload) cardData {
			return cardData{MediaType: mediaType, Item: p}
		},
	}
}

// mediaID formats the numeric "id" field decoded from JSON.
func mediaID(p tmdb.Payload) string {
	switch v := p["id"].(type) {
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case string:
		return v
	default:
		return ""
	}
}

// releaseYear returns the year of release_date (movies) or first_air_date (TV).
func releaseYear(p tmdb.Payload) string {
	date := p.String("release_date")
	if date == "" {
		date = p.String("first_air_date")
	}
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

func rating(p tmdb.Payload) string {
	v, ok := p["vote_average"].(float64)
	if !ok || v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
