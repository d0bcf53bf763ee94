package watchlist

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrIndexOutOfRange = errors.New("watchlist index out of range")
	ErrItemNotFound    = errors.New("watchlist item not found")
	ErrUnknownCategory = errors.New("unknown watchlist category")
)

// Category is one of the two watchlist partitions.
type Category string

const (
	CategoryMovies  Category = "movies"
	CategoryTVShows Category = "tvshows"
)

// AllCategories returns all categories in display order.
func AllCategories() []Category {
	return []Category{CategoryMovies, CategoryTVShows}
}

// ParseCategory resolves a category name. Matching ignores case and surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryMovies:
		return CategoryMovies, nil
	case CategoryTVShows:
		return CategoryTVShows, nil
	}
	return "", ErrUnknownCategory
}

// CategoryFromIsMovie maps the form flag used by the detail page.
func CategoryFromIsMovie(isMovie bool) Category {
	if isMovie {
		return CategoryMovies
	}
	return CategoryTVShows
}

// Title returns the heading shown on the category's page.
func (c Category) Title() string {
	if c == CategoryMovies {
		return "Movies"
	}
	return "TV Shows"
}

// Item is a single watchlist entry.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Completed bool      `json:"completed"`
	AddedAt   time.Time `json:"addedAt"`
}

// Event types broadcast after a mutation. EventSnapshot carries a Snapshot
// and is sent to websocket clients on connect.
const (
	EventAdded    = "watchlist:added"
	EventUpdated  = "watchlist:updated"
	EventRemoved  = "watchlist:removed"
	EventSnapshot = "watchlist:snapshot"
)

// EventPayload describes a single mutation. Index is the item's position
// at the time of the mutation.
type EventPayload struct {
	Category Category `json:"category"`
	Index    int      `json:"index"`
	Item     Item     `json:"item"`
}

// Snapshot is the full state of both collections.
type Snapshot struct {
	Movies  []Item `json:"movies"`
	TVShows []Item `json:"tvshows"`
}
