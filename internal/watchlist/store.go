package watchlist

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Broadcaster defines the interface for sending WebSocket messages.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{}) error
}

// collection is one ordered list. The mutex covers every validate-then-mutate sequence.
type collection struct {
	mu    sync.Mutex
	items []Item
}

// Store holds the movie and TV watchlists for the lifetime of the process.
// Nothing is persisted.
type Store struct {
	collections map[Category]*collection
	broadcaster Broadcaster
	logger      zerolog.Logger
	now         func() time.Time
	newID       func() string
}

// NewStore creates an empty store.
func NewStore(logger zerolog.Logger) *Store {
	s := &Store{
		collections: make(map[Category]*collection),
		logger:      logger.With().Str("component", "watchlist").Logger(),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, cat := range AllCategories() {
		s.collections[cat] = &collection{}
	}
	return s
}

// SetBroadcaster sets the WebSocket broadcaster for real-time updates.
func (s *Store) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *Store) collection(cat Category) (*collection, error) {
	c, ok := s.collections[cat]
	if !ok {
		return nil, ErrUnknownCategory
	}
	return c, nil
}

// Append adds an uncompleted item to the end of the category. Duplicate names are allowed.
func (s *Store) Append(cat Category, name string) (Item, error) {
	c, err := s.collection(cat)
	if err != nil {
		return Item{}, err
	}

	item := Item{
		ID:      s.newID(),
		Name:    name,
		AddedAt: s.now().UTC(),
	}

	c.mu.Lock()
	c.items = append(c.items, item)
	index := len(c.items) - 1
	c.mu.Unlock()

	s.logger.Info().Str("category", string(cat)).Str("name", name).Int("index", index).Msg("Added watchlist item")
	s.broadcast(EventAdded, cat, index, item)
	return item, nil
}

// ToggleComplete sets the completed flag of the item at index.
func (s *Store) ToggleComplete(cat Category, index int, completed bool) (Item, error) {
	c, err := s.collection(cat)
	if err != nil {
		return Item{}, err
	}

	c.mu.Lock()
	if index < 0 || index >= len(c.items) {
		c.mu.Unlock()
		return Item{}, ErrIndexOutOfRange
	}
	c.items[index].Completed = completed
	item := c.items[index]
	c.mu.Unlock()

	s.logger.Debug().Str("category", string(cat)).Int("index", index).Bool("completed", completed).Msg("Updated watchlist item")
	s.broadcast(EventUpdated, cat, index, item)
	return item, nil
}

// Remove deletes the item at index. Later items shift down by one.
func (s *Store) Remove(cat Category, index int) (Item, error) {
	c, err := s.collection(cat)
	if err != nil {
		return Item{}, err
	}

	c.mu.Lock()
	if index < 0 || index >= len(c.items) {
		c.mu.Unlock()
		return Item{}, ErrIndexOutOfRange
	}
	item := c.removeAt(index)
	c.mu.Unlock()

	s.logger.Info().Str("category", string(cat)).Str("name", item.Name).Int("index", index).Msg("Removed watchlist item")
	s.broadcast(EventRemoved, cat, index, item)
	return item, nil
}

// SetCompleted sets the completed flag of the item with the given ID.
func (s *Store) SetCompleted(cat Category, id string, completed bool) (Item, error) {
	c, err := s.collection(cat)
	if err != nil {
		return Item{}, err
	}

	c.mu.Lock()
	index := c.indexOf(id)
	if index < 0 {
		c.mu.Unlock()
		return Item{}, ErrItemNotFound
	}
	c.items[index].Completed = completed
	item := c.items[index]
	c.mu.Unlock()

	s.logger.Debug().Str("category", string(cat)).Str("id", id).Bool("completed", completed).Msg("Updated watchlist item")
	s.broadcast(EventUpdated, cat, index, item)
	return item, nil
}

// RemoveByID deletes the item with the given ID.
func (s *Store) RemoveByID(cat Category, id string) (Item, error) {
	c, err := s.collection(cat)
	if err != nil {
		return Item{}, err
	}

	c.mu.Lock()
	index := c.indexOf(id)
	if index < 0 {
		c.mu.Unlock()
		return Item{}, ErrItemNotFound
	}
	item := c.removeAt(index)
	c.mu.Unlock()

	s.logger.Info().Str("category", string(cat)).Str("id", id).Str("name", item.Name).Msg("Removed watchlist item")
	s.broadcast(EventRemoved, cat, index, item)
	return item, nil
}

// List returns a copy of the category's items in order.
func (s *Store) List(cat Category) ([]Item, error) {
	c, err := s.collection(cat)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items, nil
}

// Len returns the number of items in the category, or 0 for an unknown category.
func (s *Store) Len(cat Category) int {
	c, err := s.collection(cat)
	if err != nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Snapshot returns both collections.
func (s *Store) Snapshot() Snapshot {
	movies, _ := s.List(CategoryMovies)
	tv, _ := s.List(CategoryTVShows)
	return Snapshot{Movies: movies, TVShows: tv}
}

func (c *collection) indexOf(id string) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (c *collection) removeAt(index int) Item {
	item := c.items[index]
	c.items = append(c.items[:index], c.items[index+1:]...)
	return item
}

// broadcast runs outside the collection lock.
func (s *Store) broadcast(msgType string, cat Category, index int, item Item) {
	if s.broadcaster == nil {
		return
	}

	payload := EventPayload{Category: cat, Index: index, Item: item}
	if err := s.broadcaster.Broadcast(msgType, payload); err != nil {
		s.logger.Error().Err(err).Str("type", msgType).Msg("Failed to broadcast watchlist event")
	}
}
