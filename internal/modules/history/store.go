package history

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/megafacil/internal/domain"
)

// Store is a single-slot cache of the parsed history, keyed by the source's
// modification time. It is safe for concurrent use.
type Store struct {
	path string
	load func(path string) (domain.Dataset, error)
	log  zerolog.Logger

	mu      sync.Mutex
	dataset domain.Dataset
	modTime time.Time
	loaded  bool
	loads   int
}

// NewStore creates a store for the CSV at path. Nothing is read until Get.
func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{
		path: path,
		load: Load,
		log:  log.With().Str("component", "history_store").Logger(),
	}
}

// Path returns the source path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the cached dataset, reloading it first when the source has
// never been read or its modification time changed. The returned dataset is
// a deep copy the caller owns.
func (s *Store) Get() (domain.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Dataset{}, fmt.Errorf("%w: %s", domain.ErrNotFound, s.path)
		}
		return domain.Dataset{}, fmt.Errorf("failed to stat history csv: %w", err)
	}

	modTime := info.ModTime()
	if !s.loaded || !modTime.Equal(s.modTime) {
		dataset, err := s.load(s.path)
		if err != nil {
			s.log.Error().Err(err).Str("path", s.path).Msg("Failed to load history")
			return domain.Dataset{}, err
		}

		s.dataset = dataset
		s.modTime = modTime
		s.loaded = true
		s.loads++

		s.log.Info().
			Str("path", s.path).
			Int("draws", dataset.Len()).
			Int("latest_draw_id", dataset.LatestDrawID()).
			Time("mod_time", modTime).
			Msg("History loaded")
	}

	return s.dataset.Clone(), nil
}

// Loads reports how many times the source has been parsed.
func (s *Store) Loads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}
