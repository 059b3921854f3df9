package scheduler

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aristath/megafacil/internal/domain"
)

// HistorySource is the cached history the refresh job keeps warm.
type HistorySource interface {
	Get() (domain.Dataset, error)
}

// HistoryRefreshJob reloads the draw history when its source changed so
// requests do not pay the parse cost, and logs newly published draws.
type HistoryRefreshJob struct {
	log    zerolog.Logger
	source HistorySource

	mu           sync.Mutex
	latestDrawID int
}

// NewHistoryRefreshJob creates a new HistoryRefreshJob
func NewHistoryRefreshJob(source HistorySource) *HistoryRefreshJob {
	return &HistoryRefreshJob{
		log:    zerolog.Nop(),
		source: source,
	}
}

// SetLogger sets the logger for the job
func (j *HistoryRefreshJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *HistoryRefreshJob) Name() string {
	return "history_refresh"
}

// Run executes the refresh
func (j *HistoryRefreshJob) Run() error {
	dataset, err := j.source.Get()
	if err != nil {
		return fmt.Errorf("history refresh failed: %w", err)
	}

	latest := dataset.LatestDrawID()

	j.mu.Lock()
	previous := j.latestDrawID
	j.latestDrawID = latest
	j.mu.Unlock()

	switch {
	case previous == 0:
		j.log.Info().Int("latest_draw_id", latest).Int("draws", dataset.Len()).Msg("History warmed")
	case latest > previous:
		j.log.Info().
			Int("previous_draw_id", previous).
			Int("latest_draw_id", latest).
			Msg("New draws available")
	default:
		j.log.Debug().Int("latest_draw_id", latest).Msg("History unchanged")
	}

	return nil
}

// LatestDrawID returns the newest draw id seen by the last successful run.
func (j *HistoryRefreshJob) LatestDrawID() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.latestDrawID
}
