package scheduler

import "github.com/rs/zerolog"

// KeyCounter reports how many client keys a limiter tracks.
type KeyCounter interface {
	Keys() int
}

// LimiterStatsJob logs the rate limiter's tracked key count. Idle keys are
// never evicted, so this is the signal for unbounded growth.
type LimiterStatsJob struct {
	log     zerolog.Logger
	limiter KeyCounter
	warnAt  int
}

// NewLimiterStatsJob warns once the tracked keys reach warnAt (0 disables the warning).
func NewLimiterStatsJob(limiter KeyCounter, warnAt int) *LimiterStatsJob {
	return &LimiterStatsJob{
		log:     zerolog.Nop(),
		limiter: limiter,
		warnAt:  warnAt,
	}
}

// SetLogger sets the logger for the job
func (j *LimiterStatsJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *LimiterStatsJob) Name() string {
	return "rate_limiter_stats"
}

// Run executes the job
func (j *LimiterStatsJob) Run() error {
	keys := j.limiter.Keys()
	if j.warnAt > 0 && keys >= j.warnAt {
		j.log.Warn().Int("keys", keys).Int("warn_at", j.warnAt).Msg("Rate limiter key count is high")
		return nil
	}
	j.log.Debug().Int("keys", keys).Msg("Rate limiter stats")
	return nil
}
