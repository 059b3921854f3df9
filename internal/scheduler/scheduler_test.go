package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/megafacil/internal/domain"
)

type countingJob struct {
	runs  atomic.Int32
	err   error
	panic bool
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run() error {
	j.runs.Add(1)
	if j.panic {
		panic("boom")
	}
	return j.err
}

type fakeSource struct {
	datasets []domain.Dataset
	err      error
	calls    int
}

func (f *fakeSource) Get() (domain.Dataset, error) {
	if f.err != nil {
		return domain.Dataset{}, f.err
	}
	ds := f.datasets[f.calls]
	if f.calls < len(f.datasets)-1 {
		f.calls++
	}
	return ds, nil
}

func datasetWithLatest(ids ...int) domain.Dataset {
	ds := domain.Dataset{}
	for _, id := range ids {
		ds.Draws = append(ds.Draws, domain.Draw{DrawID: id, Numbers: [6]int{1, 2, 3, 4, 5, 6}})
	}
	return ds
}

func TestScheduler_AddJobRejectsBadSchedule(t *testing.T) {
	s := New(zerolog.Nop())

	err := s.AddJob("not a schedule", &countingJob{})
	require.Error(t, err)
	assert.Equal(t, 0, s.Jobs())

	require.NoError(t, s.AddJob("@every 5m", &countingJob{}))
	require.NoError(t, s.AddJob("*/30 * * * * *", &countingJob{}))
	require.NoError(t, s.AddJob("0 21 * * TUE,THU,SAT", &countingJob{}))
	assert.Equal(t, 3, s.Jobs())
}

func TestScheduler_RunsScheduledJob(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{}

	require.NoError(t, s.AddJob("@every 1s", job))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return job.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{err: errors.New("failed")}

	err := s.RunNow(job)
	assert.EqualError(t, err, "failed")
	assert.Equal(t, int32(1), job.runs.Load())
}

func TestScheduler_RunRecoversPanics(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{panic: true}

	assert.NotPanics(t, func() { s.run(job) })
	assert.Equal(t, int32(1), job.runs.Load())
}

func TestHistoryRefreshJob_TracksLatestDraw(t *testing.T) {
	source := &fakeSource{datasets: []domain.Dataset{
		datasetWithLatest(1, 2),
		datasetWithLatest(1, 2),
		datasetWithLatest(1, 2, 3),
	}}
	job := NewHistoryRefreshJob(source)
	job.SetLogger(zerolog.Nop())

	assert.Equal(t, "history_refresh", job.Name())
	for _, expected := range []int{2, 2, 3} {
		require.NoError(t, job.Run())
		assert.Equal(t, expected, job.LatestDrawID())
	}
}

func TestHistoryRefreshJob_PropagatesErrors(t *testing.T) {
	job := NewHistoryRefreshJob(&fakeSource{err: domain.ErrNotFound})

	err := job.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, job.LatestDrawID())
}

type fixedKeys int

func (f fixedKeys) Keys() int { return int(f) }

func TestLimiterStatsJob(t *testing.T) {
	job := NewLimiterStatsJob(fixedKeys(5), 3)
	job.SetLogger(zerolog.Nop())

	assert.Equal(t, "rate_limiter_stats", job.Name())
	assert.NoError(t, job.Run())
	assert.NoError(t, NewLimiterStatsJob(fixedKeys(5), 0).Run())
}
